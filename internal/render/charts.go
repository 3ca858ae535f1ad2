package render

import (
	"bytes"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"timesheet-dashboard/internal/aggregate"
	"timesheet-dashboard/internal/domain"
)

const (
	pieWidth   = "560px"
	pieHeight  = "420px"
	pieRadius  = "60%"
	echartsURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"
)

// Palette is applied to slices in order and wraps around.
var Palette = []string{
	"#3498db", "#e74c3c", "#2ecc71", "#f39c12", "#9b59b6",
	"#1abc9c", "#34495e", "#e67e22", "#95a5a6", "#f1c40f",
}

// AllocationPie builds a pie chart of worked hours per label.
func AllocationPie(title string, totals domain.CategoryTotals) *charts.Pie {
	slices := aggregate.Slices(totals)
	if len(slices) == 0 {
		return emptyPie(title)
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: pieWidth, Height: pieHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item", Formatter: "{b}: {c}h ({d}%)"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	data := make([]opts.PieData, 0, len(slices))
	for i, s := range slices {
		data = append(data, opts.PieData{
			Name:      s.Label,
			Value:     s.Hours,
			ItemStyle: &opts.ItemStyle{Color: Palette[i%len(Palette)]},
		})
	}
	pie.AddSeries(title, data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
		)
	return pie
}

func emptyPie(title string) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "No data", Left: "center"}),
		charts.WithInitializationOpts(opts.Initialization{Width: pieWidth, Height: pieHeight}),
	)
	return pie
}

// chartFragment renders a chart and keeps only the container markup and its
// script, dropping the standalone page wrapper go-echarts emits.
func chartFragment(pie *charts.Pie) (string, error) {
	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return "", err
	}
	html := buf.String()
	start := strings.Index(html, `<div class="container">`)
	end := strings.Index(html, `</body>`)
	if start == -1 || end == -1 || end < start {
		return html, nil
	}
	return strings.ReplaceAll(html[start:end], `class="container"`, `class="echart-box"`), nil
}

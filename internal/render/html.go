// Package render presents an aggregate.Summary as an HTML dashboard or as
// plain-text tables.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"timesheet-dashboard/internal/aggregate"
	"timesheet-dashboard/internal/domain"
)

const pageTitle = "Time, Divided & Conquered"

//go:embed templates/*.html
var templateFS embed.FS

var (
	pageTmpl     *template.Template
	pageTmplOnce sync.Once
	errPageTmpl  error
)

func dashboardTemplate() (*template.Template, error) {
	pageTmplOnce.Do(func() {
		pageTmpl, errPageTmpl = template.ParseFS(templateFS, "templates/dashboard.html")
	})
	return pageTmpl, errPageTmpl
}

// Card is one of the average tiles above the charts.
type Card struct {
	Label string
	Value string
}

type chartSection struct {
	Title string
	HTML  template.HTML
}

type pageData struct {
	Title        string
	EchartsURL   string
	EntryCount   int
	FetchedAgo   string
	InvalidCount int
	Cards        []Card
	Charts       []chartSection
}

// Cards returns the average tiles in display order.
func Cards(s aggregate.Summary) []Card {
	return []Card{
		{Label: "Avg Start Time", Value: s.Averages.StartTime},
		{Label: "Avg End Time", Value: s.Averages.EndTime},
		{Label: "Avg Break Duration", Value: s.Averages.BreakDuration},
		{Label: "Avg Work Duration", Value: s.Averages.WorkDuration},
	}
}

// HTML writes a self-contained dashboard page: average cards followed by the
// project and workplace pie charts.
func HTML(w io.Writer, s aggregate.Summary) error {
	tmpl, err := dashboardTemplate()
	if err != nil {
		return fmt.Errorf("render: parse template: %w", err)
	}

	data := pageData{
		Title:        pageTitle,
		EchartsURL:   echartsURL,
		EntryCount:   s.EntryCount,
		FetchedAgo:   fetchedAgo(s.FetchedAt, time.Now()),
		InvalidCount: len(s.InvalidTimestamps),
		Cards:        Cards(s),
	}
	for _, sec := range []struct {
		title  string
		totals domain.CategoryTotals
	}{
		{"Project Allocation", s.ProjectTotals},
		{"Workplace Allocation", s.WorkplaceTotals},
	} {
		frag, err := chartFragment(AllocationPie(sec.title, sec.totals))
		if err != nil {
			return fmt.Errorf("render: %s chart: %w", sec.title, err)
		}
		data.Charts = append(data.Charts, chartSection{Title: sec.title, HTML: template.HTML(frag)})
	}

	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render: execute template: %w", err)
	}
	return nil
}

func fetchedAgo(at, now time.Time) string {
	if at.IsZero() {
		return "never"
	}
	return humanize.RelTime(at, now, "ago", "from now")
}

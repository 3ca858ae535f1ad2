package render

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"timesheet-dashboard/internal/aggregate"
	"timesheet-dashboard/internal/domain"
	"timesheet-dashboard/internal/timecodec"
)

// Text writes the averages and both allocation tables.
func Text(w io.Writer, s aggregate.Summary) error {
	return textAt(w, s, time.Now())
}

func textAt(w io.Writer, s aggregate.Summary, now time.Time) error {
	avg := table.NewWriter()
	avg.SetStyle(table.StyleLight)
	avg.SetTitle("Averages")
	avg.AppendHeader(table.Row{"Metric", "Value"})
	for _, c := range Cards(s) {
		avg.AppendRow(table.Row{c.Label, c.Value})
	}
	avg.AppendFooter(table.Row{"Entries", s.EntryCount})

	if _, err := fmt.Fprintln(w, avg.Render()); err != nil {
		return err
	}
	for _, sec := range []struct {
		title  string
		totals domain.CategoryTotals
	}{
		{"Project Allocation", s.ProjectTotals},
		{"Workplace Allocation", s.WorkplaceTotals},
	} {
		if _, err := fmt.Fprintln(w, allocationTable(sec.title, sec.totals)); err != nil {
			return err
		}
	}
	if n := len(s.InvalidTimestamps); n > 0 {
		if _, err := fmt.Fprintf(w, "warning: %d start/end value(s) counted as midnight\n", n); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "fetched %s\n", fetchedAgo(s.FetchedAt, now))
	return err
}

func allocationTable(title string, totals domain.CategoryTotals) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.SetTitle(title)
	tbl.AppendHeader(table.Row{"Label", "Time", "Hours", "Share"})
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	slices := aggregate.Slices(totals)
	if len(slices) == 0 {
		tbl.AppendRow(table.Row{"(no data)", "", "", ""})
		return tbl.Render()
	}
	for _, sl := range slices {
		tbl.AppendRow(table.Row{
			sl.Label,
			timecodec.FormatMinutes(sl.Minutes),
			fmt.Sprintf("%.2f", sl.Hours),
			fmt.Sprintf("%.1f%%", sl.Share),
		})
	}
	tbl.AppendFooter(table.Row{"Total", timecodec.FormatMinutes(totals.Sum()), timecodec.FormatHours(totals.Sum()), ""})
	return tbl.Render()
}

package aggregate

import (
	"sort"
	"time"

	"timesheet-dashboard/internal/domain"
	"timesheet-dashboard/internal/timecodec"
)

// Summary is the presentation-facing view of an AggregationResult.
// Totals stay in raw minutes; only the averages are pre-formatted.
type Summary struct {
	ProjectTotals     domain.CategoryTotals `json:"projectTotals"`
	WorkplaceTotals   domain.CategoryTotals `json:"workplaceTotals"`
	Averages          FormattedAverages     `json:"averages"`
	EntryCount        int                   `json:"entryCount"`
	InvalidTimestamps []InvalidTimestamp    `json:"invalidTimestamps,omitempty"`
	FetchedAt         time.Time             `json:"fetchedAt"`
}

// FormattedAverages carries the display strings for the four average cards.
type FormattedAverages struct {
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	BreakDuration string `json:"breakDuration"`
	WorkDuration  string `json:"workDuration"`
}

// InvalidTimestamp is the JSON form of domain.InvalidTimestamp.
type InvalidTimestamp struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// Summarize formats a result for the presentation layer.
func Summarize(res domain.AggregationResult, fetchedAt time.Time) Summary {
	s := Summary{
		ProjectTotals:   nonNil(res.ProjectTotals),
		WorkplaceTotals: nonNil(res.WorkplaceTotals),
		Averages: FormattedAverages{
			StartTime:     timecodec.MinutesToClockString(res.Averages.StartTime),
			EndTime:       timecodec.MinutesToClockString(res.Averages.EndTime),
			BreakDuration: timecodec.MinutesToDurationString(res.Averages.BreakDuration),
			WorkDuration:  timecodec.MinutesToDurationString(res.Averages.WorkDuration),
		},
		EntryCount: res.EntryCount,
		FetchedAt:  fetchedAt,
	}
	for _, it := range res.Diagnostics.InvalidTimestamps {
		s.InvalidTimestamps = append(s.InvalidTimestamps, InvalidTimestamp(it))
	}
	return s
}

// Slice is one segment of a pie chart or one row of an allocation table.
type Slice struct {
	Label   string
	Minutes float64
	Hours   float64 // two decimals
	Share   float64 // percent of the dimension total, 0 when the total is 0
}

// Slices orders the totals by minutes descending, then by label, so that
// renderers produce stable output from map input.
func Slices(totals domain.CategoryTotals) []Slice {
	labels := make([]string, 0, len(totals))
	for l := range totals {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	var sum float64
	out := make([]Slice, 0, len(labels))
	for _, l := range labels {
		sum += totals[l]
		out = append(out, Slice{Label: l, Minutes: totals[l], Hours: timecodec.MinutesToHours(totals[l])})
	}
	for i := range out {
		if sum > 0 {
			out[i].Share = out[i].Minutes / sum * 100
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Minutes > out[j].Minutes })
	return out
}

func nonNil(t domain.CategoryTotals) domain.CategoryTotals {
	if t == nil {
		return domain.CategoryTotals{}
	}
	return t
}

package aggregate

import (
	"math"

	"timesheet-dashboard/internal/domain"
	"timesheet-dashboard/internal/timecodec"
)

// ComputeAverages returns the mean start and end time of day and the mean
// break and work durations. Sums are kept exact and rounded once at the end.
// An empty batch yields the zero Averages.
func ComputeAverages(entries []domain.TimeEntry) domain.Averages {
	if len(entries) == 0 {
		return domain.Averages{}
	}
	var start, end, brk, work int
	for _, e := range entries {
		start += timecodec.TimeOfDayToMinutes(e.Start)
		end += timecodec.TimeOfDayToMinutes(e.End)
		brk += timecodec.DurationToMinutes(e.BreakDuration)
		work += timecodec.DurationToMinutes(e.WorkDuration)
	}
	n := float64(len(entries))
	return domain.Averages{
		StartTime:     mean(start, n),
		EndTime:       mean(end, n),
		BreakDuration: mean(brk, n),
		WorkDuration:  mean(work, n),
	}
}

func mean(sum int, n float64) int {
	return int(math.Round(float64(sum) / n))
}

// invalidTimestamps lists start/end values that fell back to midnight.
func invalidTimestamps(entries []domain.TimeEntry) []domain.InvalidTimestamp {
	var out []domain.InvalidTimestamp
	for i, e := range entries {
		if _, err := timecodec.ParseTimeOfDay(e.Start); err != nil {
			out = append(out, domain.InvalidTimestamp{Index: i, ID: e.ID, Field: "start", Value: e.Start})
		}
		if _, err := timecodec.ParseTimeOfDay(e.End); err != nil {
			out = append(out, domain.InvalidTimestamp{Index: i, ID: e.ID, Field: "end", Value: e.End})
		}
	}
	return out
}

package aggregate

import (
	"timesheet-dashboard/internal/domain"
	"timesheet-dashboard/internal/timecodec"
)

// AllocationSelector picks one category dimension out of an entry.
type AllocationSelector func(domain.TimeEntry) []domain.Allocation

// ProjectAllocations selects the per-project split.
func ProjectAllocations(e domain.TimeEntry) []domain.Allocation { return e.ProjectAllocation }

// WorkplaceAllocations selects the per-workplace split.
func WorkplaceAllocations(e domain.TimeEntry) []domain.Allocation { return e.WorkplaceAllocation }

// Accumulate spreads each entry's worked minutes over the selected labels in
// proportion to their percentages and sums the shares per label.
// Percentages are used as given: a split summing to 70 allocates 70% of the
// entry. Values stay in fractional minutes.
func Accumulate(entries []domain.TimeEntry, sel AllocationSelector) domain.CategoryTotals {
	totals := make(domain.CategoryTotals)
	for _, e := range entries {
		work := float64(timecodec.DurationToMinutes(e.WorkDuration))
		for _, a := range sel(e) {
			totals[a.Label] += work * (a.Percentage / 100)
		}
	}
	return totals
}

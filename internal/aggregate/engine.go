// Package aggregate turns a batch of time entries into per-category totals,
// batch averages and the summary consumed by the presentation layer.
//
// Everything here is a pure function of its input: no I/O, no shared state.
// Independent batches may be aggregated concurrently.
package aggregate

import (
	"timesheet-dashboard/internal/domain"
)

// Aggregate validates the batch and computes the project totals, workplace
// totals and averages. A structurally invalid entry aborts the whole batch
// with a *domain.EntryError; nothing is partially aggregated.
func Aggregate(entries []domain.TimeEntry) (domain.AggregationResult, error) {
	if err := Validate(entries); err != nil {
		return domain.AggregationResult{}, err
	}
	return domain.AggregationResult{
		ProjectTotals:   Accumulate(entries, ProjectAllocations),
		WorkplaceTotals: Accumulate(entries, WorkplaceAllocations),
		Averages:        ComputeAverages(entries),
		EntryCount:      len(entries),
		Diagnostics: domain.Diagnostics{
			InvalidTimestamps: invalidTimestamps(entries),
		},
	}, nil
}

// Validate checks the mandatory fields of every entry and reports the first
// offender by index and ID.
func Validate(entries []domain.TimeEntry) error {
	for i, e := range entries {
		switch {
		case e.ID == "":
			return &domain.EntryError{Index: i, Reason: "missing id"}
		case e.Start == "":
			return &domain.EntryError{Index: i, ID: e.ID, Reason: "missing start"}
		case e.End == "":
			return &domain.EntryError{Index: i, ID: e.ID, Reason: "missing end"}
		}
	}
	return nil
}

package ports

import (
	"context"

	"timesheet-dashboard/internal/domain"
)

// EntrySource supplies one complete batch of time entries per call.
// Implementations handle transport and decoding; the batch is handed to the
// aggregation engine as-is.
type EntrySource interface {
	ListTimeEntries(ctx context.Context) ([]domain.TimeEntry, error)
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"timesheet-dashboard/internal/aggregate"
	"timesheet-dashboard/internal/domain"
	"timesheet-dashboard/internal/metrics"
	"timesheet-dashboard/internal/ports"
)

var ErrNotInitialized = errors.New("usecase not initialized: missing dependencies")

// DashboardUseCase fetches one batch from the source and turns it into a Summary.
type DashboardUseCase struct {
	Log     *slog.Logger
	Source  ports.EntrySource
	Metrics *metrics.Metrics // optional
	Now     func() time.Time // optional, defaults to time.Now
}

func (uc *DashboardUseCase) Run(ctx context.Context) (aggregate.Summary, error) {
	if uc.Source == nil || uc.Log == nil {
		return aggregate.Summary{}, ErrNotInitialized
	}
	fetchedAt := uc.now()
	uc.Log.Info("fetching time entries")

	entries, err := uc.Source.ListTimeEntries(ctx)
	if err != nil {
		uc.observeFetch(resultFor(err), fetchedAt)
		return aggregate.Summary{}, fmt.Errorf("fetch time entries: %w", err)
	}
	uc.Log.Info("fetched time entries", slog.Int("count", len(entries)))

	res, err := aggregate.Aggregate(entries)
	if err != nil {
		uc.observeFetch(metrics.ResultInvalidBatch, fetchedAt)
		return aggregate.Summary{}, fmt.Errorf("aggregate time entries: %w", err)
	}
	uc.observeFetch(metrics.ResultOK, fetchedAt)

	invalid := res.Diagnostics.InvalidTimestamps
	if len(invalid) > 0 {
		first := invalid[0]
		uc.Log.Warn("unreadable timestamps counted as midnight",
			slog.Int("count", len(invalid)),
			slog.String("first_id", first.ID),
			slog.String("first_field", first.Field),
			slog.String("first_value", first.Value),
		)
	}
	if uc.Metrics != nil {
		uc.Metrics.ObserveBatch(res.EntryCount, len(invalid), fetchedAt)
	}

	summary := aggregate.Summarize(res, fetchedAt)
	uc.Log.Info("aggregation completed",
		slog.Int("entries", res.EntryCount),
		slog.Int("projects", len(res.ProjectTotals)),
		slog.Int("workplaces", len(res.WorkplaceTotals)),
	)
	return summary, nil
}

func (uc *DashboardUseCase) now() time.Time {
	if uc.Now != nil {
		return uc.Now()
	}
	return time.Now().UTC()
}

func (uc *DashboardUseCase) observeFetch(result string, started time.Time) {
	if uc.Metrics == nil {
		return
	}
	uc.Metrics.ObserveFetch(result, uc.now().Sub(started))
}

func resultFor(err error) string {
	if errors.Is(err, domain.ErrInvalidEntry) {
		return metrics.ResultInvalidBatch
	}
	return metrics.ResultFetchError
}

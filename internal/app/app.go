package app

import (
	"context"
	"io"
	"log/slog"

	msql "timesheet-dashboard/internal/adapter/mysql"
	"timesheet-dashboard/internal/adapter/timeapi"
	"timesheet-dashboard/internal/aggregate"
	"timesheet-dashboard/internal/config"
	"timesheet-dashboard/internal/metrics"
	"timesheet-dashboard/internal/migrate"
	"timesheet-dashboard/internal/ports"
	"timesheet-dashboard/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log     *slog.Logger
	uc      *usecase.DashboardUseCase
	snaps   *usecase.Snapshotter
	metrics *metrics.Metrics
	closer  io.Closer
}

func New(ctx context.Context, log *slog.Logger, cfg config.Config) (*App, error) {
	var (
		source ports.EntrySource
		closer io.Closer
	)
	switch cfg.Source {
	case config.SourceMySQL:
		if cfg.MySQL.Migrate {
			if err := migrate.Run(ctx, cfg.MySQL.DSN, log); err != nil {
				return nil, err
			}
		}
		src, err := msql.NewSource(ctx, cfg.MySQL.DSN, log)
		if err != nil {
			return nil, err
		}
		source, closer = src, src
	default:
		source = timeapi.NewClient(cfg.TimeAPI.BaseURL, cfg.TimeAPI.Path, cfg.TimeAPI.Token, cfg.TimeAPI.Timeout, log)
	}
	log.Info("entry source configured", slog.String("source", cfg.Source))

	a := NewWithSource(log, source, metrics.New())
	a.closer = closer
	return a, nil
}

// NewWithSource builds an App around an existing source. A nil m gets a
// fresh metrics registry.
func NewWithSource(log *slog.Logger, source ports.EntrySource, m *metrics.Metrics) *App {
	if m == nil {
		m = metrics.New()
	}
	uc := &usecase.DashboardUseCase{
		Log:     log,
		Source:  source,
		Metrics: m,
	}
	return &App{
		log:     log,
		uc:      uc,
		snaps:   usecase.NewSnapshotter(uc),
		metrics: m,
	}
}

// RunOnce fetches and aggregates a single batch.
func (a *App) RunOnce(ctx context.Context) (aggregate.Summary, error) {
	return a.uc.Run(ctx)
}

// Snapshots exposes the in-memory snapshot used by the HTTP server.
func (a *App) Snapshots() *usecase.Snapshotter { return a.snaps }

// Close releases the source connection, if any.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

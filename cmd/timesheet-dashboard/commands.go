package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"timesheet-dashboard/internal/app"
	"timesheet-dashboard/internal/config"
	"timesheet-dashboard/internal/render"
)

const shutdownTimeout = 10 * time.Second

// ErrNoOutput is returned when render is called without --out.
var ErrNoOutput = errors.New("output file is required (use --out)")

func newApp(ctx context.Context) (*app.App, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, fmt.Errorf("load config: %w", err)
	}
	a, err := app.New(ctx, slog.Default(), cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("initialize app: %w", err)
	}
	return a, cfg, nil
}

func summaryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch time entries once and print the summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, _, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sum, err := a.RunOnce(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}
			return render.Text(cmd.OutOrStdout(), sum)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

func renderCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch time entries once and write the HTML dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return ErrNoOutput
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, _, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sum, err := a.RunOnce(ctx)
			if err != nil {
				return err
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := render.HTML(f, sum); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			slog.Info("dashboard written", slog.String("path", out), slog.Int("entries", sum.EntryCount))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output HTML file")

	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard and refresh it periodically",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, cfg, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := a.HTTPServer(cfg.HTTP.Addr)
			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				slog.Info("http server starting", slog.String("addr", cfg.HTTP.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				slog.Info("shutting down")
				return srv.Shutdown(shCtx)
			})
			g.Go(func() error {
				return a.Snapshots().Loop(gctx, cfg.HTTP.RefreshInterval)
			})

			return g.Wait()
		},
	}
}

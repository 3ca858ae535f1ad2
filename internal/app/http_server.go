package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"timesheet-dashboard/internal/aggregate"
	"timesheet-dashboard/internal/domain"
	"timesheet-dashboard/internal/render"
	"timesheet-dashboard/internal/usecase"
)

// HTTPServer returns a configured http.Server exposing the dashboard, the JSON
// summary and metrics. Call ListenAndServe on the returned server in a
// goroutine and Shutdown it on exit.
func (a *App) HTTPServer(addr string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// /api/summary?refresh=1&timeout=5s
	// refresh forces a new fetch; otherwise the latest snapshot is served.
	mux.HandleFunc("/api/summary", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()

		sum, err := a.summary(ctx, r.URL.Query().Get("refresh") != "")
		if err != nil {
			writeJSON(w, errorStatus(err), map[string]any{
				"status": "error",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, sum)
	})

	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		ctx, cancel := requestContext(r)
		defer cancel()

		sum, err := a.summary(ctx, r.URL.Query().Get("refresh") != "")
		if err != nil {
			http.Error(w, err.Error(), errorStatus(err))
			return
		}
		var buf bytes.Buffer
		if err := render.HTML(&buf, sum); err != nil {
			a.log.Error("render dashboard", slog.String("error", err.Error()))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})

	mux.Handle("/metrics", a.metrics.Handler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           requestID(loggingMiddleware(a.log, mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.log.Info("http server configured", slog.String("addr", addr))
	return srv
}

func (a *App) summary(ctx context.Context, refresh bool) (aggregate.Summary, error) {
	if refresh {
		return a.snaps.Refresh(ctx)
	}
	return a.snaps.Current(ctx)
}

// requestContext applies an optional ?timeout=30s override.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if tStr := r.URL.Query().Get("timeout"); tStr != "" {
		if d, err := time.ParseDuration(tStr); err == nil && d > 0 {
			return context.WithTimeout(r.Context(), d)
		}
	}
	return context.WithCancel(r.Context())
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, usecase.ErrRefreshRunning):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidEntry):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type ctxKey struct{}

// requestID tags each request with an X-Request-ID, reusing the caller's value.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware provides basic request logging.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
			slog.Int("status", rec.status),
			slog.String("request_id", requestIDFrom(r.Context())),
			slog.Duration("dur", time.Since(start)),
		)
	})
}

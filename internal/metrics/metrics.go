// Package metrics exposes refresh and aggregation counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels for FetchTotal.
const (
	ResultOK           = "ok"
	ResultFetchError   = "fetch_error"
	ResultInvalidBatch = "invalid_batch"
)

// Metrics holds the collectors on a private registry so that several
// instances (tests, multiple servers) never collide.
type Metrics struct {
	registry *prometheus.Registry

	FetchTotal        *prometheus.CounterVec
	FetchDuration     prometheus.Histogram
	EntriesAggregated prometheus.Counter
	InvalidTimestamps prometheus.Counter
	LastRefresh       prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "timesheet_fetch_total",
			Help: "Batches fetched from the entry source, by result.",
		}, []string{"result"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "timesheet_fetch_duration_seconds",
			Help:    "Time spent fetching one batch.",
			Buckets: prometheus.DefBuckets,
		}),
		EntriesAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timesheet_entries_aggregated_total",
			Help: "Entries passed through the aggregation engine.",
		}),
		InvalidTimestamps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "timesheet_invalid_timestamps_total",
			Help: "Start or end values whose time of day could not be read.",
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "timesheet_last_refresh_timestamp_seconds",
			Help: "Unix time of the last successful refresh.",
		}),
	}
	m.registry.MustRegister(m.FetchTotal, m.FetchDuration, m.EntriesAggregated, m.InvalidTimestamps, m.LastRefresh)
	return m
}

// ObserveFetch records one fetch attempt.
func (m *Metrics) ObserveFetch(result string, d time.Duration) {
	m.FetchTotal.WithLabelValues(result).Inc()
	m.FetchDuration.Observe(d.Seconds())
}

// ObserveBatch records a successfully aggregated batch.
func (m *Metrics) ObserveBatch(entries, invalidTimestamps int, at time.Time) {
	m.EntriesAggregated.Add(float64(entries))
	m.InvalidTimestamps.Add(float64(invalidTimestamps))
	m.LastRefresh.Set(float64(at.Unix()))
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

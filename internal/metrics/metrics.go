// Package metrics exposes Prometheus collectors for the month-start cache,
// feed generation and the feed server.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tartampluch/go-hijri/internal/config"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	MonthStartLookups *prometheus.CounterVec
	FeedGenerations   *prometheus.CounterVec
	FeedDuration      prometheus.Histogram
	FeedEvents        prometheus.Gauge
	HTTPRequests      *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MonthStartLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.MetricsNamespace,
				Subsystem: config.MetricsSubsystemHijri,
				Name:      "month_start_lookups_total",
				Help:      "Astronomical month-start lookups by cache result",
			},
			[]string{config.MetricsLabelResult},
		),
		FeedGenerations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.MetricsNamespace,
				Subsystem: config.MetricsSubsystemFeed,
				Name:      "generations_total",
				Help:      "ICS feed generations by outcome",
			},
			[]string{config.MetricsLabelStatus},
		),
		FeedDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: config.MetricsNamespace,
				Subsystem: config.MetricsSubsystemFeed,
				Name:      "generation_duration_seconds",
				Help:      "ICS feed generation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		FeedEvents: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: config.MetricsNamespace,
				Subsystem: config.MetricsSubsystemFeed,
				Name:      "events",
				Help:      "Number of events in the last generated feed",
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: config.MetricsNamespace,
				Subsystem: config.MetricsSubsystemServer,
				Name:      "requests_total",
				Help:      "Feed requests by HTTP status code",
			},
			[]string{config.MetricsLabelCode},
		),
	}
}

// ObserveMonthStartLookup counts one astronomical cache lookup.
func (m *Metrics) ObserveMonthStartLookup(hit bool) {
	result := config.MetricsResultMiss
	if hit {
		result = config.MetricsResultHit
	}
	m.MonthStartLookups.WithLabelValues(result).Inc()
}

// ObserveFeed records one feed generation.
func (m *Metrics) ObserveFeed(events int, d time.Duration, err error) {
	status := config.MetricsStatusOK
	if err != nil {
		status = config.MetricsStatusError
	}
	m.FeedGenerations.WithLabelValues(status).Inc()
	m.FeedDuration.Observe(d.Seconds())
	if err == nil {
		m.FeedEvents.Set(float64(events))
	}
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(code int) {
	m.HTTPRequests.WithLabelValues(strconv.Itoa(code)).Inc()
}

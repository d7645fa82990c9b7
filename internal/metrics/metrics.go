// Package metrics defines Prometheus metrics for searches, lookups and page fetches.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/tropelink/pkg/adapters/cache"
	"github.com/aretw0/tropelink/pkg/adapters/tvtropes"
	"github.com/aretw0/tropelink/pkg/domain"
)

// Metrics groups the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	Searches       *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	Expansions     prometheus.Counter
	LookupDuration prometheus.Histogram
	Fetches        *prometheus.CounterVec
	FetchDuration  prometheus.Histogram
	CacheLookups   *prometheus.CounterVec
}

// New creates the collectors and registers them, together with the Go runtime
// collectors, on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tropelink_searches_total",
				Help: "Finished searches by outcome",
			},
			[]string{"outcome"},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tropelink_search_duration_seconds",
				Help:    "Wall time of a search",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
			},
		),
		Expansions: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tropelink_expansions_total",
				Help: "Entities expanded across all searches",
			},
		),
		LookupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tropelink_lookup_duration_seconds",
				Help:    "Duration of a neighbor lookup",
				Buckets: prometheus.DefBuckets,
			},
		),
		Fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tropelink_fetch_total",
				Help: "HTTP attempts against the wiki by status",
			},
			[]string{"status"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tropelink_fetch_duration_seconds",
				Help:    "Duration of a single HTTP attempt",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tropelink_cache_total",
				Help: "Neighbor cache lookups by result",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.Searches,
		m.SearchDuration,
		m.Expansions,
		m.LookupDuration,
		m.Fetches,
		m.FetchDuration,
		m.CacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks adapts the collectors to engine events.
func (m *Metrics) Hooks() domain.SearchHooks {
	return domain.SearchHooks{
		OnExpand: func(_ context.Context, ev *domain.ExpandEvent) {
			m.Expansions.Inc()
			m.LookupDuration.Observe(ev.Duration.Seconds())
		},
		OnSearchEnd: func(_ context.Context, ev *domain.SearchEvent) {
			m.Searches.WithLabelValues(outcomeLabel(ev)).Inc()
			m.SearchDuration.Observe(ev.Duration.Seconds())
		},
	}
}

// FetchHook records every HTTP attempt of a tvtropes.Fetcher.
func (m *Metrics) FetchHook() tvtropes.FetchHook {
	return func(_ string, status int, err error, elapsed time.Duration) {
		label := strconv.Itoa(status)
		if status == 0 {
			label = "error"
		}
		m.Fetches.WithLabelValues(label).Inc()
		m.FetchDuration.Observe(elapsed.Seconds())
	}
}

// CacheReporter counts memo hits and misses.
func (m *Metrics) CacheReporter() func(cache.Result) {
	return func(r cache.Result) {
		m.CacheLookups.WithLabelValues(string(r)).Inc()
	}
}

func outcomeLabel(ev *domain.SearchEvent) string {
	switch {
	case ev.Err == nil:
		return string(ev.Outcome)
	case errors.Is(ev.Err, domain.ErrSearchLimit):
		return "limit"
	case errors.Is(ev.Err, context.Canceled), errors.Is(ev.Err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}

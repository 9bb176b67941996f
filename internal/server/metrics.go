package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metric labels
const (
	LabelRoute = "route"
	LabelCode  = "code"
)

// Metrics holds the service collectors on a private registry, so several
// servers (e.g. in tests) never collide on registration.
type Metrics struct {
	Registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	tokens      prometheus.Counter
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wstok_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{LabelRoute, LabelCode},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wstok_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{LabelRoute},
		),
		tokens: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wstok_tokens_total",
			Help: "Total number of tokens returned",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wstok_cache_hits_total",
			Help: "Result cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wstok_cache_misses_total",
			Help: "Result cache misses",
		}),
	}
	m.Registry.MustRegister(
		m.requests, m.duration, m.tokens, m.cacheHits, m.cacheMisses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) observeCache(hit bool) {
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pageza/foodgram/backend/internal/store"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeConflict = "conflict"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	toggles      *prometheus.CounterVec
	exports      prometheus.Counter
	exportLines  prometheus.Histogram
	shortLinks   *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		toggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_relation_toggles_total",
			Help: "Favorite, cart and subscription toggles by kind, operation and outcome",
		}, []string{"kind", "op", "outcome"}),
		exports: f.NewCounter(prometheus.CounterOpts{
			Name: "foodgram_shopping_list_exports_total",
			Help: "Shopping lists exported",
		}),
		exportLines: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_lines",
			Help:    "Aggregated lines per exported shopping list",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		shortLinks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "foodgram_short_link_resolutions_total",
			Help: "Short link lookups by outcome",
		}, []string{"outcome"}),
	}
}

// Outcome classifies an operation error for metric labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, store.ErrAlreadyExists):
		return OutcomeConflict
	case errors.Is(err, store.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, store.ErrConstraint):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

func (m *Metrics) RecordToggle(kind, op string, err error) {
	if m == nil {
		return
	}
	m.toggles.WithLabelValues(kind, op, Outcome(err)).Inc()
}

func (m *Metrics) RecordExport(lines int) {
	if m == nil {
		return
	}
	m.exports.Inc()
	m.exportLines.Observe(float64(lines))
}

func (m *Metrics) RecordShortLink(err error) {
	if m == nil {
		return
	}
	m.shortLinks.WithLabelValues(Outcome(err)).Inc()
}

// Middleware records request counts and latency keyed by the matched route
// template, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

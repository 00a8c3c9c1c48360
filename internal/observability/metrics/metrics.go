// Package metrics exposes prometheus instruments for the HTTP layer and the
// ingestion pipeline.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides the application metrics.
var Module = fx.Provide(New)

// Ingest record outcomes.
const (
	OutcomeIngested  = "ingested"
	OutcomeSkipped   = "skipped"
	OutcomeDuplicate = "duplicate"
	OutcomeFailed    = "failed"
)

// Metrics holds the application-level instruments.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	ingestRecords *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spendlens_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spendlens_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ingestRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spendlens_ingest_records_total",
			Help: "Ingested batch records by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(m.httpRequests, m.httpDuration, m.ingestRecords)
	return m
}

// RecordIngest counts one batch record with the given outcome.
func (m *Metrics) RecordIngest(outcome string) {
	if m == nil {
		return
	}
	m.ingestRecords.WithLabelValues(outcome).Inc()
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.httpRequests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

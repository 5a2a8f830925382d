// Package metrics exposes Prometheus collectors for HTTP traffic and domain events.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the application's collectors on a private prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	auditWriteFailures *prometheus.CounterVec
	approvalRevoked    prometheus.Counter
	quotesWritten      *prometheus.CounterVec
	catalogCache       *prometheus.CounterVec
}

// New builds a registry with Go runtime and process collectors plus the domain counters.
func New() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		auditWriteFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_write_failures_total",
			Help: "Audit records that could not be written and were dropped.",
		}, []string{"action"}),
		approvalRevoked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotes_approval_revoked_total",
			Help: "Edits that moved an APPROVED quote back to SUBMITTED.",
		}),
		quotesWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quotes_written_total",
			Help: "Quote aggregate writes by operation.",
		}, []string{"op"}),
		catalogCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_cache_lookups_total",
			Help: "Article lookups served by the cache (hit) or the database (miss).",
		}, []string{"result"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requests,
		r.requestDuration,
		r.auditWriteFailures,
		r.approvalRevoked,
		r.quotesWritten,
		r.catalogCache,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
	return gin.WrapH(h)
}

// Middleware records request count and latency keyed by the matched route.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		r.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.requestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// AuditWriteFailed counts a dropped audit record.
func (r *Registry) AuditWriteFailed(action string) {
	if r == nil {
		return
	}
	r.auditWriteFailures.WithLabelValues(action).Inc()
}

// ApprovalRevoked counts an approved quote forced back to SUBMITTED.
func (r *Registry) ApprovalRevoked() {
	if r == nil {
		return
	}
	r.approvalRevoked.Inc()
}

// QuoteWritten counts a committed quote write ("create", "update", "delete").
func (r *Registry) QuoteWritten(op string) {
	if r == nil {
		return
	}
	r.quotesWritten.WithLabelValues(op).Inc()
}

// CatalogLookup counts a cache hit or miss.
func (r *Registry) CatalogLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.catalogCache.WithLabelValues(result).Inc()
}

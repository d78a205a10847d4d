package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// HTTPMetrics tracks request counts and latencies per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// SyncMetrics tracks inventory sync and scheduled-job outcomes.
type SyncMetrics struct {
	runs      *prometheus.CounterVec
	rows      *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lotkeeper_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lotkeeper_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
	prometheus.MustRegister(m.requests, m.duration)
	return m
}

func NewSyncMetrics() *SyncMetrics {
	m := &SyncMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lotkeeper_sync_runs_total",
			Help: "Inventory sync runs by trigger and result.",
		}, []string{"trigger", "result"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lotkeeper_sync_rows_total",
			Help: "Source rows by outcome (created, updated, skipped, failed).",
		}, []string{"outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lotkeeper_job_duration_seconds",
			Help:    "Scheduled job duration by job name.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"job"}),
	}
	prometheus.MustRegister(m.runs, m.rows, m.durations)
	return m
}

func (m *SyncMetrics) IncRun(trigger string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.runs.WithLabelValues(trigger, result).Inc()
}

func (m *SyncMetrics) AddRows(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rows.WithLabelValues(outcome).Add(float64(n))
}

func (m *SyncMetrics) ObserveJob(job string, d time.Duration) {
	if m == nil {
		return
	}
	m.durations.WithLabelValues(job).Observe(d.Seconds())
}

// GinMiddleware records request metrics after the handler chain runs.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if m == nil {
			return
		}
		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewSyncMetrics),
)

package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	SyncRowsInserted  prometheus.Counter
	SyncRowsUpdated   prometheus.Counter
	SyncQuotesSkipped prometheus.Counter
}

// New registers all collectors on reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction does not panic.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		SyncRowsInserted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sync_rows_inserted_total",
				Help: "Total number of exchange rate rows inserted by sync",
			},
		),

		SyncRowsUpdated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sync_rows_updated_total",
				Help: "Total number of exchange rate rows updated by sync",
			},
		),

		SyncQuotesSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sync_quotes_skipped_total",
				Help: "Total number of invalid quotes skipped during sync",
			},
		),
	}
}

// GinMiddleware records request counts and durations per route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		m.HTTPRequestsTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

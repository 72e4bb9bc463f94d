package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	CatalogScans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_scans_total",
			Help: "Catalog store scans by operation and driving index",
		},
		[]string{"operation", "index"},
	)

	CatalogCountCapped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_count_capped_total",
			Help: "Count requests that hit the count cap",
		},
	)

	CatalogCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cache_requests_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)

	CatalogHubClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_hub_clients",
			Help: "Connected live catalog subscribers",
		},
	)

	GradingVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grading_verdicts_total",
			Help: "Recorded attempts by result type and verdict",
		},
		[]string{"type", "verdict"},
	)

	ImportRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_records_total",
			Help: "Imported dataset records by outcome",
		},
		[]string{"outcome"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			CatalogScans,
			CatalogCountCapped,
			CatalogCacheRequests,
			CatalogHubClients,
			GradingVerdicts,
			ImportRecords,
		)
	})
}

// Verdict is the label value for a tri-state correctness result.
func Verdict(isCorrect *bool) string {
	switch {
	case isCorrect == nil:
		return "ungraded"
	case *isCorrect:
		return "correct"
	}
	return "incorrect"
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

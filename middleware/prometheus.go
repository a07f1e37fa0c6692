package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "code"},
	)

	requestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "code"},
	)

	requestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	responseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "response_size_bytes",
			Help:    "Size of HTTP responses in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path", "code"},
	)
)

// infrastructurePaths are probe and scrape endpoints kept out of the
// request metrics.
var infrastructurePaths = []string{"/health", "/ready", "/metrics"}

func shouldCollectMetrics(path string) bool {
	for _, skip := range infrastructurePaths {
		if strings.HasPrefix(path, skip) {
			return false
		}
	}
	return true
}

// routeLabel uses the matched route template so path parameters do not
// explode label cardinality.
func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}

// PrometheusMiddleware records request count, latency, size and in-flight
// gauges per route.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !shouldCollectMetrics(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method
		path := routeLabel(c)

		requestsInFlight.WithLabelValues(method, path).Inc()
		defer requestsInFlight.WithLabelValues(method, path).Dec()

		c.Next()

		statusCode := strconv.Itoa(c.Writer.Status())
		requestDuration.WithLabelValues(method, path, statusCode).Observe(time.Since(start).Seconds())
		requestTotal.WithLabelValues(method, path, statusCode).Inc()
		responseSize.WithLabelValues(method, path, statusCode).Observe(responseBytes(c.Writer.Size()))
	}
}

// responseBytes maps gin's -1 "nothing written" size to zero.
func responseBytes(size int) float64 {
	if size < 0 {
		return 0
	}
	return float64(size)
}

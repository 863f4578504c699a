package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "browser_http_requests_total", Help: "HTTP requests by route and status"},
		[]string{"route", "method", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "browser_http_request_duration_seconds",
			Help:    "Time to serve a request, streaming included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}

// Metrics records a count and a latency sample per matched route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

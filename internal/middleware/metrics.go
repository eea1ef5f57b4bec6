package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/marquee/internal/metrics"
)

// metricsSkipPaths are not recorded: scraping and liveness probes would
// only add noise to the request series.
var metricsSkipPaths = map[string]bool{
	"/metrics":    true,
	"/api/health": true,
}

// Metrics returns a middleware that records Prometheus metrics for each
// request: a total counter, a latency histogram, and an in-flight gauge.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSkipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		start := time.Now()

		c.Next()

		// The route template keeps label cardinality bounded: file serving
		// reports as /content/videos/*filepath, not one series per file.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

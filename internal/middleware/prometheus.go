package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/persistorai/netgraph/internal/metrics"
)

// Prometheus records request duration and count labelled by route pattern.
// Unmatched requests share the "unmatched" label.
func Prometheus() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		var status string

		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(seconds float64) {
			metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(seconds)
		}))

		c.Next()

		status = strconv.Itoa(c.Writer.Status())
		timer.ObserveDuration()
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

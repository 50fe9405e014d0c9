package middleware

import (
	"time"

	"github.com/mhsanaei/mediahub/util/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records the status and latency of each request by route template.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

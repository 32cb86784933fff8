package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/goliter/classsight-api/internal/service"
)

// Metrics times every request and records it against the route template so
// parameterised paths share one label set.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			// unmatched routes collapse into one label to bound cardinality
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maarif-dev/school-ops-api/internal/service"
)

// Metrics records per-route request counts and latency. Routes are labelled
// by gin's route template so path parameters do not explode cardinality.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

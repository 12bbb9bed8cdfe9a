package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/teach-assist-api/internal/service"
)

// unmatchedRoute labels requests that hit no route, keeping raw URLs with
// embedded tokens out of metric labels.
const unmatchedRoute = "unmatched"

// Metrics records request duration and status per route template.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

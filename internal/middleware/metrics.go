package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mustang-stride-api/internal/service"
)

// Metrics returns middleware that captures request metrics using the
// provided service. The scrape and liveness endpoints are left out so
// they do not dominate the per-path series.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil || c.Request.URL.Path == "/metrics" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, duration)
	}
}

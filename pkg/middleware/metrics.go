package middleware

import (
	"time"

	"growpreen/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}

package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jayeshjain4/StatusGo/metrics"
)

// Metrics records request count and latency by matched route.
func Metrics() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(ctx.Request.Method, route, ctx.Writer.Status(), time.Since(start))
	}
}

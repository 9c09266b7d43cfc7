package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"poirec/pkg/logger"
	"poirec/pkg/metrics"
)

// RequestLogger logs one line per request and records its latency under the
// matched route template.
func RequestLogger() gin.HandlerFunc {
	log := logger.With("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		latency := time.Since(start)
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(latency.Seconds())

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("trace_id", c.GetString("trace_id")).
			Msg("request")
	}
}

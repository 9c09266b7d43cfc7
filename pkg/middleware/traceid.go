package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// TraceIDMiddleware reuses a caller-supplied X-Trace-ID when it parses as a
// UUID and mints a new one otherwise.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Set("trace_id", traceID)
		c.Writer.Header().Set(TraceHeader, traceID)
		c.Next()
	}
}

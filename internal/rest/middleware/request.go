package middleware

import (
	"time"

	"github.com/flexprice/taxadmin/internal/logger"
	"github.com/flexprice/taxadmin/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	// Replace request context
	c.Request = c.Request.WithContext(types.SetRequestID(c.Request.Context(), requestID))

	// Add headers for response
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// LoggingMiddleware logs one line per request once it has been handled
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", types.GetRequestID(c.Request.Context()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Err)
		}

		if c.Writer.Status() >= 500 {
			log.Errorw("request failed", fields...)
			return
		}
		log.Debugw("request handled", fields...)
	}
}

// internal/middleware/logging_middleware.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wavegen/internal/utils"
)

// LoggingMiddleware logs every request, tagged with its request ID when
// RequestIDMiddleware ran first
func LoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	base := utils.NewServiceLogger(logger, "http-api")

	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		duration := time.Since(startTime)

		requestLogger := base
		if id := c.GetString(requestIDKey); id != "" {
			requestLogger = utils.NewServiceLogger(logger.With(zap.String("request_id", id)), "http-api")
		}

		requestLogger.LogAPIRequest(
			c.Request.Method,
			c.Request.URL.Path,
			c.Request.UserAgent(),
			c.ClientIP(),
			c.Writer.Status(),
			duration,
		)
	}
}

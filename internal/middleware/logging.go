// Package middleware holds the gin middleware the reference HTTP transport
// wires in front of every route, grounded on the teacher's
// internal/middleware package.
package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SscSPs/fiscalsim/internal/core/services"
)

// StructuredLoggingMiddleware injects a request-scoped logger into the
// request's context.Context (not the gin.Context's key/value store), so
// GetLoggerFromCtx and SimulationRunner's BaseService.GetLogger resolve the
// same logger from the same context value.
func StructuredLoggingMiddleware(baseLogger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()

		requestLogger := baseLogger.With(
			slog.String("requestId", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.Header("X-Request-ID", requestID)
		c.Request = c.Request.WithContext(services.ContextWithLogger(c.Request.Context(), requestLogger))

		c.Next()

		requestLogger.Info("request completed",
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}

// GetLoggerFromCtx retrieves the request-scoped logger a prior
// StructuredLoggingMiddleware attached, or the process default if none was
// attached (e.g. a background call outside any request).
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	return (&services.BaseService{}).GetLogger(ctx)
}

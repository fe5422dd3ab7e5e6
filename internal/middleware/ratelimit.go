package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	"github.com/SscSPs/fiscalsim/internal/apperrors"
)

// errorBody is the shape handler.go's ErrorResponse serializes to; kept
// local so this package doesn't import the http transport just for a
// one-field struct.
type errorBody struct {
	Error string `json:"error"`
}

// RateLimit creates a Gin middleware for rate limiting requests by client IP,
// surfacing failures through the engine's apperrors taxonomy so a rate-limit
// rejection looks like every other engine error on the wire.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		logger := GetLoggerFromCtx(c.Request.Context())

		ctx, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			wrapped := &apperrors.InternalError{Op: "RateLimit.Get", Err: err}
			logger.Error("rate limiter backend unavailable", slog.String("ip", ip), slog.String("error", wrapped.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: wrapped.Error()})
			return
		}

		if ctx.Reached {
			logger.Warn("client exceeded snapshot poll rate",
				slog.String("ip", ip), slog.Int64("limit", ctx.Limit), slog.Int64("remaining", ctx.Remaining))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded, retry later"})
			return
		}

		c.Next()
	}
}

package services

import (
	"context"
	"log/slog"
)

// BaseService provides the structured-logging helpers every engine service
// embeds, grounded on the teacher's BaseService. The authorization half of
// the teacher's BaseService has no home here — patterns/companies are
// handed to the engine already resolved, so there is no per-call workplace
// check to perform.
type BaseService struct{}

// GetLogger returns the context's logger if one was attached by the
// transport layer, or the process default otherwise.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// LogError logs an error with consistent formatting.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting.
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting.
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// loggerContextKey is the key a request-scoped logger is attached under by
// internal/transport/http's logging middleware.
type loggerContextKey struct{}

// ContextWithLogger returns a copy of ctx carrying logger, retrievable via
// GetLogger. Exported so the transport layer can populate it per request.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

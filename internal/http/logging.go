package http

import (
	"context"
	"log/slog"

	"github.com/example/barbershop-manager/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

// handlerLogger labels the request logger for one handler operation. Requests
// that carry a session identity are tagged with it so draft hand-offs can be
// followed across checkout and payment.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	if sessionID, ok := SessionIDFromContext(ctx); ok {
		attrs = append([]any{"session_id", sessionID}, attrs...)
	}
	return logging.Scoped(ctx, fallback, "handler", handlerName, operation, attrs...)
}

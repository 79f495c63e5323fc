package apperrors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nekruzvatanshoev/carprice/pkg/logger"
	"github.com/nekruzvatanshoev/carprice/pkg/metrics"
)

// Handler logs failures with their cause and returns the user-facing message.
type Handler struct {
	log *slog.Logger
}

func NewHandler(log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{log: log}
}

func (h *Handler) Handle(ctx context.Context, err error) string {
	if err == nil {
		return ""
	}
	if ctx == nil {
		ctx = context.Background()
	}

	attrs := []any{slog.String("error", err.Error())}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("correlation_id", id))
	}

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr == nil {
		metrics.RecordError("unknown", string(SeverityHigh))
		h.log.ErrorContext(ctx, "unknown error", attrs...)
		return genericMessage
	}

	attrs = append(attrs,
		slog.String("code", appErr.Code),
		slog.String("severity", string(appErr.Severity)),
	)
	metrics.RecordError(appErr.Code, string(appErr.Severity))

	if appErr.Severity == SeverityLow {
		h.log.WarnContext(ctx, "application error", attrs...)
	} else {
		h.log.ErrorContext(ctx, "application error", attrs...)
	}

	return UserMessage(appErr)
}

package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/campus-connect/career-portal/internal/events"
	"github.com/campus-connect/career-portal/internal/repositories"
	"github.com/campus-connect/career-portal/internal/utils"
)

// requestLogger prefers the request-scoped logger installed by the HTTP layer.
func requestLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	return utils.FromContext(ctx, utils.NewSlogLogger(fallback)).Slog()
}

// publish sends an event and only logs a failure.
func publish(ctx context.Context, publisher events.EventPublisher, logger *slog.Logger, eventType events.EventType, data interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, eventType, data); err != nil {
		requestLogger(ctx, logger).Warn("Failed to publish event", "type", eventType, "error", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, repositories.ErrDuplicate)
}

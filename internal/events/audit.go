package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/taskdesk/internal/platform/logger"
)

// AuditLogHandler writes one structured log line per task event.
type AuditLogHandler struct {
	logger *slog.Logger
}

// NewAuditLogHandler creates an AuditLogHandler writing to logger.
func NewAuditLogHandler(logger *slog.Logger) *AuditLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogHandler{logger: logger}
}

// HandleEvent implements EventHandler.
func (h *AuditLogHandler) HandleEvent(ctx context.Context, event *TaskEvent) error {
	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", string(event.Type)),
		slog.Int64("task_no", event.TaskNo),
		slog.Int64("actor_id", event.ActorID),
		slog.Int64("assigned_to", event.AssignedTo),
		slog.Time("occurred_at", event.OccurredAt),
	}
	if event.Status != "" {
		attrs = append(attrs, slog.String("status", string(event.Status)))
	}
	// The request-scoped logger carries the trace id when there is one.
	logger.FromContextOrDefault(ctx, h.logger).With("component", "audit").Info("task changed", attrs...)
	return nil
}

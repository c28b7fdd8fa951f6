package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdesk/internal/domain"
)

// Type names a kind of task mutation.
type Type string

// Task mutation kinds.
const (
	TaskCreated       Type = "task.created"
	TaskStatusToggled Type = "task.status_toggled"
	TaskEdited        Type = "task.edited"
	TaskDeleted       Type = "task.deleted"
)

// TaskEvent records one committed change to a task.
type TaskEvent struct {
	ID         uuid.UUID         `json:"id"`
	Type       Type              `json:"type"`
	TaskNo     int64             `json:"task_no"`
	ActorID    int64             `json:"actor_id"`
	AssignedTo int64             `json:"assigned_to"`
	Status     domain.TaskStatus `json:"status,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewTaskEvent describes a change made by actorID to task.
func NewTaskEvent(eventType Type, task *domain.Task, actorID int64) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		TaskNo:     task.No,
		ActorID:    actorID,
		AssignedTo: task.AssignedTo,
		Status:     task.Status,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler processes task events.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *TaskEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *TaskEvent) error {
	return f(ctx, event)
}

// EventEmitter publishes task events without knowing who consumes them.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

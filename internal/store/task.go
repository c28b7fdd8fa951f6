package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// TaskView is a task joined with the usernames of the people on both ends of it.
type TaskView struct {
	domain.Task
	CreatorUsername  string `json:"created_by_username"`
	AssigneeUsername string `json:"assigned_to_username"`
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task and sets task.No.
	// Returns ErrInvalidEntity when the creator or assignee does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByNo retrieves a task by its number.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByNo(ctx context.Context, no int64) (*domain.Task, error)

	// Update replaces the text and due date of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, no int64, text string, dueDate *time.Time) error

	// UpdateStatus sets the status of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, no int64, status domain.TaskStatus) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, no int64) error

	// ListCreatedBy returns the tasks created by userID, narrowed by the filter.
	ListCreatedBy(ctx context.Context, userID int64, filter domain.ViewFilter) ([]TaskView, error)

	// ListAssignedTo returns the tasks assigned to userID, narrowed by the filter.
	ListAssignedTo(ctx context.Context, userID int64, filter domain.ViewFilter) ([]TaskView, error)

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}

package domain

import (
	"errors"
	"strings"
	"time"
)

// TaskStatus represents where a task is in its lifecycle.
type TaskStatus string

// Possible task status values
const (
	TaskStatusInProgress TaskStatus = "In-Progress"
	TaskStatusComplete   TaskStatus = "Complete"
)

// Common validation errors for Task
var (
	ErrEmptyTaskText     = errors.New("task text cannot be empty")
	ErrTaskTextTooLong   = errors.New("task text must be at most 120 characters long")
	ErrEmptyTaskCreator  = errors.New("task creator cannot be empty")
	ErrEmptyTaskAssignee = errors.New("task assignee cannot be empty")
)

const maxTaskTextLength = 120

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusInProgress, TaskStatusComplete:
		return true
	default:
		return false
	}
}

// Toggle returns the other status. Unknown statuses toggle to In-Progress.
func (s TaskStatus) Toggle() TaskStatus {
	if s == TaskStatusInProgress {
		return TaskStatusComplete
	}
	return TaskStatusInProgress
}

// Task is a unit of work created by a manager and assigned to a user.
type Task struct {
	No          int64      `json:"task_no"`
	Text        string     `json:"task"`
	CreatedDate time.Time  `json:"created_date"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedBy   int64      `json:"created_by"`
	AssignedTo  int64      `json:"assigned_to"`
}

// NewTask creates an In-Progress task. The task number is assigned by the store.
func NewTask(text string, dueDate *time.Time, createdBy, assignedTo int64) (*Task, error) {
	task := &Task{
		Text:        strings.TrimSpace(text),
		CreatedDate: time.Now().UTC(),
		DueDate:     dueDate,
		Status:      TaskStatusInProgress,
		CreatedBy:   createdBy,
		AssignedTo:  assignedTo,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if err := validateTaskText(t.Text); err != nil {
		return err
	}
	if t.CreatedBy <= 0 {
		return NewValidationError("created_by", "cannot be empty", ErrEmptyTaskCreator)
	}
	if t.AssignedTo <= 0 {
		return NewValidationError("assigned_to", "cannot be empty", ErrEmptyTaskAssignee)
	}
	if !t.Status.Valid() {
		return NewValidationError("status", "must be In-Progress or Complete", ErrInvalidTaskStatus)
	}
	return nil
}

// Edit replaces the text and due date.
func (t *Task) Edit(text string, dueDate *time.Time) error {
	text = strings.TrimSpace(text)
	if err := validateTaskText(text); err != nil {
		return err
	}
	t.Text = text
	t.DueDate = dueDate
	return nil
}

// ToggleStatus flips the status between In-Progress and Complete.
func (t *Task) ToggleStatus() {
	t.Status = t.Status.Toggle()
}

// IsCreatedBy reports whether userID created the task.
func (t *Task) IsCreatedBy(userID int64) bool {
	return t.CreatedBy == userID
}

// IsAssignedTo reports whether the task is assigned to userID.
func (t *Task) IsAssignedTo(userID int64) bool {
	return t.AssignedTo == userID
}

func validateTaskText(text string) error {
	if text == "" {
		return NewValidationError("task", "cannot be empty", ErrEmptyTaskText)
	}
	if len([]rune(text)) > maxTaskTextLength {
		return NewValidationError("task", "is too long", ErrTaskTextTooLong)
	}
	return nil
}

var dueDateLayouts = []string{
	time.DateOnly,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDueDate parses an ISO-8601 date or datetime. An empty string means no due date.
// Values without a zone are read as UTC.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			utc := parsed.UTC()
			return &utc, nil
		}
	}

	return nil, NewValidationError("due_date", "must be an ISO-8601 date such as 2024-06-01", ErrInvalidDueDate)
}

// ViewFilter narrows a task listing by status.
type ViewFilter string

// Known listing filters.
const (
	ViewAll        ViewFilter = ""
	ViewInProgress ViewFilter = "in_progress"
	ViewCompleted  ViewFilter = "completed"
)

// ParseViewFilter validates the `view` query parameter.
func ParseViewFilter(s string) (ViewFilter, error) {
	switch v := ViewFilter(strings.TrimSpace(s)); v {
	case ViewAll, ViewInProgress, ViewCompleted:
		return v, nil
	default:
		return "", NewValidationError("view", "must be in_progress or completed", ErrInvalidViewFilter)
	}
}

// Status returns the status the filter selects, or false when it selects everything.
func (v ViewFilter) Status() (TaskStatus, bool) {
	switch v {
	case ViewInProgress:
		return TaskStatusInProgress, true
	case ViewCompleted:
		return TaskStatusComplete, true
	default:
		return "", false
	}
}

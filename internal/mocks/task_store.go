package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/store"
)

// MockTaskStore implements store.TaskStore for testing. Listings resolve
// usernames through Users when it is set.
type MockTaskStore struct {
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByNoFn      func(ctx context.Context, no int64) (*domain.Task, error)
	UpdateFn       func(ctx context.Context, no int64, text string, dueDate *time.Time) error
	UpdateStatusFn func(ctx context.Context, no int64, status domain.TaskStatus) error
	DeleteFn       func(ctx context.Context, no int64) error
	ListFn         func(ctx context.Context, userID int64, filter domain.ViewFilter) ([]store.TaskView, error)

	Users *MockUserStore

	mu     sync.Mutex
	tasks  map[int64]domain.Task
	nextNo int64
}

// Ensure MockTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store resolving usernames through users (may be nil).
func NewMockTaskStore(users *MockUserStore) *MockTaskStore {
	return &MockTaskStore{Users: users, tasks: make(map[int64]domain.Task), nextNo: 1}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task.No = m.nextNo
	m.nextNo++
	m.tasks[task.No] = *task
	return nil
}

// GetByNo implements the TaskStore interface
func (m *MockTaskStore) GetByNo(ctx context.Context, no int64) (*domain.Task, error) {
	if m.GetByNoFn != nil {
		return m.GetByNoFn(ctx, no)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[no]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return &t, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(ctx context.Context, no int64, text string, dueDate *time.Time) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, no, text, dueDate)
	}
	return m.mutate(no, func(t *domain.Task) {
		t.Text = text
		t.DueDate = dueDate
	})
}

// UpdateStatus implements the TaskStore interface
func (m *MockTaskStore) UpdateStatus(ctx context.Context, no int64, status domain.TaskStatus) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, no, status)
	}
	return m.mutate(no, func(t *domain.Task) { t.Status = status })
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, no int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, no)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[no]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, no)
	return nil
}

// ListCreatedBy implements the TaskStore interface
func (m *MockTaskStore) ListCreatedBy(
	ctx context.Context,
	userID int64,
	filter domain.ViewFilter,
) ([]store.TaskView, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter)
	}
	return m.list(ctx, filter, func(t domain.Task) bool { return t.CreatedBy == userID }), nil
}

// ListAssignedTo implements the TaskStore interface
func (m *MockTaskStore) ListAssignedTo(
	ctx context.Context,
	userID int64,
	filter domain.ViewFilter,
) ([]store.TaskView, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID, filter)
	}
	return m.list(ctx, filter, func(t domain.Task) bool { return t.AssignedTo == userID }), nil
}

// WithTx implements the TaskStore interface
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

// Len returns the number of stored tasks.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *MockTaskStore) mutate(no int64, fn func(*domain.Task)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[no]
	if !ok {
		return store.ErrTaskNotFound
	}
	fn(&t)
	m.tasks[no] = t
	return nil
}

func (m *MockTaskStore) list(
	ctx context.Context,
	filter domain.ViewFilter,
	owned func(domain.Task) bool,
) []store.TaskView {
	status, narrowed := filter.Status()

	m.mu.Lock()
	views := make([]store.TaskView, 0, len(m.tasks))
	for _, t := range m.tasks {
		if !owned(t) || (narrowed && t.Status != status) {
			continue
		}
		views = append(views, store.TaskView{Task: t})
	}
	m.mu.Unlock()

	sort.Slice(views, func(i, j int) bool { return views[i].No < views[j].No })
	if m.Users != nil {
		for i := range views {
			if u, err := m.Users.GetByID(ctx, views[i].CreatedBy); err == nil {
				views[i].CreatorUsername = u.Username
			}
			if u, err := m.Users.GetByID(ctx, views[i].AssignedTo); err == nil {
				views[i].AssigneeUsername = u.Username
			}
		}
	}
	return views
}

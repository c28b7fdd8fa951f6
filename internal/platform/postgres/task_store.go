package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/store"
)

var taskColumns = []string{
	"t.task_no", "t.task", "t.created_date", "t.due_date", "t.status", "t.created_by", "t.assigned_to",
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db      store.DBTX
	builder sq.StatementBuilderType
}

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return err
	}

	query, args, err := s.builder.
		Insert("tasks").
		Columns("task", "created_date", "due_date", "status", "created_by", "assigned_to").
		Values(task.Text, task.CreatedDate, task.DueDate, string(task.Status), task.CreatedBy, task.AssignedTo).
		Suffix("RETURNING task_no").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert task query: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&task.No); err != nil {
		log.Error("failed to insert task",
			slog.Int64("created_by", task.CreatedBy),
			slog.Int64("assigned_to", task.AssignedTo),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}

	return nil
}

// GetByNo implements store.TaskStore.GetByNo
func (s *PostgresTaskStore) GetByNo(ctx context.Context, no int64) (*domain.Task, error) {
	query, args, err := s.builder.
		Select(taskColumns...).
		From("tasks t").
		Where(sq.Eq{"t.task_no": no}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select task query: %w", err)
	}

	var task domain.Task
	if err := scanTask(s.db.QueryRowContext(ctx, query, args...), &task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContext(ctx).Error("failed to query task",
			slog.Int64("task_no", no),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "query failed", MapError(err))
	}
	return &task, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, no int64, text string, dueDate *time.Time) error {
	query, args, err := s.builder.
		Update("tasks").
		Set("task", text).
		Set("due_date", dueDate).
		Where(sq.Eq{"task_no": no}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update task query: %w", err)
	}
	return s.exec(ctx, "update", no, query, args)
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(ctx context.Context, no int64, status domain.TaskStatus) error {
	if !status.Valid() {
		return domain.NewValidationError("status", "must be In-Progress or Complete", domain.ErrInvalidTaskStatus)
	}
	query, args, err := s.builder.
		Update("tasks").
		Set("status", string(status)).
		Where(sq.Eq{"task_no": no}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update status query: %w", err)
	}
	return s.exec(ctx, "update_status", no, query, args)
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, no int64) error {
	query, args, err := s.builder.Delete("tasks").Where(sq.Eq{"task_no": no}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete task query: %w", err)
	}
	return s.exec(ctx, "delete", no, query, args)
}

// ListCreatedBy implements store.TaskStore.ListCreatedBy
func (s *PostgresTaskStore) ListCreatedBy(
	ctx context.Context,
	userID int64,
	filter domain.ViewFilter,
) ([]store.TaskView, error) {
	return s.list(ctx, sq.Eq{"t.created_by": userID}, filter)
}

// ListAssignedTo implements store.TaskStore.ListAssignedTo
func (s *PostgresTaskStore) ListAssignedTo(
	ctx context.Context,
	userID int64,
	filter domain.ViewFilter,
) ([]store.TaskView, error) {
	return s.list(ctx, sq.Eq{"t.assigned_to": userID}, filter)
}

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, builder: s.builder}
}

func (s *PostgresTaskStore) exec(ctx context.Context, op string, no int64, query string, args []any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Error("task statement failed",
			slog.String("operation", op),
			slog.Int64("task_no", no),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", op, "statement failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

func (s *PostgresTaskStore) list(
	ctx context.Context,
	owner sq.Eq,
	filter domain.ViewFilter,
) ([]store.TaskView, error) {
	where := sq.And{owner}
	if status, ok := filter.Status(); ok {
		where = append(where, sq.Eq{"t.status": string(status)})
	}

	query, args, err := s.builder.
		Select(append(taskColumns, "c.username", "a.username")...).
		From("tasks t").
		Join("users c ON c.id = t.created_by").
		Join("users a ON a.id = t.assigned_to").
		Where(where).
		OrderBy("t.task_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list tasks query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	views := make([]store.TaskView, 0)
	for rows.Next() {
		var v store.TaskView
		if err := scanTask(rows, &v.Task, &v.CreatorUsername, &v.AssigneeUsername); err != nil {
			return nil, store.NewStoreError("task", "list", "scan failed", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "iteration failed", err)
	}
	return views, nil
}

func scanTask(row rowScanner, task *domain.Task, extra ...any) error {
	var (
		status  string
		dueDate sql.NullTime
	)
	dest := append([]any{
		&task.No,
		&task.Text,
		&task.CreatedDate,
		&dueDate,
		&status,
		&task.CreatedBy,
		&task.AssignedTo,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}

	task.Status = domain.TaskStatus(status)
	task.CreatedDate = task.CreatedDate.UTC()
	if dueDate.Valid {
		due := dueDate.Time.UTC()
		task.DueDate = &due
	}
	return nil
}

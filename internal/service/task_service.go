package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/events"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/store"
)

// UserSummary is a user row in the Admin listing.
type UserSummary struct {
	ID             int64              `json:"id"`
	Username       string             `json:"username"`
	Designation    domain.Designation `json:"designation"`
	Department     domain.Department  `json:"department"`
	DepartmentName string             `json:"department_name"`
}

// HomeView is the role-dependent content of the landing page.
type HomeView struct {
	Authenticated bool               `json:"authenticated"`
	User          *domain.User       `json:"user,omitempty"`
	View          domain.ViewFilter  `json:"view,omitempty"`
	Users         []UserSummary      `json:"users,omitempty"`
	Tasks         []store.TaskView   `json:"tasks,omitempty"`
	Designation   domain.Designation `json:"designation,omitempty"`
}

// CreateTaskInput carries the fields of the add-task form.
type CreateTaskInput struct {
	Task       string
	DueDate    string
	AssignedTo int64
}

// EditTaskInput carries the fields of the edit-task form.
type EditTaskInput struct {
	Task    string
	DueDate string
}

// TaskService implements the role rules for viewing and changing tasks.
type TaskService struct {
	users   store.UserStore
	tasks   store.TaskStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewTaskService creates a TaskService. A nil emitter drops events.
func NewTaskService(
	users store.UserStore,
	tasks store.TaskStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (*TaskService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		users:   users,
		tasks:   tasks,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "task_service")),
	}, nil
}

func (s *TaskService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Home composes the landing view for actor, which may be nil for anonymous visitors.
// Admins see every user, Managers the tasks they created and Employees the tasks
// assigned to them; viewParam narrows task listings by status.
func (s *TaskService) Home(ctx context.Context, actor *domain.User, viewParam string) (*HomeView, error) {
	if actor == nil {
		return &HomeView{}, nil
	}

	filter, err := domain.ParseViewFilter(viewParam)
	if err != nil {
		return nil, err
	}

	view := &HomeView{
		Authenticated: true,
		User:          actor,
		View:          filter,
		Designation:   actor.Designation,
	}

	switch actor.Designation {
	case domain.DesignationAdmin:
		users, err := s.users.List(ctx)
		if err != nil {
			return nil, s.unexpected(ctx, "home", "failed to list users", err)
		}
		view.Users = make([]UserSummary, 0, len(users))
		for _, u := range users {
			view.Users = append(view.Users, UserSummary{
				ID:             u.ID,
				Username:       u.Username,
				Designation:    u.Designation,
				Department:     u.Department,
				DepartmentName: u.Department.Name(),
			})
		}
	case domain.DesignationManager:
		view.Tasks, err = s.tasks.ListCreatedBy(ctx, actor.ID, filter)
		if err != nil {
			return nil, s.unexpected(ctx, "home", "failed to list created tasks", err)
		}
	case domain.DesignationEmployee:
		view.Tasks, err = s.tasks.ListAssignedTo(ctx, actor.ID, filter)
		if err != nil {
			return nil, s.unexpected(ctx, "home", "failed to list assigned tasks", err)
		}
	default:
		return nil, s.unexpected(ctx, "home", "user has an unknown designation", domain.ErrInvalidDesignation)
	}

	return view, nil
}

// AssignableUsers lists the users a Manager may assign tasks to:
// the rest of their department.
func (s *TaskService) AssignableUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	members, err := s.users.ListByDepartment(ctx, actor.Department)
	if err != nil {
		return nil, s.unexpected(ctx, "assignable_users", "failed to list department", err)
	}

	candidates := make([]*domain.User, 0, len(members))
	for _, u := range members {
		if actor.CanAssignTo(u) {
			candidates = append(candidates, u)
		}
	}
	return candidates, nil
}

// CreateTask creates a task owned by actor. Only Managers may create tasks and
// only for members of their own department.
func (s *TaskService) CreateTask(ctx context.Context, actor *domain.User, in CreateTaskInput) (*domain.Task, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	due, err := domain.ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	if in.AssignedTo <= 0 {
		return nil, domain.NewValidationError("assigned_to", "cannot be empty", domain.ErrEmptyTaskAssignee)
	}
	assignee, err := s.users.GetByID(ctx, in.AssignedTo)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domain.NewValidationError("assigned_to", "is not a known user", domain.ErrInvalidID)
		}
		return nil, s.unexpected(ctx, "create_task", "failed to load assignee", err)
	}
	if !actor.CanAssignTo(assignee) {
		return nil, domain.NewValidationError("assigned_to", "must be another member of your department", domain.ErrInvalidID)
	}

	task, err := domain.NewTask(in.Task, due, actor.ID, assignee.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, s.unexpected(ctx, "create_task", "failed to store task", err)
	}

	s.emit(ctx, events.TaskCreated, task, actor)
	return task, nil
}

// ToggleStatus flips a task between In-Progress and Complete. The task's creator
// and its assignee may toggle it; nobody else.
func (s *TaskService) ToggleStatus(ctx context.Context, actor *domain.User, no int64) (*domain.Task, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	task, err := s.getTask(ctx, "toggle_status", no)
	if err != nil {
		return nil, err
	}
	if !task.IsCreatedBy(actor.ID) && !task.IsAssignedTo(actor.ID) {
		return nil, ErrForbidden
	}

	task.ToggleStatus()
	if err := s.tasks.UpdateStatus(ctx, task.No, task.Status); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		return nil, s.unexpected(ctx, "toggle_status", "failed to store status", err)
	}

	s.emit(ctx, events.TaskStatusToggled, task, actor)
	return task, nil
}

// GetTaskForEdit returns a task its creating Manager is about to edit.
func (s *TaskService) GetTaskForEdit(ctx context.Context, actor *domain.User, no int64) (*domain.Task, error) {
	return s.ownedTask(ctx, "get_task", actor, no)
}

// EditTask replaces the text and due date of a task owned by actor.
func (s *TaskService) EditTask(
	ctx context.Context,
	actor *domain.User,
	no int64,
	in EditTaskInput,
) (*domain.Task, error) {
	task, err := s.ownedTask(ctx, "edit_task", actor, no)
	if err != nil {
		return nil, err
	}

	due, err := domain.ParseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}
	if err := task.Edit(in.Task, due); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task.No, task.Text, task.DueDate); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		return nil, s.unexpected(ctx, "edit_task", "failed to store task", err)
	}

	s.emit(ctx, events.TaskEdited, task, actor)
	return task, nil
}

// DeleteTask removes a task owned by actor.
func (s *TaskService) DeleteTask(ctx context.Context, actor *domain.User, no int64) error {
	task, err := s.ownedTask(ctx, "delete_task", actor, no)
	if err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, task.No); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return err
		}
		return s.unexpected(ctx, "delete_task", "failed to delete task", err)
	}

	s.emit(ctx, events.TaskDeleted, task, actor)
	return nil
}

func requireManager(actor *domain.User) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	if !actor.IsManager() {
		return ErrForbidden
	}
	return nil
}

// ownedTask loads a task that actor, a Manager, created.
func (s *TaskService) ownedTask(ctx context.Context, op string, actor *domain.User, no int64) (*domain.Task, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	task, err := s.getTask(ctx, op, no)
	if err != nil {
		return nil, err
	}
	if !task.IsCreatedBy(actor.ID) {
		return nil, ErrForbidden
	}
	return task, nil
}

func (s *TaskService) getTask(ctx context.Context, op string, no int64) (*domain.Task, error) {
	if no <= 0 {
		return nil, store.ErrTaskNotFound
	}
	task, err := s.tasks.GetByNo(ctx, no)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		return nil, s.unexpected(ctx, op, "failed to load task", err)
	}
	return task, nil
}

func (s *TaskService) emit(ctx context.Context, eventType events.Type, task *domain.Task, actor *domain.User) {
	if err := s.emitter.EmitEvent(ctx, events.NewTaskEvent(eventType, task, actor.ID)); err != nil {
		s.log(ctx).Warn("failed to publish task event",
			slog.String("event_type", string(eventType)),
			slog.Int64("task_no", task.No),
			slog.String("error", err.Error()))
	}
}

func (s *TaskService) unexpected(ctx context.Context, op, msg string, err error) error {
	s.log(ctx).Error(msg, slog.String("operation", op), slog.String("error", err.Error()))
	return NewTaskServiceError(op, msg, err)
}

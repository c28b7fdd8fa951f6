package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/service"
	"github.com/phrazzld/taskdesk/internal/store"
)

// taskNoParam is the URL parameter carrying a task number.
const taskNoParam = "taskNo"

// TaskService is the part of service.TaskService the handlers use.
type TaskService interface {
	Home(ctx context.Context, actor *domain.User, view string) (*service.HomeView, error)
	AssignableUsers(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	CreateTask(ctx context.Context, actor *domain.User, in service.CreateTaskInput) (*domain.Task, error)
	ToggleStatus(ctx context.Context, actor *domain.User, no int64) (*domain.Task, error)
	GetTaskForEdit(ctx context.Context, actor *domain.User, no int64) (*domain.Task, error)
	EditTask(ctx context.Context, actor *domain.User, no int64, in service.EditTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, actor *domain.User, no int64) error
}

// TaskHandler handles the landing page and the task pages.
type TaskHandler struct {
	tasks  TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks TaskService, logger *slog.Logger) *TaskHandler {
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// Home handles GET /. The content depends on the session user's designation.
func (h *TaskHandler) Home(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.UserFromContext(r.Context())

	view, err := h.tasks.Home(r.Context(), actor, r.URL.Query().Get("view"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// AddForm handles GET /add.
func (h *TaskHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.UserFromContext(r.Context())

	users, err := h.tasks.AssignableUsers(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := AddTaskFormResponse{Assignees: make([]UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Assignees = append(resp.Assignees, newUserResponse(u))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Add handles POST /add.
func (h *TaskHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.UserFromContext(r.Context())

	var req AddTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), actor, service.CreateTaskInput{
		Task:       req.Task,
		DueDate:    req.DueDate,
		AssignedTo: *req.AssignedTo,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondRedirect(w, r, http.StatusCreated, "/", task)
}

// ToggleStatus handles GET and POST /toggle_status/{taskNo}.
func (h *TaskHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.UserFromContext(r.Context())
	no, ok := h.taskNoFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.ToggleStatus(r.Context(), actor, no)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondRedirect(w, r, http.StatusOK, "/", task)
}

// EditForm handles GET /edit/{taskNo}.
func (h *TaskHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.UserFromContext(r.Context())
	no, ok := h.taskNoFromPath(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTaskForEdit(r.Context(), actor, no)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Edit handles POST /edit/{taskNo}.
func (h *TaskHandler) Edit(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.UserFromContext(r.Context())
	no, ok := h.taskNoFromPath(w, r)
	if !ok {
		return
	}

	var req EditTaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.tasks.EditTask(r.Context(), actor, no, service.EditTaskInput{
		Task:    req.Task,
		DueDate: req.DueDate,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondRedirect(w, r, http.StatusOK, "/", task)
}

// Delete handles GET and DELETE /delete/{taskNo}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.UserFromContext(r.Context())
	no, ok := h.taskNoFromPath(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), actor, no); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondRedirect(w, r, http.StatusNoContent, "/", nil)
}

// taskNoFromPath parses the task number route parameter. Numbers that do not
// fit an int64 cannot name a task and answer 404.
func (h *TaskHandler) taskNoFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, taskNoParam)
	no, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || no <= 0 {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("invalid task number",
			slog.String("param_name", taskNoParam), slog.String("value", raw))
		HandleAPIError(w, r, store.ErrTaskNotFound)
		return 0, false
	}
	return no, true
}

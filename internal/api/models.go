package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/taskdesk/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload of the registration form.
type RegisterRequest struct {
	Username    string `json:"username"    validate:"required,max=250"`
	Password    string `json:"password"    validate:"required,min=8,max=72"`
	Designation string `json:"designation" validate:"required"`
	Department  *int   `json:"department"  validate:"required,min=0"`
}

// DecodeForm implements shared.FormDecoder.
func (req *RegisterRequest) DecodeForm(values url.Values) error {
	req.Username = values.Get("username")
	req.Password = values.Get("password")
	req.Designation = values.Get("designation")

	dept, err := formInt(values, "department")
	if err != nil {
		return err
	}
	if dept != nil {
		d := int(*dept)
		req.Department = &d
	}
	return nil
}

// LoginRequest defines the payload of the login form.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DecodeForm implements shared.FormDecoder.
func (req *LoginRequest) DecodeForm(values url.Values) error {
	req.Username = values.Get("username")
	req.Password = values.Get("password")
	return nil
}

// AddTaskRequest defines the payload of the add-task form.
type AddTaskRequest struct {
	Task       string `json:"task"        validate:"required,max=120"`
	DueDate    string `json:"due_date"`
	AssignedTo *int64 `json:"assigned_to" validate:"required,gt=0"`
}

// DecodeForm implements shared.FormDecoder.
func (req *AddTaskRequest) DecodeForm(values url.Values) error {
	req.Task = values.Get("task")
	req.DueDate = values.Get("due_date")

	assignee, err := formInt(values, "assigned_to")
	if err != nil {
		return err
	}
	req.AssignedTo = assignee
	return nil
}

// EditTaskRequest defines the payload of the edit-task form.
type EditTaskRequest struct {
	Task    string `json:"task"     validate:"required,max=120"`
	DueDate string `json:"due_date"`
}

// DecodeForm implements shared.FormDecoder.
func (req *EditTaskRequest) DecodeForm(values url.Values) error {
	req.Task = values.Get("task")
	req.DueDate = values.Get("due_date")
	return nil
}

// formInt reads an optional integer form field.
func formInt(values url.Values, field string) (*int64, error) {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a number", domain.ErrInvalidFormat)
	}
	return &n, nil
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID             int64              `json:"id"`
	Username       string             `json:"username"`
	Designation    domain.Designation `json:"designation"`
	Department     domain.Department  `json:"department"`
	DepartmentName string             `json:"department_name"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Designation:    u.Designation,
		Department:     u.Department,
		DepartmentName: u.Department.Name(),
	}
}

// RegisterFormResponse lists the choices offered by the registration form.
type RegisterFormResponse struct {
	Designations []domain.Designation    `json:"designations"`
	Departments  []domain.DepartmentInfo `json:"departments"`
}

// SessionResponse describes the current session, if any.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`

	// ExpiresAt is the RFC 3339 time the session ends; set only on login.
	ExpiresAt string `json:"expires_at,omitempty"`
}

func newSessionResponse(u *domain.User, expiresAt time.Time) SessionResponse {
	if u == nil {
		return SessionResponse{}
	}
	user := newUserResponse(u)
	resp := SessionResponse{Authenticated: true, User: &user}
	if !expiresAt.IsZero() {
		resp.ExpiresAt = expiresAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// AddTaskFormResponse lists the users a Manager may assign a new task to.
type AddTaskFormResponse struct {
	Assignees []UserResponse `json:"assignees"`
}

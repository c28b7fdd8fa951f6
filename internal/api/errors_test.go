package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/service"
	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/phrazzld/taskdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NewValidationError("due_date", "is bad", domain.ErrInvalidDueDate), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", store.ErrInvalidEntity), http.StatusBadRequest},
		{shared.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrExpiredToken, http.StatusUnauthorized},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{store.ErrTaskNotFound, http.StatusNotFound},
		{store.ErrUserNotFound, http.StatusNotFound},
		{store.ErrUsernameExists, http.StatusConflict},
		{service.NewTaskServiceError("home", "failed", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "Username already exists", GetSafeErrorMessage(store.ErrUsernameExists))
	assert.Equal(t, "Invalid username or password", GetSafeErrorMessage(auth.ErrInvalidCredentials))
	assert.Equal(t, "due_date is bad",
		GetSafeErrorMessage(domain.NewValidationError("due_date", "is bad", domain.ErrInvalidDueDate)))

	leaky := service.NewTaskServiceError("edit_task", "failed to store task",
		errors.New(`pq: password authentication failed for user "taskdesk" at postgres://taskdesk:hunter2@db:5432/app`))
	msg := GetSafeErrorMessage(leaky)
	assert.Equal(t, "An unexpected error occurred", msg)
	assert.NotContains(t, msg, "hunter2")
}

func TestSanitizeValidationError(t *testing.T) {
	err := shared.ValidateRequest(&LoginRequest{Username: "maria"})
	require.Error(t, err)
	assert.Equal(t, "Invalid password: required field", SanitizeValidationError(err))

	err = shared.ValidateRequest(&RegisterRequest{Username: "x", Password: "short", Designation: "Manager", Department: new(int)})
	require.Error(t, err)
	assert.Equal(t, "Invalid password: too short or too small", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("other")))
}

func TestHandleAPIErrorRedactsLogs(t *testing.T) {
	log, buf := logger.NewTestLogger()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	rec := httptest.NewRecorder()

	HandleAPIError(rec, req, fmt.Errorf("query failed: postgres://app:s3cret@db:5432/taskdesk"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "s3cret")
	assert.NotContains(t, buf.String(), "s3cret")
	assert.Contains(t, buf.String(), "API error response")
}

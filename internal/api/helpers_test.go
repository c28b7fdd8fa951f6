package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskdesk/internal/api/middleware"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/mocks"
	"github.com/phrazzld/taskdesk/internal/service"
	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/stretchr/testify/require"
)

const testPassword = "password123"

// testEnv wires the real services over in-memory stores behind the router.
type testEnv struct {
	router   http.Handler
	users    *mocks.MockUserStore
	tasks    *mocks.MockTaskStore
	sessions *mocks.MockSessionStore

	admin    *domain.User
	manager  *domain.User
	employee *domain.User
	peer     *domain.User // second manager in the same department
	outsider *domain.User // employee of another department
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := mocks.NewMockUserStore()
	env := &testEnv{
		users:    users,
		tasks:    mocks.NewMockTaskStore(users),
		sessions: mocks.NewMockSessionStore(),
	}
	env.admin = users.AddUser(&domain.User{Username: "root", Password: testPassword,
		Designation: domain.DesignationAdmin, Department: 0})
	env.manager = users.AddUser(&domain.User{Username: "maria", Password: testPassword,
		Designation: domain.DesignationManager, Department: 1})
	env.employee = users.AddUser(&domain.User{Username: "eve", Password: testPassword,
		Designation: domain.DesignationEmployee, Department: 1})
	env.peer = users.AddUser(&domain.User{Username: "paul", Password: testPassword,
		Designation: domain.DesignationManager, Department: 1})
	env.outsider = users.AddUser(&domain.User{Username: "oscar", Password: testPassword,
		Designation: domain.DesignationEmployee, Department: 2})

	authService, err := auth.NewService(users, env.sessions, &mocks.MockSessionTokenService{},
		auth.NewBcryptVerifier(), time.Hour, nil)
	require.NoError(t, err)

	taskService, err := service.NewTaskService(users, env.tasks, nil, nil)
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterRoutes(r,
		NewAuthHandler(authService, false, nil),
		NewTaskHandler(taskService, nil),
		middleware.NewSessionMiddleware(authService, false))
	env.router = r
	return env
}

// do sends a request through the router. body may be url.Values (form) or
// anything else (JSON); cookie may be nil.
func (e *testEnv) do(t *testing.T, method, target string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, target, nil)
	case url.Values:
		req = httptest.NewRequest(method, target, strings.NewReader(b.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// login signs the user in through POST /login and returns the session cookie.
func (e *testEnv) login(t *testing.T, u *domain.User) *http.Cookie {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/login",
		url.Values{"username": {u.Username}, "password": {testPassword}}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == shared.SessionCookieName {
			return c
		}
	}
	t.Fatalf("login for %s did not set a session cookie", u.Username)
	return nil
}

// addTask stores a task directly and returns it.
func (e *testEnv) addTask(t *testing.T, text string, createdBy, assignedTo *domain.User) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(text, nil, createdBy.ID, assignedTo.ID)
	require.NoError(t, err)
	require.NoError(t, e.tasks.Create(context.Background(), task))
	return task
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v), rec.Body.String())
}

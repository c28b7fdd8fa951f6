package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskdesk/internal/domain"
	"github.com/phrazzld/taskdesk/internal/events"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/edit/{taskNo}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	for _, path := range []string{"/edit/1", "/edit/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("/edit/{taskNo}", "GET", "403"))
	assert.Equal(t, float64(2), got, "task numbers must not explode label cardinality")
}

func TestHandleEventCountsByType(t *testing.T) {
	m := New()
	task := &domain.Task{No: 1, AssignedTo: 2, Status: domain.TaskStatusComplete}

	require.NoError(t, m.HandleEvent(context.Background(), events.NewTaskEvent(events.TaskStatusToggled, task, 2)))
	require.NoError(t, m.HandleEvent(context.Background(), events.NewTaskEvent(events.TaskStatusToggled, task, 2)))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.taskEventsTotal.WithLabelValues("task.status_toggled")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.taskEventsTotal.WithLabelValues("task.created").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `taskdesk_task_events_total{type="task.created"} 1`))
}

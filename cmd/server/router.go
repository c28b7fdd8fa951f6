package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskdesk/internal/api"
	apiMiddleware "github.com/phrazzld/taskdesk/internal/api/middleware"
	"github.com/phrazzld/taskdesk/internal/api/shared"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
	"github.com/phrazzld/taskdesk/internal/redact"
)

// healthCheckTimeout bounds each dependency check made by /health.
const healthCheckTimeout = 2 * time.Second

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)

	authHandler := api.NewAuthHandler(app.authService, app.config.Auth.CookieSecure, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	sessions := apiMiddleware.NewSessionMiddleware(app.authService, app.config.Auth.CookieSecure)

	api.RegisterRoutes(r, authHandler, taskHandler, sessions)

	r.Get("/health", app.health)
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}

// healthResponse reports the state of each backing service.
type healthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// health answers 200 when Postgres and Redis respond, 503 otherwise.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Services: map[string]string{}}
	status := http.StatusOK

	check := func(name string, ping func(context.Context) error) {
		if err := ping(ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), app.logger).Warn("health check failed",
				"service", name, "error", redact.Error(err))
			resp.Services[name] = "unavailable"
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			return
		}
		resp.Services[name] = "ok"
	}

	check("postgres", app.db.PingContext)
	check("redis", func(ctx context.Context) error { return app.redis.Ping(ctx).Err() })

	shared.RespondWithJSON(w, r, status, resp)
}

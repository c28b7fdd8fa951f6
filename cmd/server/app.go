package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/events"
	"github.com/phrazzld/taskdesk/internal/platform/metrics"
	"github.com/phrazzld/taskdesk/internal/platform/postgres"
	"github.com/phrazzld/taskdesk/internal/platform/redis"
	"github.com/phrazzld/taskdesk/internal/service"
	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/phrazzld/taskdesk/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB
	redis  goredis.UniversalClient

	// Stores (using interfaces for proper abstraction)
	userStore    store.UserStore
	taskStore    store.TaskStore
	sessionStore store.SessionStore

	// Services
	authService *auth.Service
	taskService *service.TaskService

	// Event system and instrumentation
	eventEmitter *events.InMemoryEventEmitter
	metrics      *metrics.Metrics
}

// newApplication creates a new application instance with all dependencies initialized.
// The database and Redis connections must be established before application initialization.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	rdb goredis.UniversalClient,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  rdb,
	}

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost)
	app.taskStore = postgres.NewPostgresTaskStore(db)
	app.sessionStore = redis.NewSessionStore(rdb)

	// Initialize session tokens and the auth service
	tokens, err := auth.NewSessionTokenService(cfg.Auth.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session token service: %w", err)
	}
	lifetime := time.Duration(cfg.Auth.SessionLifetimeMinutes) * time.Minute
	app.authService, err = auth.NewService(
		app.userStore,
		app.sessionStore,
		tokens,
		auth.NewBcryptVerifier(),
		lifetime,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	logger.Info("Session authentication initialized",
		"session_lifetime_minutes", cfg.Auth.SessionLifetimeMinutes)

	// Initialize instrumentation and the event emitter
	app.metrics = metrics.New()
	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewAuditLogHandler(logger))
	app.eventEmitter.RegisterHandler(app.metrics)

	// Initialize task service
	app.taskService, err = service.NewTaskService(app.userStore, app.taskStore, app.eventEmitter, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

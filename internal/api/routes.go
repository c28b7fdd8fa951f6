package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskdesk/internal/api/middleware"
	"github.com/phrazzld/taskdesk/internal/domain"
)

// RegisterRoutes mounts the auth and task pages on r. Every page runs behind
// sessions.LoadUser so handlers can see the session user.
func RegisterRoutes(
	r chi.Router,
	authHandler *AuthHandler,
	taskHandler *TaskHandler,
	sessions *middleware.SessionMiddleware,
) {
	taskPath := "/{" + taskNoParam + ":[0-9]+}"

	r.Group(func(r chi.Router) {
		r.Use(sessions.LoadUser)

		// Public pages
		r.Get("/register", authHandler.RegisterForm)
		r.Post("/register", authHandler.Register)
		r.Get("/login", authHandler.LoginForm)
		r.Post("/login", authHandler.Login)
		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)
		r.Get("/", taskHandler.Home)

		// Any signed-in user; the service checks creator/assignee.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/toggle_status"+taskPath, taskHandler.ToggleStatus)
			r.Post("/toggle_status"+taskPath, taskHandler.ToggleStatus)
		})

		// Manager pages
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireDesignation(domain.DesignationManager))
			r.Get("/add", taskHandler.AddForm)
			r.Post("/add", taskHandler.Add)
			r.Get("/edit"+taskPath, taskHandler.EditForm)
			r.Post("/edit"+taskPath, taskHandler.Edit)
			r.Get("/delete"+taskPath, taskHandler.Delete)
			r.Delete("/delete"+taskPath, taskHandler.Delete)
		})
	})
}

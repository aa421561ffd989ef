package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/taskdeck/taskdeck-api/internal/api"
	apiMiddleware "github.com/taskdeck/taskdeck-api/internal/api/middleware"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(apiMiddleware.CORS)

	// Unknown methods on known routes get a JSON error body like
	// everything else. Set before the subrouters so they inherit it.
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Create API handlers using the application's services
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.config.Auth, app.logger)
	profileHandler := api.NewProfileHandler(app.profileService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)

	// Everything under /api requires a verified caller identity.
	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Profile endpoints
		r.Post("/profile/sync", profileHandler.SyncProfile)
		r.Get("/profile", profileHandler.GetProfile)
		r.Put("/profile", profileHandler.UpdateProfile)
		r.Delete("/profile", profileHandler.DeleteProfile)

		// Task endpoints
		r.Post("/tasks", taskHandler.CreateTask)
		r.Get("/tasks", taskHandler.ListTasks)
		r.Get("/tasks/{taskID}", taskHandler.GetTask)
		r.Put("/tasks/{taskID}", taskHandler.UpdateTask)
		r.Delete("/tasks/{taskID}", taskHandler.DeleteTask)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/taskhive/engine/internal/api/handlers"
	mw "github.com/taskhive/engine/internal/api/middleware"
)

type Dependencies struct {
	// AuthEnabled selects the account-scoped variant: auth routes are
	// registered and task routes require a session. When false the same
	// task routes are public and queries run unscoped.
	AuthEnabled bool
	Verifier    mw.TokenVerifier

	AuthHandler          *handlers.AuthHandler
	TasksHandler         *handlers.TasksHandler
	NotificationsHandler *handlers.NotificationsHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		if dep.AuthEnabled {
			api.Route("/auth", func(ar chi.Router) {
				ar.Post("/register", dep.AuthHandler.Register)
				ar.Post("/login", dep.AuthHandler.Login)
				ar.Group(func(pr chi.Router) {
					pr.Use(mw.Auth(dep.Verifier))
					pr.Get("/me", dep.AuthHandler.Me)
					pr.Delete("/me", dep.AuthHandler.DeleteAccount)
				})
			})
		}

		api.Group(func(protected chi.Router) {
			if dep.AuthEnabled {
				protected.Use(mw.Auth(dep.Verifier))
			}

			protected.Route("/tasks", func(tr chi.Router) {
				tr.Get("/", dep.TasksHandler.List)
				tr.Post("/", dep.TasksHandler.Create)
				// fixed paths before the id wildcard
				tr.Get("/upcoming", dep.TasksHandler.Upcoming)
				tr.Get("/next", dep.TasksHandler.Next)
				tr.Get("/suggestions", dep.TasksHandler.Suggestions)
				tr.Get("/{id}", dep.TasksHandler.Get)
				tr.Put("/{id}", dep.TasksHandler.Update)
				tr.Delete("/{id}", dep.TasksHandler.Delete)
			})

			protected.Get("/notifications", dep.NotificationsHandler.List)
		})
	})

	return r
}

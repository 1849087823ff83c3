package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"eventease/internal/auth"
	"eventease/internal/metrics"
	"eventease/internal/middleware"
)

// RouterConfig bundles the handlers and cross-cutting pieces the router needs.
type RouterConfig struct {
	Auth     *AuthHandler
	Events   *EventHandler
	Expenses *ExpenseHandler
	Tasks    *TaskHandler

	JWT         *auth.JWTManager
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

// NewRouter assembles the full HTTP surface. Auth routes are public,
// everything else under /api requires a valid bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(cfg.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", cfg.Auth.Register)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(cfg.JWT))
			r.Route("/events", cfg.Events.Register)
			r.Route("/expenses", cfg.Expenses.Register)
			r.Route("/tasks", cfg.Tasks.Register)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

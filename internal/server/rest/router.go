package rest

import (
	"net/http"

	"github.com/dmitrijs2005/ubadesk/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the dependencies of NewRouter.
type RouterConfig struct {
	Handler        *Handler
	Metrics        *Metrics
	Logger         logging.Logger
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter mounts the auth API, the health check and /metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger(logger),
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		renderError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	h := cfg.Handler
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
				r.Post("/register", h.Register)
				r.Post("/login", h.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware(h.service, logger))
				r.Get("/me", h.Me)
			})
		})
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}

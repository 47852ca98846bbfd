package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-recipes/internal/cookies"
	"github.com/goliatone/go-recipes/internal/csrf"
	"github.com/goliatone/go-recipes/internal/logging"
	"github.com/goliatone/go-recipes/internal/recipes"
	"github.com/goliatone/go-recipes/internal/requestid"
	"github.com/goliatone/go-recipes/internal/web"
)

// StaticPrefix is where web.StaticFS is mounted.
const StaticPrefix = "/static/"

// RouterConfig lists the handlers the router mounts.
type RouterConfig struct {
	Logger  *slog.Logger
	Signer  *cookies.Signer
	Recipes *recipes.Handler
	API     *recipes.API
	// Checks run on /healthz. Without checks the probe only reports
	// liveness.
	Checks []func(context.Context) error
}

// NewRouter assembles middleware and routes.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	switch {
	case cfg.Signer == nil:
		return nil, errors.New("server: router: signer required")
	case cfg.Recipes == nil:
		return nil, errors.New("server: router: recipes handler required")
	case cfg.API == nil:
		return nil, errors.New("server: router: api required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(logging.Middleware(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", Healthcheck(logger, cfg.Checks...))
	r.Handle(StaticPrefix+"*", web.StaticHandler(StaticPrefix))
	cfg.API.Routes(r)

	r.Group(func(r chi.Router) {
		r.Use(csrf.Protect(cfg.Signer, http.HandlerFunc(forbidden)))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, recipes.ListPath, http.StatusFound)
		})
		cfg.Recipes.Routes(r)
		r.NotFound(cfg.Recipes.NotFound)
	})
	return r, nil
}

// Healthcheck answers 200 "ALIVE" without checks, 200 "READY" when every
// check passes and 503 "NOT_READY" otherwise.
func Healthcheck(logger *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				logger.ErrorContext(r.Context(), "readiness check failed", logging.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}

func forbidden(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "CSRF token missing or invalid.", http.StatusForbidden)
}

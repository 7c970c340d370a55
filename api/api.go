// Package api implements the REST surface over the credential and session
// cores.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/mjharte/stagehand/auth"
	"github.com/mjharte/stagehand/session"
)

// API holds the dependencies needed by the REST handlers.
type API struct {
	auth     *auth.Manager
	issuer   *auth.TokenIssuer
	tracker  *session.Tracker
	security *securityLogger
}

//go:embed openapi.yaml
var openapiSpec []byte

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for security events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.security = newSecurityLogger(logger)
	}
}

// New creates a new API instance.
func New(credentials *auth.Manager, issuer *auth.TokenIssuer, tracker *session.Tracker, opts ...Option) *API {
	a := &API{
		auth:    credentials,
		issuer:  issuer,
		tracker: tracker,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.security == nil {
		a.security = newSecurityLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	return a
}

// Router returns a chi.Router with all API routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/api/openapi.yaml",
		Path:    "api/redoc",
	}, nil))

	r.Post("/auth/register", a.Register)
	r.Post("/auth/login", a.Login)

	// Session routes require a valid bearer token.
	r.Route("/sessions", func(r chi.Router) {
		r.Use(a.BearerAuth)
		r.Post("/", a.CreateSession)
		r.Get("/{sessionID}", a.GetSession)
		r.Put("/{sessionID}/stage/{stage}", a.SetStageData)
		r.Put("/{sessionID}/move/{direction}", a.MoveStage)
	})

	return r
}

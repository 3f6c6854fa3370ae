// Package httpapi serves the browser-facing HTTP endpoints: federated
// sign-in, image upload and health.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// Deps are the collaborators of the HTTP router.
type Deps struct {
	Resolver       FederatedResolver
	Revoker        TokenRevoker
	Uploader       ImageUploader
	DB             Pinger
	Authenticator  model.Authenticator
	ContextManager model.ContextManager
	// RateLimit is the number of uploads allowed per IP per minute. Zero disables the limit.
	RateLimit int
	Logger    *logger.Logger
}

// NewRouter builds the chi router.
func NewRouter(deps Deps) http.Handler {
	oauth := NewOAuth(deps.Resolver, deps.Revoker, deps.Logger)
	images := NewImages(deps.Uploader, deps.ContextManager, deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/healthz", NewHealth(deps.DB, deps.Logger))

	r.Route("/auth/{provider}", func(r chi.Router) {
		r.Use(withProvider)
		r.Get("/", oauth.Begin)
		r.Get("/callback", oauth.Callback)
		r.Post("/logout", oauth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(requireBearer(deps.Authenticator, deps.ContextManager))
		if deps.RateLimit > 0 {
			r.Use(httprate.Limit(
				deps.RateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint),
			))
		}
		r.Post("/images", images.Upload)
	})

	return r
}

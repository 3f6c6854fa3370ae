package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// FederatedResolver turns verified provider claims into a session.
type FederatedResolver interface {
	ResolveFederated(ctx context.Context, claims model.FederatedClaims) (model.SessionResult, error)
}

// TokenRevoker revokes a refresh token on sign-out.
type TokenRevoker interface {
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// OAuth drives the federated sign-in round trip through goth. Providers
// are whatever was registered with goth.UseProviders; the session store is
// gothic.Store.
type OAuth struct {
	resolver     FederatedResolver
	revoker      TokenRevoker
	logger       *logger.Logger
	beginAuth    func(w http.ResponseWriter, r *http.Request)
	completeAuth func(w http.ResponseWriter, r *http.Request) (goth.User, error)
	logout       func(w http.ResponseWriter, r *http.Request) error
}

// NewOAuth creates a new OAuth handler.
func NewOAuth(resolver FederatedResolver, revoker TokenRevoker, logger *logger.Logger) *OAuth {
	return &OAuth{
		resolver:     resolver,
		revoker:      revoker,
		logger:       logger,
		beginAuth:    gothic.BeginAuthHandler,
		completeAuth: gothic.CompleteUserAuth,
		logout:       gothic.Logout,
	}
}

// withProvider resolves {provider} against the registered goth providers
// and hands its name to gothic through the request context.
func withProvider(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "provider")
		if _, err := goth.GetProvider(name); err != nil {
			writeError(w, apierrors.NewErrValidation("unknown sign-in provider %q", name))
			return
		}
		next.ServeHTTP(w, gothic.GetContextWithProvider(r, name))
	})
}

// Begin redirects to the provider's consent page.
func (h *OAuth) Begin(w http.ResponseWriter, r *http.Request) {
	h.beginAuth(w, r)
}

// Callback completes the round trip, resolves the account and returns a session.
func (h *OAuth) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	user, err := h.completeAuth(w, r)
	if err != nil {
		h.logger.Warn("OAuth handler: provider round trip failed",
			"provider", provider,
			"error", err.Error())
		writeError(w, apierrors.NewErrInvalidCredentials())
		return
	}

	name := user.Name
	if name == "" {
		name = user.NickName
	}
	session, err := h.resolver.ResolveFederated(r.Context(), model.FederatedClaims{
		Provider:          provider,
		ProviderAccountID: user.UserID,
		Email:             user.Email,
		Name:              name,
		Image:             user.AvatarURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout clears the provider session and, when a refresh token is sent,
// revokes it.
func (h *OAuth) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, apierrors.NewErrValidation("malformed logout body"))
		return
	}

	if err := h.logout(w, r); err != nil {
		h.logger.Warn("OAuth handler: failed to clear provider session",
			"error", err.Error())
	}

	if req.RefreshToken != "" {
		if err := h.revoker.RevokeByToken(r.Context(), req.RefreshToken); err != nil {
			writeError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

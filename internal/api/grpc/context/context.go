package context

import (
	"context"

	"github.com/dtroode/memoria-server/internal/model"
)

type identityKey struct{}

// Manager carries the caller's identity through request contexts.
// The identity is stored as a context value, never in metadata, so a
// client cannot inject one by sending headers.
type Manager struct{}

var _ model.ContextManager = (*Manager)(nil)

// NewManager creates a new context manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext returns a copy of ctx carrying identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentityFromContext returns the identity set by the authentication
// interceptor. ok is false for anonymous calls.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(model.Identity)
	if !ok {
		return model.Identity{}, false
	}
	return identity, true
}

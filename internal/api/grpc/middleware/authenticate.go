package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// Authenticate validates bearer tokens and injects the caller identity into context.
type Authenticate struct {
	authenticator  model.Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticator model.Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticator: authenticator, contextManager: contextManager, logger: logger}
}

// AuthFunc requires a valid bearer token and returns a context carrying the identity.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	tokenString := bearerToken(ctx)
	if tokenString == "" {
		return nil, status.Error(codes.Unauthenticated, apierrors.NewErrMissingAuthorizationToken().Error())
	}

	identity, err := m.authenticate(tokenString)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	return m.contextManager.SetIdentityToContext(ctx, identity), nil
}

// OptionalAuthFunc lets anonymous calls through unchanged. A token that is
// present must still be valid.
func (m *Authenticate) OptionalAuthFunc(ctx context.Context) (context.Context, error) {
	if bearerToken(ctx) == "" {
		return ctx, nil
	}
	return m.AuthFunc(ctx)
}

func (m *Authenticate) authenticate(tokenString string) (model.Identity, error) {
	identity, err := m.authenticator.Authenticate(tokenString)
	if err != nil {
		m.logger.Debug("Authenticate middleware: token rejected",
			"error", err.Error())
		return model.Identity{}, apierrors.NewErrInvalidAuthorizationToken()
	}
	return identity, nil
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return ""
	}
	header := strings.TrimSpace(authHeaders[0])
	if len(header) > len("bearer ") && strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return ""
}

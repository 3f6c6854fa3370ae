package handler

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/memoria-server/internal/api/grpc/rpc"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// AuthService defines credential sign-in and registration.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.Identity, error)
	Login(ctx context.Context, email, password string) (model.SessionResult, error)
	CreateAdmin(ctx context.Context, secret string, params model.RegisterParams) (model.Identity, error)
}

// TokenService defines token refresh and revoke operations.
type TokenService interface {
	Refresh(ctx context.Context, refreshToken string) (model.SessionResult, error)
	RevokeByToken(ctx context.Context, refreshToken string) error
}

// Auth handles the api.Auth service. None of its methods need a token.
type Auth struct {
	authService  AuthService
	tokenService TokenService
	logger       *logger.Logger
}

var _ rpc.Service = (*Auth)(nil)

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokenService TokenService, logger *logger.Logger) *Auth {
	return &Auth{
		authService:  authService,
		tokenService: tokenService,
		logger:       logger,
	}
}

func (h *Auth) ServiceName() string { return "api.Auth" }

func (h *Auth) Methods() []rpc.Method {
	return []rpc.Method{
		{Name: "Register", Handler: h.Register},
		{Name: "Login", Handler: h.Login},
		{Name: "CreateAdmin", Handler: h.CreateAdmin},
		{Name: "RefreshToken", Handler: h.RefreshToken},
		{Name: "RevokeToken", Handler: h.RevokeToken},
	}
}

func registerParams(r *rpc.Reader) model.RegisterParams {
	return model.RegisterParams{
		Email:    r.String("email"),
		Name:     r.String("name"),
		Password: r.String("password"),
	}
}

// Register creates a credential account.
func (h *Auth) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	params := registerParams(r)
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	identity, err := h.authService.Register(ctx, params)
	if err != nil {
		return nil, fail(h.logger, "Auth handler: registration failed", err)
	}

	h.logger.Info("Auth handler: registration completed",
		"user_id", identity.UserID)

	return toStruct(map[string]any{"user": identityFields(identity)})
}

// Login signs in with email and password.
func (h *Auth) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	email, password := r.String("email"), r.String("password")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	session, err := h.authService.Login(ctx, email, password)
	if err != nil {
		return nil, fail(h.logger, "Auth handler: login failed", err)
	}

	return toStruct(sessionFields(session))
}

// CreateAdmin bootstraps an admin account with the escalation secret.
func (h *Auth) CreateAdmin(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	secret := r.String("secret")
	params := registerParams(r)
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	identity, err := h.authService.CreateAdmin(ctx, secret, params)
	if err != nil {
		return nil, fail(h.logger, "Auth handler: admin bootstrap failed", err)
	}

	return toStruct(map[string]any{"user": identityFields(identity)})
}

// RefreshToken rotates a refresh token and returns a new session.
func (h *Auth) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	token := r.String("refreshToken")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	session, err := h.tokenService.Refresh(ctx, token)
	if err != nil {
		return nil, fail(h.logger, "Auth handler: token refresh failed", err)
	}

	return toStruct(sessionFields(session))
}

// RevokeToken signs out by revoking a refresh token.
func (h *Auth) RevokeToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	token := r.String("refreshToken")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	if err := h.tokenService.RevokeByToken(ctx, token); err != nil {
		return nil, fail(h.logger, "Auth handler: token revoke failed", err)
	}

	return empty(), nil
}

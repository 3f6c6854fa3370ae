package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/memoria-server/internal/api/grpc/rpc"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// UserService defines user directory operations.
type UserService interface {
	ListUsers(ctx context.Context, caller model.Identity, query string) ([]model.User, error)
	SetRole(ctx context.Context, caller model.Identity, userID uuid.UUID, role model.Role) (model.User, error)
	DeleteUser(ctx context.Context, caller model.Identity, userID uuid.UUID) error
	PromoteSelf(ctx context.Context, caller model.Identity, secret string) (model.User, error)
}

// ProfileService returns the caller as currently stored.
type ProfileService interface {
	Me(ctx context.Context, caller model.Identity) (model.Identity, error)
}

// Users handles the api.Users service.
type Users struct {
	userService    UserService
	profileService ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ rpc.Service = (*Users)(nil)

// NewUsers creates a new Users handler.
func NewUsers(userService UserService, profileService ProfileService, contextManager model.ContextManager, logger *logger.Logger) *Users {
	return &Users{
		userService:    userService,
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Users) ServiceName() string { return "api.Users" }

func (h *Users) Methods() []rpc.Method {
	return []rpc.Method{
		{Name: "Me", Handler: h.Me},
		{Name: "ListUsers", Handler: h.ListUsers},
		{Name: "SetRole", Handler: h.SetRole},
		{Name: "DeleteUser", Handler: h.DeleteUser},
		{Name: "PromoteSelf", Handler: h.PromoteSelf},
	}
}

func (h *Users) caller(ctx context.Context) model.Identity {
	identity, _ := h.contextManager.GetIdentityFromContext(ctx)
	return identity
}

// Me returns the caller's stored profile and current role.
func (h *Users) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	caller := h.caller(ctx)
	identity, err := h.profileService.Me(ctx, caller)
	if err != nil {
		return nil, fail(h.logger, "Users handler: failed to load profile", err, "user_id", caller.UserID)
	}
	return toStruct(map[string]any{"user": identityFields(identity)})
}

// ListUsers returns the directory, optionally filtered by name or email.
func (h *Users) ListUsers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	query := r.String("query")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	users, err := h.userService.ListUsers(ctx, h.caller(ctx), query)
	if err != nil {
		return nil, fail(h.logger, "Users handler: failed to list users", err)
	}
	return toStruct(map[string]any{"users": list(users, userFields)})
}

// SetRole changes a user's role.
func (h *Users) SetRole(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	id := r.UUID("id")
	role := r.String("role")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	user, err := h.userService.SetRole(ctx, h.caller(ctx), id, model.Role(role))
	if err != nil {
		return nil, fail(h.logger, "Users handler: failed to set role", err, "target_id", id)
	}
	return toStruct(map[string]any{"user": userFields(user)})
}

// DeleteUser removes a user account.
func (h *Users) DeleteUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	id := r.UUID("id")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	if err := h.userService.DeleteUser(ctx, h.caller(ctx), id); err != nil {
		return nil, fail(h.logger, "Users handler: failed to delete user", err, "target_id", id)
	}
	return empty(), nil
}

// PromoteSelf grants the caller the admin role given the escalation secret.
func (h *Users) PromoteSelf(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	secret := r.String("secret")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	caller := h.caller(ctx)
	user, err := h.userService.PromoteSelf(ctx, caller, secret)
	if err != nil {
		return nil, fail(h.logger, "Users handler: self-promotion failed", err, "user_id", caller.UserID)
	}
	return toStruct(map[string]any{"user": userFields(user)})
}

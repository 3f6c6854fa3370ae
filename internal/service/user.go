package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
	"github.com/dtroode/memoria-server/internal/search"
)

// User manages the user directory and roles.
type User struct {
	userStore   model.UserStore
	adminSecret string
	logger      *logger.Logger
	now         func() time.Time
}

func NewUser(userStore model.UserStore, adminSecret string, logger *logger.Logger) *User {
	return &User{
		userStore:   userStore,
		adminSecret: adminSecret,
		logger:      logger,
		now:         time.Now,
	}
}

// ListUsers returns every user, filtered by name or email when query is set. Admin only.
func (s *User) ListUsers(ctx context.Context, caller model.Identity, query string) ([]model.User, error) {
	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "list users"); err != nil {
		return nil, err
	}

	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("User service: failed to list users",
			"error", err.Error())
		return nil, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to list users: %w", err))
	}

	return search.FilterUsers(users, query), nil
}

// SetRole changes a user's role. Demoting the only admin fails with LastAdminGuard. Admin only.
func (s *User) SetRole(ctx context.Context, caller model.Identity, userID uuid.UUID, role model.Role) (model.User, error) {
	parsed, ok := model.ParseRole(string(role))
	if !ok {
		return model.User{}, apierrors.NewErrValidation("unknown role %q", role)
	}

	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "change roles"); err != nil {
		return model.User{}, err
	}

	return s.setRole(ctx, userID, parsed)
}

// DeleteUser removes a user. Deleting the only admin fails with
// LastAdminGuard. The user's posts are kept. Admin only.
func (s *User) DeleteUser(ctx context.Context, caller model.Identity, userID uuid.UUID) error {
	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "delete users"); err != nil {
		return err
	}

	err := s.userStore.Delete(ctx, userID)
	switch {
	case errors.Is(err, model.ErrLastAdmin):
		s.logger.Info("User service: refused to delete last admin",
			"user_id", userID)
		return apierrors.NewErrLastAdminGuard()
	case errors.Is(err, model.ErrNotFound):
		return apierrors.NewErrNotFound("user", userID)
	case err != nil:
		s.logger.Error("User service: failed to delete user",
			"user_id", userID,
			"error", err.Error())
		return apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to delete user: %w", err))
	}

	s.logger.Info("User service: user deleted",
		"user_id", userID,
		"by", caller.UserID)

	return nil
}

// PromoteSelf makes the caller an admin when secret matches the configured
// escalation secret.
func (s *User) PromoteSelf(ctx context.Context, caller model.Identity, secret string) (model.User, error) {
	if !secretMatches(s.adminSecret, secret) {
		s.logger.Warn("User service: self-promotion rejected",
			"user_id", caller.UserID)
		return model.User{}, apierrors.NewErrForbidden("promote to admin")
	}

	user, err := s.setRole(ctx, caller.UserID, model.RoleAdmin)
	if err != nil {
		return model.User{}, err
	}

	s.logger.Warn("User service: user promoted itself to admin",
		"user_id", caller.UserID)

	return user, nil
}

func (s *User) setRole(ctx context.Context, userID uuid.UUID, role model.Role) (model.User, error) {
	user, err := s.userStore.SetRole(ctx, userID, role, s.now())
	switch {
	case errors.Is(err, model.ErrLastAdmin):
		s.logger.Info("User service: refused to demote last admin",
			"user_id", userID)
		return model.User{}, apierrors.NewErrLastAdminGuard()
	case errors.Is(err, model.ErrNotFound):
		return model.User{}, apierrors.NewErrNotFound("user", userID)
	case err != nil:
		s.logger.Error("User service: failed to set role",
			"user_id", userID,
			"error", err.Error())
		return model.User{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to set role: %w", err))
	}

	s.logger.Info("User service: role changed",
		"user_id", userID,
		"role", role)

	return user, nil
}

package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// PasswordHasher hashes and verifies credential passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// requireAdmin re-reads the caller from the store so a demoted admin's
// still-valid token stops working on the next admin call.
func requireAdmin(ctx context.Context, users model.UserStore, log *logger.Logger, caller model.Identity, action string) (model.User, error) {
	user, err := users.GetByID(ctx, caller.UserID)
	if errors.Is(err, model.ErrNotFound) {
		log.Info("Authorization: caller no longer exists",
			"user_id", caller.UserID,
			"action", action)
		return model.User{}, apierrors.NewErrForbidden(action)
	}
	if err != nil {
		log.Error("Authorization: failed to get caller",
			"user_id", caller.UserID,
			"error", err.Error())
		return model.User{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to get caller: %w", err))
	}

	if !user.IsAdmin() {
		log.Info("Authorization: admin role required",
			"user_id", caller.UserID,
			"action", action)
		return model.User{}, apierrors.NewErrForbidden(action)
	}

	return user, nil
}

// secretMatches reports whether supplied equals the configured secret.
// An empty configured secret never matches.
func secretMatches(configured, supplied string) bool {
	if configured == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(configured), []byte(supplied)) == 1
}

// plainText strips markup from user-supplied text and trims it. Text that
// parses as a tag is dropped silently, so "x<y>z" becomes "xz".
type plainText struct {
	policy *bluemonday.Policy
}

func newPlainText() plainText {
	return plainText{policy: bluemonday.StrictPolicy()}
}

func (p plainText) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(p.policy.Sanitize(s)))
}

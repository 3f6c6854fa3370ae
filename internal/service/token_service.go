package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// DefaultRefreshTTL is used when no refresh lifetime is configured.
const DefaultRefreshTTL = 30 * 24 * time.Hour

// TokenService provides high-level operations for issuing, refreshing,
// and revoking tokens. It composes the TokenManager and RefreshTokenStore.
type TokenService struct {
	manager    model.TokenManager
	store      model.RefreshTokenStore
	users      model.UserStore
	refreshTTL time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

var _ model.Authenticator = (*TokenService)(nil)

// NewTokenService creates a TokenService. refreshTTL should match the token
// manager's refresh lifetime; it only drives persistence, signatures are
// checked by the manager.
func NewTokenService(
	manager model.TokenManager,
	store model.RefreshTokenStore,
	users model.UserStore,
	refreshTTL time.Duration,
	logger *logger.Logger,
) *TokenService {
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		manager:    manager,
		store:      store,
		users:      users,
		refreshTTL: refreshTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Issue creates an access/refresh pair for the identity and persists the refresh token hash.
func (s *TokenService) Issue(ctx context.Context, identity model.Identity) (accessToken string, refreshToken string, err error) {
	return s.issue(ctx, identity, nil)
}

func (s *TokenService) issue(ctx context.Context, identity model.Identity, rotatedFrom *string) (string, string, error) {
	access, err := s.manager.GenerateAccessToken(identity)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(identity.UserID)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}

	now := s.now()
	rt := model.RefreshToken{
		ID:             uuid.New(),
		JTI:            jti,
		UserID:         identity.UserID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(s.refreshTTL),
		RotatedFromJTI: rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return "", "", fmt.Errorf("persist refresh: %w", err)
	}

	return access, refresh, nil
}

// Refresh rotates a refresh token. The user is re-read so the new access
// token carries the current role; deleted users cannot refresh.
func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (model.SessionResult, error) {
	userID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		s.logger.Debug("Token service: refresh token rejected",
			"error", err.Error())
		return model.SessionResult{}, apierrors.NewErrInvalidAuthorizationToken().WithCause(err)
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if errors.Is(err, model.ErrNotFound) {
		return model.SessionResult{}, apierrors.NewErrInvalidAuthorizationToken().WithCause(err)
	}
	if err != nil {
		s.logger.Error("Token service: failed to get refresh token",
			"user_id", userID,
			"error", err.Error())
		return model.SessionResult{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to get refresh token: %w", err))
	}

	if err := validateRecord(rt, hashRefresh(presentedRefresh), s.now()); err != nil {
		s.logger.Info("Token service: stored refresh token is not usable",
			"user_id", userID,
			"reason", err.Error())
		return model.SessionResult{}, apierrors.NewErrInvalidAuthorizationToken().WithCause(err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Token service: refresh for deleted user",
			"user_id", userID)
		if err := s.store.RevokeAllByUser(ctx, userID); err != nil {
			s.logger.Error("Token service: failed to revoke tokens of deleted user",
				"user_id", userID,
				"error", err.Error())
		}
		return model.SessionResult{}, apierrors.NewErrInvalidAuthorizationToken().WithCause(err)
	}
	if err != nil {
		s.logger.Error("Token service: failed to get user",
			"user_id", userID,
			"error", err.Error())
		return model.SessionResult{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to get user: %w", err))
	}

	err = s.store.ConsumeByJTI(ctx, jti)
	if errors.Is(err, model.ErrTokenRevoked) {
		s.logger.Info("Token service: refresh token already exchanged",
			"user_id", userID)
		return model.SessionResult{}, apierrors.NewErrInvalidAuthorizationToken().WithCause(err)
	}
	if err != nil {
		s.logger.Error("Token service: failed to revoke old refresh token",
			"user_id", userID,
			"error", err.Error())
		return model.SessionResult{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("revoke old refresh: %w", err))
	}

	identity := model.IdentityFromUser(user)
	rotatedFrom := rt.JTI
	access, refresh, err := s.issue(ctx, identity, &rotatedFrom)
	if err != nil {
		s.logger.Error("Token service: failed to issue rotated tokens",
			"user_id", userID,
			"error", err.Error())
		return model.SessionResult{}, apierrors.NewErrUpstreamUnavailable(err)
	}

	return model.SessionResult{
		Identity:     identity,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// RevokeByToken revokes the presented refresh token.
func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	_, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return apierrors.NewErrInvalidAuthorizationToken().WithCause(err)
	}
	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to revoke refresh token: %w", err))
	}
	return nil
}

// PruneExpired deletes refresh tokens whose lifetime is over. Revoked but
// unexpired tokens stay so that a replayed token is still recognised.
func (s *TokenService) PruneExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to prune refresh tokens: %w", err))
	}
	return n, nil
}

// RunJanitor prunes expired refresh tokens every interval until ctx is done.
func (s *TokenService) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.PruneExpired(ctx)
			if err != nil {
				s.logger.Error("Token service: failed to prune refresh tokens",
					"error", err.Error())
				continue
			}
			if n > 0 {
				s.logger.Info("Token service: pruned expired refresh tokens",
					"count", n)
			}
		}
	}
}

// Authenticate validates an access token and returns the identity it carries.
func (s *TokenService) Authenticate(token string) (model.Identity, error) {
	identity, err := s.manager.ParseAccessToken(token)
	if err != nil {
		return model.Identity{}, apierrors.NewErrInvalidAuthorizationToken().WithCause(err)
	}
	return identity, nil
}

func hashRefresh(token string) []byte {
	h := sha256.Sum256([]byte(token))
	return h[:]
}

func validateRecord(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if err := rt.Usable(now); err != nil {
		return err
	}
	if !equalBytes(rt.TokenHash, presentedHash) {
		return model.ErrTokenMismatch
	}
	return nil
}

func equalBytes(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

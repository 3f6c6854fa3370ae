package model

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

// RefreshToken is a persisted refresh token. Only the SHA-256 of the token
// is stored. A rotated token points at its predecessor through RotatedFromJTI.
type RefreshToken struct {
	ID             uuid.UUID
	JTI            string
	UserID         uuid.UUID
	TokenHash      []byte
	IssuedAt       time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	RotatedFromJTI *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Usable reports why the token cannot be exchanged at now, or nil.
func (t RefreshToken) Usable(now time.Time) error {
	if t.RevokedAt != nil {
		return ErrTokenRevoked
	}
	if now.After(t.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}

// RefreshTokenStore persists refresh tokens for rotation, sign-out and pruning.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (RefreshToken, error)
	RevokeByJTI(ctx context.Context, jti string) error
	// ConsumeByJTI revokes an active token for rotation. It returns
	// ErrTokenRevoked when the token was already revoked, so only one
	// caller can exchange a given token.
	ConsumeByJTI(ctx context.Context, jti string) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
	// DeleteExpired removes tokens that expired before the given instant and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

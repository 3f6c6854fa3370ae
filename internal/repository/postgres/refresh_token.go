package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/memoria-server/internal/model"
)

var _ model.RefreshTokenStore = (*RefreshTokenRepository)(nil)

const refreshTokenColumns = `id, jti, user_id, token_hash, issued_at, expires_at, revoked_at, rotated_from_jti, created_at, updated_at`

type RefreshTokenRepository struct {
	db *Connection
}

func NewRefreshTokenRepository(db *Connection) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (` + refreshTokenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = token.IssuedAt
	}
	if token.UpdatedAt.IsZero() {
		token.UpdatedAt = token.CreatedAt
	}

	_, err := r.db.Exec(ctx, query,
		token.ID, token.JTI, token.UserID, token.TokenHash, token.IssuedAt, token.ExpiresAt,
		token.RevokedAt, token.RotatedFromJTI, token.CreatedAt, token.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create refresh token: %w", err)
	}

	return nil
}

func (r *RefreshTokenRepository) GetByJTI(ctx context.Context, jti string) (model.RefreshToken, error) {
	query := `SELECT ` + refreshTokenColumns + ` FROM refresh_tokens WHERE jti = $1`

	var token model.RefreshToken
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&token.ID, &token.JTI, &token.UserID, &token.TokenHash, &token.IssuedAt, &token.ExpiresAt,
		&token.RevokedAt, &token.RotatedFromJTI, &token.CreatedAt, &token.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RefreshToken{}, model.ErrNotFound
		}
		return model.RefreshToken{}, fmt.Errorf("failed to get refresh token by jti: %w", err)
	}

	return token, nil
}

// RevokeByJTI is idempotent: revoking an already revoked or unknown token is not an error.
func (r *RefreshTokenRepository) RevokeByJTI(ctx context.Context, jti string) error {
	return r.revoke(ctx, `jti = $1`, jti)
}

func (r *RefreshTokenRepository) ConsumeByJTI(ctx context.Context, jti string) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW(), updated_at = NOW()
		WHERE jti = $1 AND revoked_at IS NULL`

	tag, err := r.db.Exec(ctx, query, jti)
	if err != nil {
		return fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenRevoked
	}

	return nil
}

func (r *RefreshTokenRepository) RevokeAllByUser(ctx context.Context, userID uuid.UUID) error {
	return r.revoke(ctx, `user_id = $1`, userID)
}

func (r *RefreshTokenRepository) revoke(ctx context.Context, where string, arg any) error {
	query := `UPDATE refresh_tokens SET revoked_at = NOW(), updated_at = NOW()
		WHERE ` + where + ` AND revoked_at IS NULL`

	if _, err := r.db.Exec(ctx, query, arg); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	return nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}

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

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, email, name, image, password_hash, provider, role, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		user model.User
		role string
	)
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.Image, &user.PasswordHash,
		&user.Provider, &role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return model.User{}, err
	}
	user.Role = model.Role(role)
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, model.NormalizeEmail(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, name, image, password_hash, provider, role, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, model.NormalizeEmail(user.Email), user.Name, user.Image, user.PasswordHash,
		user.Provider, string(user.Role), user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return saved, nil
}

func (r *UserRepository) UpsertFederated(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, name, image, password_hash, provider, role, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NULL, $5, $6, $7, $8)
			  ON CONFLICT (email) DO UPDATE
			  SET name = EXCLUDED.name, image = EXCLUDED.image, updated_at = EXCLUDED.updated_at
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, model.NormalizeEmail(user.Email), user.Name, user.Image,
		user.Provider, string(user.Role), user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return model.User{}, fmt.Errorf("failed to upsert federated user: %w", err)
	}

	return saved, nil
}

// SetRole changes a user's role. Every admin row is locked before the
// target is read, so concurrent demotions serialize and the admin count
// seen by each transaction is current.
func (r *UserRepository) SetRole(ctx context.Context, id uuid.UUID, role model.Role, updatedAt time.Time) (model.User, error) {
	var saved model.User

	err := r.withAdminLock(ctx, id, func(tx pgx.Tx, current model.Role, admins int) error {
		if current == model.RoleAdmin && role != model.RoleAdmin && admins <= 1 {
			return model.ErrLastAdmin
		}

		query := `UPDATE users SET role = $2, updated_at = $3 WHERE id = $1 RETURNING ` + userColumns
		user, err := scanUser(tx.QueryRow(ctx, query, id, string(role), updatedAt))
		if err != nil {
			return fmt.Errorf("failed to update user role: %w", err)
		}
		saved = user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}

	return saved, nil
}

// Delete removes a user unless it is the only admin.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.withAdminLock(ctx, id, func(tx pgx.Tx, current model.Role, admins int) error {
		if current == model.RoleAdmin && admins <= 1 {
			return model.ErrLastAdmin
		}

		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func (r *UserRepository) withAdminLock(ctx context.Context, id uuid.UUID, fn func(tx pgx.Tx, current model.Role, admins int) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `SELECT id FROM users WHERE role = 'admin' ORDER BY id FOR UPDATE`)
	if err != nil {
		return fmt.Errorf("failed to lock admins: %w", err)
	}
	admins := 0
	for rows.Next() {
		admins++
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to lock admins: %w", err)
	}

	var current string
	err = tx.QueryRow(ctx, `SELECT role FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to get user role: %w", err)
	}

	if err := fn(tx, model.Role(current), admins); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

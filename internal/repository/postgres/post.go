package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/memoria-server/internal/model"
)

var _ model.PostStore = (*PostRepository)(nil)

const postColumns = `id, title, description, date, image_url, approved, user_email, user_name, user_image, created_at, updated_at`

type PostRepository struct {
	db *Connection
}

func NewPostRepository(db *Connection) *PostRepository {
	return &PostRepository{
		db: db,
	}
}

func scanPost(row pgx.Row) (model.Post, error) {
	var post model.Post
	err := row.Scan(
		&post.ID, &post.Title, &post.Desc, &post.Date, &post.ImageURL, &post.Approved,
		&post.UserEmail, &post.UserName, &post.UserImage, &post.CreatedAt, &post.UpdatedAt,
	)
	return post, err
}

func (r *PostRepository) Create(ctx context.Context, post model.Post) (model.Post, error) {
	query := `INSERT INTO posts (id, title, description, date, image_url, approved, user_email, user_name, user_image, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + postColumns

	saved, err := scanPost(r.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Desc, post.Date, post.ImageURL, post.Approved,
		post.UserEmail, post.UserName, post.UserImage, post.CreatedAt, post.UpdatedAt,
	))
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	return saved, nil
}

func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to get post by id: %w", err)
	}

	return post, nil
}

func (r *PostRepository) ListApproved(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts WHERE approved ORDER BY created_at DESC, id`)
}

func (r *PostRepository) ListPending(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts WHERE NOT approved ORDER BY created_at DESC, id`)
}

func (r *PostRepository) ListAll(ctx context.Context) ([]model.Post, error) {
	return r.list(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id`)
}

func (r *PostRepository) ListByAuthor(ctx context.Context, email string) ([]model.Post, error) {
	return r.list(ctx,
		`SELECT `+postColumns+` FROM posts WHERE lower(user_email) = $1 ORDER BY created_at DESC, id`,
		model.NormalizeEmail(email),
	)
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]model.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	return posts, nil
}

// Approve is idempotent; updated_at only moves on the first approval.
func (r *PostRepository) Approve(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE posts
			  SET approved = TRUE,
			      updated_at = CASE WHEN approved THEN updated_at ELSE NOW() END
			  WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to approve post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

// Update overwrites the editable fields. Moderation state and author
// snapshot are left as stored.
func (r *PostRepository) Update(ctx context.Context, post model.Post) (model.Post, error) {
	query := `UPDATE posts
			  SET title = $2, description = $3, date = $4, image_url = $5, updated_at = $6
			  WHERE id = $1
			  RETURNING ` + postColumns

	saved, err := scanPost(r.db.QueryRow(ctx, query,
		post.ID, post.Title, post.Desc, post.Date, post.ImageURL, post.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Post{}, model.ErrNotFound
		}
		return model.Post{}, fmt.Errorf("failed to update post: %w", err)
	}

	return saved, nil
}

func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}

	return nil
}

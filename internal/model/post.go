package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxDescriptionLength is the default bound on a post description, in characters.
const DefaultMaxDescriptionLength = 600

// PostStore defines persistence operations for posts.
type PostStore interface {
	Create(ctx context.Context, post Post) (Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)
	ListApproved(ctx context.Context) ([]Post, error)
	ListPending(ctx context.Context) ([]Post, error)
	ListAll(ctx context.Context) ([]Post, error)
	ListByAuthor(ctx context.Context, email string) ([]Post, error)
	Approve(ctx context.Context, id uuid.UUID) error
	Update(ctx context.Context, post Post) (Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Post is a user submission awaiting or past moderation.
type Post struct {
	ID        uuid.UUID
	Title     string
	Desc      string
	Date      string
	ImageURL  string
	Approved  bool
	UserEmail string
	UserName  string
	UserImage *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePostParams contains input for a new submission.
type CreatePostParams struct {
	Title    string
	Desc     string
	Date     string
	ImageURL string
}

// EditPostParams contains the fields an admin may overwrite. Nil fields are kept.
type EditPostParams struct {
	Title    *string
	Desc     *string
	Date     *string
	ImageURL *string
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
	"github.com/dtroode/memoria-server/internal/search"
)

// Post implements submission and moderation of posts.
type Post struct {
	postStore            model.PostStore
	userStore            model.UserStore
	maxDescriptionLength int
	text                 plainText
	logger               *logger.Logger
	now                  func() time.Time
}

func NewPost(
	postStore model.PostStore,
	userStore model.UserStore,
	maxDescriptionLength int,
	logger *logger.Logger,
) *Post {
	if maxDescriptionLength <= 0 {
		maxDescriptionLength = model.DefaultMaxDescriptionLength
	}
	return &Post{
		postStore:            postStore,
		userStore:            userStore,
		maxDescriptionLength: maxDescriptionLength,
		text:                 newPlainText(),
		logger:               logger,
		now:                  time.Now,
	}
}

// CreatePost submits a post for moderation with the author snapshot taken from the identity.
// Title and description are stored as plain text: anything the HTML tokenizer
// reads as a tag, such as "<y>" in "x<y>z", is removed without an error.
func (s *Post) CreatePost(ctx context.Context, author model.Identity, params model.CreatePostParams) (model.Post, error) {
	if author.UserID == uuid.Nil || author.Email == "" {
		return model.Post{}, apierrors.NewErrForbidden("create posts")
	}

	title := s.text.clean(params.Title)
	desc := s.text.clean(params.Desc)
	imageURL := strings.TrimSpace(params.ImageURL)

	if imageURL == "" {
		return model.Post{}, apierrors.NewErrMissingImage()
	}
	if title == "" {
		return model.Post{}, apierrors.NewErrValidation("title is required")
	}
	if err := s.checkDescription(desc); err != nil {
		return model.Post{}, err
	}

	now := s.now()
	post, err := s.postStore.Create(ctx, model.Post{
		ID:        uuid.New(),
		Title:     title,
		Desc:      desc,
		Date:      strings.TrimSpace(params.Date),
		ImageURL:  imageURL,
		Approved:  false,
		UserEmail: model.NormalizeEmail(author.Email),
		UserName:  author.Name,
		UserImage: author.Image,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error("Post service: failed to create post",
			"user_id", author.UserID,
			"error", err.Error())
		return model.Post{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to create post: %w", err))
	}

	s.logger.Info("Post service: post submitted",
		"post_id", post.ID,
		"user_id", author.UserID)

	return post, nil
}

// GetPost returns a post. Unapproved posts are only visible to admins and
// their author; anyone else gets NotFound.
func (s *Post) GetPost(ctx context.Context, caller model.Identity, postID uuid.UUID) (model.Post, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if post.Approved || isAuthor(caller, post) {
		return post, nil
	}

	if caller.UserID != uuid.Nil {
		_, err := requireAdmin(ctx, s.userStore, s.logger, caller, "view unapproved posts")
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, apierrors.ErrForbidden) {
			return model.Post{}, err
		}
	}

	return model.Post{}, apierrors.NewErrNotFound("post", postID)
}

// ListApprovedPosts returns the public feed.
func (s *Post) ListApprovedPosts(ctx context.Context) ([]model.Post, error) {
	posts, err := s.postStore.ListApproved(ctx)
	if err != nil {
		s.logger.Error("Post service: failed to list approved posts",
			"error", err.Error())
		return nil, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to list approved posts: %w", err))
	}
	return posts, nil
}

// SearchApprovedPosts fetches the public feed once and filters it locally.
func (s *Post) SearchApprovedPosts(ctx context.Context, query string) ([]model.Post, error) {
	posts, err := s.ListApprovedPosts(ctx)
	if err != nil {
		return nil, err
	}
	return search.FilterPosts(posts, query), nil
}

// ListPostsByAuthor returns every post of the author, approved or not.
func (s *Post) ListPostsByAuthor(ctx context.Context, email string) ([]model.Post, error) {
	posts, err := s.postStore.ListByAuthor(ctx, model.NormalizeEmail(email))
	if err != nil {
		s.logger.Error("Post service: failed to list posts by author",
			"error", err.Error())
		return nil, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to list posts by author: %w", err))
	}
	return posts, nil
}

// ListPendingPosts returns the approval queue. Admin only.
func (s *Post) ListPendingPosts(ctx context.Context, caller model.Identity) ([]model.Post, error) {
	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "list pending posts"); err != nil {
		return nil, err
	}

	posts, err := s.postStore.ListPending(ctx)
	if err != nil {
		s.logger.Error("Post service: failed to list pending posts",
			"error", err.Error())
		return nil, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to list pending posts: %w", err))
	}
	return posts, nil
}

// ListAllPosts returns every post regardless of approval. Admin only.
func (s *Post) ListAllPosts(ctx context.Context, caller model.Identity) ([]model.Post, error) {
	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "list all posts"); err != nil {
		return nil, err
	}

	posts, err := s.postStore.ListAll(ctx)
	if err != nil {
		s.logger.Error("Post service: failed to list posts",
			"error", err.Error())
		return nil, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to list posts: %w", err))
	}
	return posts, nil
}

// ApprovePost publishes a post. Approving an approved post is a no-op. Admin only.
func (s *Post) ApprovePost(ctx context.Context, caller model.Identity, postID uuid.UUID) error {
	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "approve posts"); err != nil {
		return err
	}

	err := s.postStore.Approve(ctx, postID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrNotFound("post", postID)
	}
	if err != nil {
		s.logger.Error("Post service: failed to approve post",
			"post_id", postID,
			"error", err.Error())
		return apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to approve post: %w", err))
	}

	s.logger.Info("Post service: post approved",
		"post_id", postID,
		"by", caller.UserID)

	return nil
}

// EditPost overwrites the provided fields of a post. Admin only.
// Title and description go through the same tag stripping as CreatePost.
func (s *Post) EditPost(ctx context.Context, caller model.Identity, postID uuid.UUID, params model.EditPostParams) (model.Post, error) {
	if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "edit posts"); err != nil {
		return model.Post{}, err
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}

	if params.Title != nil {
		post.Title = s.text.clean(*params.Title)
		if post.Title == "" {
			return model.Post{}, apierrors.NewErrValidation("title is required")
		}
	}
	if params.Desc != nil {
		post.Desc = s.text.clean(*params.Desc)
		if err := s.checkDescription(post.Desc); err != nil {
			return model.Post{}, err
		}
	}
	if params.Date != nil {
		post.Date = strings.TrimSpace(*params.Date)
	}
	if params.ImageURL != nil {
		post.ImageURL = strings.TrimSpace(*params.ImageURL)
		if post.ImageURL == "" {
			return model.Post{}, apierrors.NewErrMissingImage()
		}
	}
	post.UpdatedAt = s.now()

	updated, err := s.postStore.Update(ctx, post)
	if errors.Is(err, model.ErrNotFound) {
		return model.Post{}, apierrors.NewErrNotFound("post", postID)
	}
	if err != nil {
		s.logger.Error("Post service: failed to update post",
			"post_id", postID,
			"error", err.Error())
		return model.Post{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to update post: %w", err))
	}

	s.logger.Info("Post service: post edited",
		"post_id", postID,
		"by", caller.UserID)

	return updated, nil
}

// DeletePost removes a post. Allowed for its author and for admins.
func (s *Post) DeletePost(ctx context.Context, caller model.Identity, postID uuid.UUID) error {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}

	if !isAuthor(caller, post) {
		if _, err := requireAdmin(ctx, s.userStore, s.logger, caller, "delete this post"); err != nil {
			return err
		}
	}

	err = s.postStore.Delete(ctx, postID)
	if errors.Is(err, model.ErrNotFound) {
		return apierrors.NewErrNotFound("post", postID)
	}
	if err != nil {
		s.logger.Error("Post service: failed to delete post",
			"post_id", postID,
			"error", err.Error())
		return apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to delete post: %w", err))
	}

	s.logger.Info("Post service: post deleted",
		"post_id", postID,
		"by", caller.UserID)

	return nil
}

func (s *Post) getPost(ctx context.Context, postID uuid.UUID) (model.Post, error) {
	post, err := s.postStore.GetByID(ctx, postID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Post{}, apierrors.NewErrNotFound("post", postID)
	}
	if err != nil {
		s.logger.Error("Post service: failed to get post",
			"post_id", postID,
			"error", err.Error())
		return model.Post{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to get post: %w", err))
	}
	return post, nil
}

func (s *Post) checkDescription(desc string) error {
	if n := utf8.RuneCountInString(desc); n > s.maxDescriptionLength {
		return apierrors.NewErrValidation("description is %d characters long, the maximum is %d", n, s.maxDescriptionLength)
	}
	return nil
}

func isAuthor(caller model.Identity, post model.Post) bool {
	return caller.Email != "" && strings.EqualFold(caller.Email, post.UserEmail)
}

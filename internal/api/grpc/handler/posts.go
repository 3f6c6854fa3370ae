package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dtroode/memoria-server/internal/api/grpc/rpc"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// PostService defines submission and moderation operations.
type PostService interface {
	CreatePost(ctx context.Context, author model.Identity, params model.CreatePostParams) (model.Post, error)
	GetPost(ctx context.Context, caller model.Identity, postID uuid.UUID) (model.Post, error)
	ListApprovedPosts(ctx context.Context) ([]model.Post, error)
	SearchApprovedPosts(ctx context.Context, query string) ([]model.Post, error)
	ListPostsByAuthor(ctx context.Context, email string) ([]model.Post, error)
	ListPendingPosts(ctx context.Context, caller model.Identity) ([]model.Post, error)
	ListAllPosts(ctx context.Context, caller model.Identity) ([]model.Post, error)
	ApprovePost(ctx context.Context, caller model.Identity, postID uuid.UUID) error
	EditPost(ctx context.Context, caller model.Identity, postID uuid.UUID, params model.EditPostParams) (model.Post, error)
	DeletePost(ctx context.Context, caller model.Identity, postID uuid.UUID) error
}

// Posts handles the api.Posts service.
type Posts struct {
	postService    PostService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ rpc.Service = (*Posts)(nil)

// NewPosts creates a new Posts handler.
func NewPosts(postService PostService, contextManager model.ContextManager, logger *logger.Logger) *Posts {
	return &Posts{
		postService:    postService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Posts) ServiceName() string { return "api.Posts" }

func (h *Posts) Methods() []rpc.Method {
	return []rpc.Method{
		{Name: "ListApprovedPosts", Handler: h.ListApprovedPosts},
		{Name: "SearchPosts", Handler: h.SearchPosts},
		{Name: "GetPost", Handler: h.GetPost},
		{Name: "CreatePost", Handler: h.CreatePost},
		{Name: "ListMyPosts", Handler: h.ListMyPosts},
		{Name: "ListPendingPosts", Handler: h.ListPendingPosts},
		{Name: "ListAllPosts", Handler: h.ListAllPosts},
		{Name: "ApprovePost", Handler: h.ApprovePost},
		{Name: "EditPost", Handler: h.EditPost},
		{Name: "DeletePost", Handler: h.DeletePost},
	}
}

func (h *Posts) caller(ctx context.Context) model.Identity {
	identity, _ := h.contextManager.GetIdentityFromContext(ctx)
	return identity
}

func postList(posts []model.Post) (*structpb.Struct, error) {
	return toStruct(map[string]any{"posts": list(posts, postFields)})
}

// ListApprovedPosts returns the public feed.
func (h *Posts) ListApprovedPosts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	posts, err := h.postService.ListApprovedPosts(ctx)
	if err != nil {
		return nil, fail(h.logger, "Posts handler: failed to list approved posts", err)
	}
	return postList(posts)
}

// SearchPosts filters the public feed by title or description.
func (h *Posts) SearchPosts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	query := r.String("query")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	posts, err := h.postService.SearchApprovedPosts(ctx, query)
	if err != nil {
		return nil, fail(h.logger, "Posts handler: failed to search posts", err)
	}
	return postList(posts)
}

// GetPost returns one post if the caller may see it.
func (h *Posts) GetPost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	id := r.UUID("id")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	post, err := h.postService.GetPost(ctx, h.caller(ctx), id)
	if err != nil {
		return nil, fail(h.logger, "Posts handler: failed to get post", err, "post_id", id)
	}
	return toStruct(map[string]any{"post": postFields(post)})
}

// CreatePost submits a post for moderation.
func (h *Posts) CreatePost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	params := model.CreatePostParams{
		Title:    r.String("title"),
		Desc:     r.String("desc"),
		Date:     r.String("date"),
		ImageURL: r.String("imageUrl"),
	}
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	caller := h.caller(ctx)
	post, err := h.postService.CreatePost(ctx, caller, params)
	if err != nil {
		return nil, fail(h.logger, "Posts handler: failed to create post", err, "user_id", caller.UserID)
	}
	return toStruct(map[string]any{"post": postFields(post)})
}

// ListMyPosts returns the caller's own submissions in any state.
func (h *Posts) ListMyPosts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	caller := h.caller(ctx)
	posts, err := h.postService.ListPostsByAuthor(ctx, caller.Email)
	if err != nil {
		return nil, fail(h.logger, "Posts handler: failed to list own posts", err, "user_id", caller.UserID)
	}
	return postList(posts)
}

// ListPendingPosts returns the approval queue.
func (h *Posts) ListPendingPosts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	posts, err := h.postService.ListPendingPosts(ctx, h.caller(ctx))
	if err != nil {
		return nil, fail(h.logger, "Posts handler: failed to list pending posts", err)
	}
	return postList(posts)
}

// ListAllPosts returns every post for the admin dashboard.
func (h *Posts) ListAllPosts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	posts, err := h.postService.ListAllPosts(ctx, h.caller(ctx))
	if err != nil {
		return nil, fail(h.logger, "Posts handler: failed to list all posts", err)
	}
	return postList(posts)
}

// ApprovePost publishes a pending post.
func (h *Posts) ApprovePost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	id := r.UUID("id")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	if err := h.postService.ApprovePost(ctx, h.caller(ctx), id); err != nil {
		return nil, fail(h.logger, "Posts handler: failed to approve post", err, "post_id", id)
	}
	return empty(), nil
}

// EditPost overwrites the fields present in the request.
func (h *Posts) EditPost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	id := r.UUID("id")
	params := model.EditPostParams{
		Title:    r.OptString("title"),
		Desc:     r.OptString("desc"),
		Date:     r.OptString("date"),
		ImageURL: r.OptString("imageUrl"),
	}
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	post, err := h.postService.EditPost(ctx, h.caller(ctx), id, params)
	if err != nil {
		return nil, fail(h.logger, "Posts handler: failed to edit post", err, "post_id", id)
	}
	return toStruct(map[string]any{"post": postFields(post)})
}

// DeletePost removes a post. Authors may delete their own.
func (h *Posts) DeletePost(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	r := rpc.NewReader(req)
	id := r.UUID("id")
	if err := r.Err(); err != nil {
		return nil, handleError(err)
	}

	if err := h.postService.DeletePost(ctx, h.caller(ctx), id); err != nil {
		return nil, fail(h.logger, "Posts handler: failed to delete post", err, "post_id", id)
	}
	return empty(), nil
}

package handler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcctx "github.com/dtroode/memoria-server/internal/api/grpc/context"
	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/mocks"
	"github.com/dtroode/memoria-server/internal/model"
	"github.com/dtroode/memoria-server/internal/testutil"
)

func newPostsHandler(t *testing.T) (*Posts, *mocks.PostService) {
	t.Helper()
	svc := mocks.NewPostService(t)
	return NewPosts(svc, grpcctx.NewManager(), testutil.MakeNoopLogger()), svc
}

func samplePost() model.Post {
	image := "https://img.example.com/u.png"
	return model.Post{
		ID:        uuid.New(),
		Title:     "Grandfather's shop",
		Desc:      "Opened in 1931.",
		Date:      "1931",
		ImageURL:  "https://img.example.com/shop.png",
		UserEmail: "member@example.com",
		UserName:  "Member",
		UserImage: &image,
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPosts_ListApprovedPosts(t *testing.T) {
	t.Parallel()

	h, svc := newPostsHandler(t)
	post := samplePost()
	post.Approved = true
	svc.On("ListApprovedPosts", mock.Anything).Return([]model.Post{post}, nil).Once()

	resp, err := h.ListApprovedPosts(context.Background(), &structpb.Struct{})
	require.NoError(t, err)

	posts := resp.GetFields()["posts"].GetListValue().GetValues()
	require.Len(t, posts, 1)
	fields := posts[0].GetStructValue().GetFields()
	assert.Equal(t, post.ID.String(), fields["id"].GetStringValue())
	assert.Equal(t, "member@example.com", fields["useremail"].GetStringValue())
	assert.Equal(t, "https://img.example.com/u.png", fields["userImage"].GetStringValue())
	assert.True(t, fields["approved"].GetBoolValue())
	assert.Equal(t, "2024-05-01T10:00:00Z", fields["createdAt"].GetStringValue())
}

func TestPosts_CreatePost_UsesCaller(t *testing.T) {
	t.Parallel()

	h, svc := newPostsHandler(t)
	caller := testIdentity(model.RoleUser)
	params := model.CreatePostParams{Title: "T", Desc: "D", Date: "1950", ImageURL: "https://img.example.com/x.png"}
	svc.On("CreatePost", mock.Anything, caller, params).Return(samplePost(), nil).Once()

	resp, err := h.CreatePost(asIdentity(caller), mustStruct(t, map[string]any{
		"title": "T", "desc": "D", "date": "1950", "imageUrl": "https://img.example.com/x.png",
	}))
	require.NoError(t, err)
	assert.False(t, resp.GetFields()["post"].GetStructValue().GetFields()["approved"].GetBoolValue())
}

func TestPosts_CreatePost_MissingImage(t *testing.T) {
	t.Parallel()

	h, svc := newPostsHandler(t)
	svc.On("CreatePost", mock.Anything, mock.Anything, mock.Anything).Return(model.Post{}, apierrors.NewErrMissingImage()).Once()

	_, err := h.CreatePost(asIdentity(testIdentity(model.RoleUser)), mustStruct(t, map[string]any{"title": "T"}))
	st, _ := status.FromError(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	assert.Equal(t, "image is required", st.Message())
}

func TestPosts_ListMyPosts(t *testing.T) {
	t.Parallel()

	h, svc := newPostsHandler(t)
	caller := testIdentity(model.RoleUser)
	svc.On("ListPostsByAuthor", mock.Anything, caller.Email).Return([]model.Post{samplePost(), samplePost()}, nil).Once()

	resp, err := h.ListMyPosts(asIdentity(caller), &structpb.Struct{})
	require.NoError(t, err)
	assert.Len(t, resp.GetFields()["posts"].GetListValue().GetValues(), 2)
}

func TestPosts_IDValidation(t *testing.T) {
	t.Parallel()

	h, _ := newPostsHandler(t)
	ctx := asIdentity(testIdentity(model.RoleAdmin))

	calls := map[string]func(context.Context, *structpb.Struct) (*structpb.Struct, error){
		"GetPost":     h.GetPost,
		"ApprovePost": h.ApprovePost,
		"EditPost":    h.EditPost,
		"DeletePost":  h.DeletePost,
	}
	for name, call := range calls {
		_, err := call(ctx, mustStruct(t, map[string]any{"id": "not-a-uuid"}))
		assert.Equal(t, codes.InvalidArgument, status.Code(err), name)
	}
}

func TestPosts_AdminActions(t *testing.T) {
	t.Parallel()

	h, svc := newPostsHandler(t)
	admin := testIdentity(model.RoleAdmin)
	user := testIdentity(model.RoleUser)
	id := uuid.New()
	title := "Edited"

	svc.On("ApprovePost", mock.Anything, admin, id).Return(nil).Once()
	svc.On("ApprovePost", mock.Anything, user, id).Return(apierrors.NewErrForbidden("approve posts")).Once()
	svc.On("EditPost", mock.Anything, admin, id, model.EditPostParams{Title: &title}).Return(samplePost(), nil).Once()
	svc.On("DeletePost", mock.Anything, admin, id).Return(apierrors.NewErrNotFound("post", id)).Once()
	svc.On("ListPendingPosts", mock.Anything, admin).Return(nil, apierrors.NewErrUpstreamUnavailable(errors.New("down"))).Once()
	svc.On("ListAllPosts", mock.Anything, user).Return(nil, apierrors.NewErrForbidden("list all posts")).Once()

	_, err := h.ApprovePost(asIdentity(admin), mustStruct(t, map[string]any{"id": id.String()}))
	require.NoError(t, err)

	_, err = h.ApprovePost(asIdentity(user), mustStruct(t, map[string]any{"id": id.String()}))
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.EditPost(asIdentity(admin), mustStruct(t, map[string]any{"id": id.String(), "title": "Edited", "desc": nil}))
	require.NoError(t, err)

	_, err = h.DeletePost(asIdentity(admin), mustStruct(t, map[string]any{"id": id.String()}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = h.ListPendingPosts(asIdentity(admin), &structpb.Struct{})
	assert.Equal(t, codes.Unavailable, status.Code(err))

	_, err = h.ListAllPosts(asIdentity(user), &structpb.Struct{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestPosts_GetPost_Anonymous(t *testing.T) {
	t.Parallel()

	h, svc := newPostsHandler(t)
	post := samplePost()
	svc.On("GetPost", mock.Anything, model.Identity{}, post.ID).Return(post, nil).Once()

	resp, err := h.GetPost(context.Background(), mustStruct(t, map[string]any{"id": post.ID.String()}))
	require.NoError(t, err)
	assert.Equal(t, post.Title, resp.GetFields()["post"].GetStructValue().GetFields()["title"].GetStringValue())
}

func TestPosts_SearchPosts(t *testing.T) {
	t.Parallel()

	h, svc := newPostsHandler(t)
	svc.On("SearchApprovedPosts", mock.Anything, "shop").Return([]model.Post{}, nil).Once()

	resp, err := h.SearchPosts(context.Background(), mustStruct(t, map[string]any{"query": "shop"}))
	require.NoError(t, err)
	assert.Empty(t, resp.GetFields()["posts"].GetListValue().GetValues())
}

package service

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/memoria-server/internal/apierrors"
	servermocks "github.com/dtroode/memoria-server/internal/mocks"
	"github.com/dtroode/memoria-server/internal/model"
	"github.com/dtroode/memoria-server/internal/testutil"
)

type postFixture struct {
	svc    *Post
	posts  *memPostStore
	users  *memUserStore
	admin  model.Identity
	author model.Identity
	other  model.Identity
}

func newPostFixture(t *testing.T, maxDesc int) postFixture {
	t.Helper()
	admin := testUser("admin@example.com", model.RoleAdmin)
	author := testUser("author@example.com", model.RoleUser)
	author.Image = ptr("https://img.example.com/author.png")
	other := testUser("other@example.com", model.RoleUser)

	users := newMemUserStore(admin, author, other)
	posts := &memPostStore{}
	return postFixture{
		svc:    NewPost(posts, users, maxDesc, testutil.MakeNoopLogger()),
		posts:  posts,
		users:  users,
		admin:  model.IdentityFromUser(admin),
		author: model.IdentityFromUser(author),
		other:  model.IdentityFromUser(other),
	}
}

func validPost() model.CreatePostParams {
	return model.CreatePostParams{
		Title:    "Our house in Jaffa",
		Desc:     "The orange trees my grandfather planted.",
		Date:     "1947-04-01",
		ImageURL: "https://img.example.com/house.png",
	}
}

func TestPost_CreatePost_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, 0)

	created, err := f.svc.CreatePost(ctx, f.author, validPost())
	require.NoError(t, err)
	assert.False(t, created.Approved)

	mine, err := f.svc.ListPostsByAuthor(ctx, strings.ToUpper(f.author.Email))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	got := mine[0]
	assert.Equal(t, created.ID, got.ID)
	assert.False(t, got.Approved)
	assert.Equal(t, f.author.Email, got.UserEmail)
	assert.Equal(t, f.author.Name, got.UserName)
	assert.Equal(t, f.author.Image, got.UserImage)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestPost_CreatePost_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*model.CreatePostParams)
		wantErr error
	}{
		{name: "missing image", mutate: func(p *model.CreatePostParams) { p.ImageURL = "" }, wantErr: apierrors.ErrMissingImage},
		{name: "blank image", mutate: func(p *model.CreatePostParams) { p.ImageURL = "   " }, wantErr: apierrors.ErrMissingImage},
		{name: "missing image and long description", mutate: func(p *model.CreatePostParams) {
			p.ImageURL = ""
			p.Desc = strings.Repeat("a", 50)
		}, wantErr: apierrors.ErrMissingImage},
		{name: "description too long", mutate: func(p *model.CreatePostParams) { p.Desc = strings.Repeat("ب", 21) }, wantErr: apierrors.ErrValidation},
		{name: "missing title", mutate: func(p *model.CreatePostParams) { p.Title = "<b></b>" }, wantErr: apierrors.ErrValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newPostFixture(t, 20)
			params := validPost()
			params.Desc = "short"
			tt.mutate(&params)

			_, err := f.svc.CreatePost(ctx, f.author, params)
			require.ErrorIs(t, err, tt.wantErr)

			all, _ := f.posts.ListAll(ctx)
			assert.Empty(t, all)
		})
	}
}

func TestPost_CreatePost_DescriptionBoundIsExact(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, 10)

	params := validPost()
	params.Desc = strings.Repeat("é", 10)
	created, err := f.svc.CreatePost(ctx, f.author, params)
	require.NoError(t, err)
	assert.Equal(t, 10, utf8.RuneCountInString(created.Desc))

	params.Desc = strings.Repeat("é", 11)
	_, err = f.svc.CreatePost(ctx, f.author, params)
	require.ErrorIs(t, err, apierrors.ErrValidation)

	all, _ := f.posts.ListAll(ctx)
	for _, p := range all {
		assert.LessOrEqual(t, utf8.RuneCountInString(p.Desc), 10)
	}
}

func TestPost_CreatePost_StripsMarkup(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, 0)

	params := validPost()
	params.Title = `<script>alert(1)</script>Tom & Jerry`
	params.Desc = `<a href="javascript:x">link</a> text`
	created, err := f.svc.CreatePost(ctx, f.author, params)
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry", created.Title)
	assert.Equal(t, "link text", created.Desc)

	params.Desc = "x<y>z"
	created, err = f.svc.CreatePost(ctx, f.author, params)
	require.NoError(t, err)
	assert.Equal(t, "xz", created.Desc)
}

func TestPost_CreatePost_Anonymous(t *testing.T) {
	f := newPostFixture(t, 0)
	_, err := f.svc.CreatePost(context.Background(), model.Identity{}, validPost())
	require.ErrorIs(t, err, apierrors.ErrForbidden)
}

func TestPost_ApprovedFeedNeverShowsPending(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, 0)

	var ids []uuid.UUID
	for i := 0; i < 6; i++ {
		p, err := f.svc.CreatePost(ctx, f.author, validPost())
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	steps := []func() error{
		func() error { return f.svc.ApprovePost(ctx, f.admin, ids[0]) },
		func() error { return f.svc.ApprovePost(ctx, f.admin, ids[0]) },
		func() error { return f.svc.ApprovePost(ctx, f.admin, ids[2]) },
		func() error { return f.svc.DeletePost(ctx, f.author, ids[2]) },
		func() error { return f.svc.ApprovePost(ctx, f.admin, ids[4]) },
		func() error { return f.svc.DeletePost(ctx, f.admin, ids[1]) },
		func() error { return f.svc.ApprovePost(ctx, f.other, ids[3]) },
	}
	for i, step := range steps {
		err := step()
		if i == len(steps)-1 {
			require.ErrorIs(t, err, apierrors.ErrForbidden)
		} else {
			require.NoError(t, err)
		}

		feed, err := f.svc.ListApprovedPosts(ctx)
		require.NoError(t, err)
		for _, p := range feed {
			assert.True(t, p.Approved)
		}
	}

	feed, err := f.svc.ListApprovedPosts(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{ids[0], ids[4]}, []uuid.UUID{feed[0].ID, feed[1].ID})

	pending, err := f.svc.ListPendingPosts(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestPost_ApprovePost(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, 0)

	p, err := f.svc.CreatePost(ctx, f.author, validPost())
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.ApprovePost(ctx, f.author, p.ID), apierrors.ErrForbidden)
	require.NoError(t, f.svc.ApprovePost(ctx, f.admin, p.ID))
	require.NoError(t, f.svc.ApprovePost(ctx, f.admin, p.ID))
	require.ErrorIs(t, f.svc.ApprovePost(ctx, f.admin, uuid.New()), apierrors.ErrNotFound)
}

func TestPost_EditPost(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, 30)

	params := validPost()
	params.Desc = "short"
	p, err := f.svc.CreatePost(ctx, f.author, params)
	require.NoError(t, err)

	_, err = f.svc.EditPost(ctx, f.author, p.ID, model.EditPostParams{Title: ptr("mine")})
	require.ErrorIs(t, err, apierrors.ErrForbidden)

	_, err = f.svc.EditPost(ctx, f.admin, uuid.New(), model.EditPostParams{Title: ptr("x")})
	require.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = f.svc.EditPost(ctx, f.admin, p.ID, model.EditPostParams{Desc: ptr(strings.Repeat("x", 31))})
	require.ErrorIs(t, err, apierrors.ErrValidation)

	_, err = f.svc.EditPost(ctx, f.admin, p.ID, model.EditPostParams{ImageURL: ptr("")})
	require.ErrorIs(t, err, apierrors.ErrMissingImage)

	edited, err := f.svc.EditPost(ctx, f.admin, p.ID, model.EditPostParams{
		Title: ptr("Renamed"),
		Date:  ptr("1948"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", edited.Title)
	assert.Equal(t, "1948", edited.Date)
	assert.Equal(t, p.Desc, edited.Desc)
	assert.Equal(t, p.ImageURL, edited.ImageURL)
	assert.Equal(t, p.UserEmail, edited.UserEmail)
	assert.False(t, edited.UpdatedAt.Before(p.UpdatedAt))
}

func TestPost_DeletePost(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, 0)

	p1, err := f.svc.CreatePost(ctx, f.author, validPost())
	require.NoError(t, err)
	p2, err := f.svc.CreatePost(ctx, f.author, validPost())
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.DeletePost(ctx, f.other, p1.ID), apierrors.ErrForbidden)

	upper := f.author
	upper.Email = strings.ToUpper(upper.Email)
	require.NoError(t, f.svc.DeletePost(ctx, upper, p1.ID))
	require.NoError(t, f.svc.DeletePost(ctx, f.admin, p2.ID))
	require.ErrorIs(t, f.svc.DeletePost(ctx, f.admin, p2.ID), apierrors.ErrNotFound)
}

func TestPost_GetPost_Visibility(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, 0)

	p, err := f.svc.CreatePost(ctx, f.author, validPost())
	require.NoError(t, err)

	_, err = f.svc.GetPost(ctx, model.Identity{}, p.ID)
	require.ErrorIs(t, err, apierrors.ErrNotFound)
	_, err = f.svc.GetPost(ctx, f.other, p.ID)
	require.ErrorIs(t, err, apierrors.ErrNotFound)

	got, err := f.svc.GetPost(ctx, f.author, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	_, err = f.svc.GetPost(ctx, f.admin, p.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.ApprovePost(ctx, f.admin, p.ID))
	_, err = f.svc.GetPost(ctx, model.Identity{}, p.ID)
	require.NoError(t, err)
}

func TestPost_SearchApprovedPosts(t *testing.T) {
	ctx := context.Background()
	f := newPostFixture(t, 0)

	titles := []string{"Haifa port", "Nablus soap", "Old Haifa market"}
	for _, title := range titles {
		params := validPost()
		params.Title = title
		p, err := f.svc.CreatePost(ctx, f.author, params)
		require.NoError(t, err)
		require.NoError(t, f.svc.ApprovePost(ctx, f.admin, p.ID))
	}

	all, err := f.svc.SearchApprovedPosts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	haifa, err := f.svc.SearchApprovedPosts(ctx, "haifa")
	require.NoError(t, err)
	require.Len(t, haifa, 2)
	assert.Equal(t, "Haifa port", haifa[0].Title)

	none, err := f.svc.SearchApprovedPosts(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPost_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	posts := servermocks.NewPostStore(t)
	users := servermocks.NewUserStore(t)
	svc := NewPost(posts, users, 0, testutil.MakeNoopLogger())

	posts.On("ListApproved", mock.Anything).Return(nil, assert.AnError).Once()
	posts.On("Create", mock.Anything, mock.Anything).Return(model.Post{}, assert.AnError).Once()
	users.On("GetByID", mock.Anything, mock.Anything).Return(model.User{}, assert.AnError).Once()

	_, err := svc.ListApprovedPosts(ctx)
	require.ErrorIs(t, err, apierrors.ErrUpstreamUnavailable)

	_, err = svc.CreatePost(ctx, model.Identity{UserID: uuid.New(), Email: "a@example.com"}, validPost())
	require.ErrorIs(t, err, apierrors.ErrUpstreamUnavailable)

	_, err = svc.ListPendingPosts(ctx, model.Identity{UserID: uuid.New()})
	require.ErrorIs(t, err, apierrors.ErrUpstreamUnavailable)
}

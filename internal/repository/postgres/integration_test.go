//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/memoria-server/internal/model"
	repo "github.com/dtroode/memoria-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "memoria_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/memoria_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func connect(t *testing.T) *repo.Connection {
	t.Helper()
	conn, err := repo.NewConection(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func newUser(email string, role model.Role) model.User {
	now := time.Now().UTC()
	return model.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      "Test User",
		Provider:  model.ProviderCredentials,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	ur := repo.NewUserRepository(connect(t))

	u := newUser("User@Example.com", model.RoleUser)
	saved, err := ur.Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, u.ID, saved.ID)
	require.Equal(t, "user@example.com", saved.Email)

	_, err = ur.Create(ctx, newUser("user@example.com", model.RoleUser))
	require.ErrorIs(t, err, model.ErrAlreadyExists)

	byEmail, err := ur.GetByEmail(ctx, "USER@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	byID, err := ur.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, model.RoleUser, byID.Role)

	_, err = ur.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, model.ErrNotFound)

	t.Run("upsert federated keeps role", func(t *testing.T) {
		img := "https://img.example.com/a.png"
		fed := newUser("fed@example.com", model.RoleUser)
		fed.Provider = "google"
		fed.Image = &img
		first, err := ur.UpsertFederated(ctx, fed)
		require.NoError(t, err)

		_, err = ur.SetRole(ctx, first.ID, model.RoleAdmin, time.Now())
		require.NoError(t, err)

		again := newUser("fed@example.com", model.RoleUser)
		again.Provider = "facebook"
		again.Name = "Renamed"
		second, err := ur.UpsertFederated(ctx, again)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Renamed", second.Name)
		assert.Equal(t, model.RoleAdmin, second.Role)
		assert.Equal(t, "google", second.Provider)
		assert.Nil(t, second.Image)
	})

	users, err := ur.List(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(users), 2)
}

func TestUserRepository_LastAdminGuard(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)

	_, err := conn.Exec(ctx, `UPDATE users SET role = 'user'`)
	require.NoError(t, err)

	a, err := ur.Create(ctx, newUser("guard-a@example.com", model.RoleAdmin))
	require.NoError(t, err)
	b, err := ur.Create(ctx, newUser("guard-b@example.com", model.RoleAdmin))
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i, id := range []uuid.UUID{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = ur.SetRole(ctx, id, model.RoleUser, time.Now())
		}(i, id)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			require.ErrorIs(t, err, model.ErrLastAdmin)
			failures++
		}
	}
	require.Equal(t, 1, failures)

	users, err := ur.List(ctx)
	require.NoError(t, err)
	var remaining model.User
	admins := 0
	for _, u := range users {
		if u.IsAdmin() {
			admins++
			remaining = u
		}
	}
	require.Equal(t, 1, admins)

	require.ErrorIs(t, ur.Delete(ctx, remaining.ID), model.ErrLastAdmin)
	require.ErrorIs(t, ur.Delete(ctx, uuid.New()), model.ErrNotFound)

	plain, err := ur.Create(ctx, newUser("guard-c@example.com", model.RoleUser))
	require.NoError(t, err)
	require.NoError(t, ur.Delete(ctx, plain.ID))
	_, err = ur.GetByID(ctx, plain.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestPostRepository(t *testing.T) {
	ctx := context.Background()
	pr := repo.NewPostRepository(connect(t))

	now := time.Now().UTC()
	p := model.Post{
		ID:        uuid.New(),
		Title:     "Olive harvest",
		Desc:      "Grandmother's grove",
		Date:      "2001-10-01",
		ImageURL:  "https://img.example.com/p.png",
		UserEmail: "author@example.com",
		UserName:  "Author",
		CreatedAt: now,
		UpdatedAt: now,
	}
	saved, err := pr.Create(ctx, p)
	require.NoError(t, err)
	require.False(t, saved.Approved)

	pending, err := pr.ListPending(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, pending)

	mine, err := pr.ListByAuthor(ctx, "AUTHOR@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	require.NoError(t, pr.Approve(ctx, p.ID))
	require.NoError(t, pr.Approve(ctx, p.ID))
	require.ErrorIs(t, pr.Approve(ctx, uuid.New()), model.ErrNotFound)

	approved, err := pr.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, approved, 1)

	saved.Title = "Olive harvest, 2001"
	saved.UpdatedAt = time.Now().UTC()
	updated, err := pr.Update(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "Olive harvest, 2001", updated.Title)
	assert.True(t, updated.Approved)

	_, err = pr.Update(ctx, model.Post{ID: uuid.New()})
	require.ErrorIs(t, err, model.ErrNotFound)

	all, err := pr.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, pr.Delete(ctx, p.ID))
	require.ErrorIs(t, pr.Delete(ctx, p.ID), model.ErrNotFound)
	_, err = pr.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestTimelineRepository(t *testing.T) {
	ctx := context.Background()
	tr := repo.NewTimelineRepository(connect(t))

	month := 7
	base := time.Now().UTC()
	for i, ev := range []model.TimelineEvent{
		{Year: 2006, Title: "bare"},
		{Year: 2006, Month: &month, Title: "july"},
		{Year: 2000, Title: "earlier"},
	} {
		ev.ID = uuid.New()
		ev.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		ev.UpdatedAt = ev.CreatedAt
		_, err := tr.Create(ctx, ev)
		require.NoError(t, err)
	}

	events, err := tr.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	model.SortEvents(events)
	assert.Equal(t, []string{"earlier", "bare", "july"},
		[]string{events[0].Title, events[1].Title, events[2].Title})

	ev := events[1]
	ev.Day = &month
	ev.UpdatedAt = time.Now().UTC()
	updated, err := tr.Update(ctx, ev)
	require.NoError(t, err)
	require.NotNil(t, updated.Day)

	require.NoError(t, tr.Delete(ctx, ev.ID))
	require.ErrorIs(t, tr.Delete(ctx, ev.ID), model.ErrNotFound)
	_, err = tr.GetByID(ctx, ev.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestRefreshTokenRepository(t *testing.T) {
	ctx := context.Background()
	conn := connect(t)
	ur := repo.NewUserRepository(conn)
	rr := repo.NewRefreshTokenRepository(conn)

	u, err := ur.Create(ctx, newUser("tokens@example.com", model.RoleUser))
	require.NoError(t, err)

	now := time.Now().UTC()
	rt := model.RefreshToken{
		JTI:       uuid.NewString(),
		UserID:    u.ID,
		TokenHash: []byte("hash"),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, rr.Create(ctx, rt))

	got, err := rr.GetByJTI(ctx, rt.JTI)
	require.NoError(t, err)
	require.Nil(t, got.RevokedAt)

	consumable := model.RefreshToken{
		JTI:       uuid.NewString(),
		UserID:    u.ID,
		TokenHash: []byte("rotate"),
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, rr.Create(ctx, consumable))
	require.NoError(t, rr.ConsumeByJTI(ctx, consumable.JTI))
	require.ErrorIs(t, rr.ConsumeByJTI(ctx, consumable.JTI), model.ErrTokenRevoked)
	require.ErrorIs(t, rr.ConsumeByJTI(ctx, "missing"), model.ErrTokenRevoked)

	require.NoError(t, rr.RevokeAllByUser(ctx, u.ID))
	got, err = rr.GetByJTI(ctx, rt.JTI)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)

	_, err = rr.GetByJTI(ctx, "missing")
	require.ErrorIs(t, err, model.ErrNotFound)

	expired := model.RefreshToken{
		JTI:       uuid.NewString(),
		UserID:    u.ID,
		TokenHash: []byte("old"),
		IssuedAt:  now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}
	require.NoError(t, rr.Create(ctx, expired))

	n, err := rr.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, int64(1))

	_, err = rr.GetByJTI(ctx, expired.JTI)
	require.ErrorIs(t, err, model.ErrNotFound)
	_, err = rr.GetByJTI(ctx, rt.JTI)
	require.NoError(t, err)
}

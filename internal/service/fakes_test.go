package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/memoria-server/internal/model"
)

// memUserStore is an in-memory UserStore enforcing the last-admin rule
// under a single lock, like the transactional Postgres implementation.
type memUserStore struct {
	mu    sync.Mutex
	order []uuid.UUID
	users map[uuid.UUID]model.User
}

func newMemUserStore(users ...model.User) *memUserStore {
	s := &memUserStore{users: map[uuid.UUID]model.User{}}
	for _, u := range users {
		s.put(u)
	}
	return s
}

func (s *memUserStore) put(u model.User) {
	if _, ok := s.users[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	s.users[u.ID] = u
}

func (s *memUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == model.NormalizeEmail(email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *memUserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out, nil
}

func (s *memUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = model.NormalizeEmail(user.Email)
	for _, u := range s.users {
		if u.Email == user.Email {
			return model.User{}, model.ErrAlreadyExists
		}
	}
	s.put(user)
	return user, nil
}

func (s *memUserStore) UpsertFederated(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.Email = model.NormalizeEmail(user.Email)
	for id, u := range s.users {
		if u.Email == user.Email {
			u.Name = user.Name
			u.Image = user.Image
			u.UpdatedAt = user.UpdatedAt
			s.users[id] = u
			return u, nil
		}
	}
	s.put(user)
	return user, nil
}

func (s *memUserStore) admins() int {
	n := 0
	for _, u := range s.users {
		if u.IsAdmin() {
			n++
		}
	}
	return n
}

func (s *memUserStore) SetRole(_ context.Context, id uuid.UUID, role model.Role, updatedAt time.Time) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	if u.IsAdmin() && role != model.RoleAdmin && s.admins() <= 1 {
		return model.User{}, model.ErrLastAdmin
	}
	u.Role = role
	u.UpdatedAt = updatedAt
	s.users[id] = u
	return u, nil
}

func (s *memUserStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrNotFound
	}
	if u.IsAdmin() && s.admins() <= 1 {
		return model.ErrLastAdmin
	}
	delete(s.users, id)
	s.order = slices.DeleteFunc(s.order, func(v uuid.UUID) bool { return v == id })
	return nil
}

// memPostStore is an in-memory PostStore keeping insertion order.
type memPostStore struct {
	mu    sync.Mutex
	posts []model.Post
}

func (s *memPostStore) index(id uuid.UUID) int {
	return slices.IndexFunc(s.posts, func(p model.Post) bool { return p.ID == id })
}

func (s *memPostStore) Create(_ context.Context, post model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, post)
	return post, nil
}

func (s *memPostStore) GetByID(_ context.Context, id uuid.UUID) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return model.Post{}, model.ErrNotFound
	}
	return s.posts[i], nil
}

func (s *memPostStore) filter(keep func(model.Post) bool) []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *memPostStore) ListApproved(_ context.Context) ([]model.Post, error) {
	return s.filter(func(p model.Post) bool { return p.Approved }), nil
}

func (s *memPostStore) ListPending(_ context.Context) ([]model.Post, error) {
	return s.filter(func(p model.Post) bool { return !p.Approved }), nil
}

func (s *memPostStore) ListAll(_ context.Context) ([]model.Post, error) {
	return s.filter(func(model.Post) bool { return true }), nil
}

func (s *memPostStore) ListByAuthor(_ context.Context, email string) ([]model.Post, error) {
	return s.filter(func(p model.Post) bool { return strings.EqualFold(p.UserEmail, email) }), nil
}

func (s *memPostStore) Approve(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return model.ErrNotFound
	}
	s.posts[i].Approved = true
	return nil
}

func (s *memPostStore) Update(_ context.Context, post model.Post) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(post.ID)
	if i < 0 {
		return model.Post{}, model.ErrNotFound
	}
	stored := s.posts[i]
	stored.Title = post.Title
	stored.Desc = post.Desc
	stored.Date = post.Date
	stored.ImageURL = post.ImageURL
	stored.UpdatedAt = post.UpdatedAt
	s.posts[i] = stored
	return stored, nil
}

func (s *memPostStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return model.ErrNotFound
	}
	s.posts = slices.Delete(s.posts, i, i+1)
	return nil
}

// memTimelineStore is an in-memory TimelineStore returning insertion order.
type memTimelineStore struct {
	mu     sync.Mutex
	events []model.TimelineEvent
}

func (s *memTimelineStore) index(id uuid.UUID) int {
	return slices.IndexFunc(s.events, func(e model.TimelineEvent) bool { return e.ID == id })
}

func (s *memTimelineStore) Create(_ context.Context, event model.TimelineEvent) (model.TimelineEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return event, nil
}

func (s *memTimelineStore) GetByID(_ context.Context, id uuid.UUID) (model.TimelineEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return model.TimelineEvent{}, model.ErrNotFound
	}
	return s.events[i], nil
}

func (s *memTimelineStore) List(_ context.Context) ([]model.TimelineEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events), nil
}

func (s *memTimelineStore) Update(_ context.Context, event model.TimelineEvent) (model.TimelineEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(event.ID)
	if i < 0 {
		return model.TimelineEvent{}, model.ErrNotFound
	}
	s.events[i] = event
	return event, nil
}

func (s *memTimelineStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return model.ErrNotFound
	}
	s.events = slices.Delete(s.events, i, i+1)
	return nil
}

// memRefreshTokenStore is an in-memory RefreshTokenStore. When readers is
// set, GetByJTI holds every caller until all of them have read the record.
type memRefreshTokenStore struct {
	mu      sync.Mutex
	tokens  map[string]model.RefreshToken
	readers *sync.WaitGroup
}

func newMemRefreshTokenStore() *memRefreshTokenStore {
	return &memRefreshTokenStore{tokens: map[string]model.RefreshToken{}}
}

func (s *memRefreshTokenStore) Create(_ context.Context, token model.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.JTI] = token
	return nil
}

func (s *memRefreshTokenStore) GetByJTI(_ context.Context, jti string) (model.RefreshToken, error) {
	s.mu.Lock()
	token, ok := s.tokens[jti]
	s.mu.Unlock()

	if s.readers != nil {
		s.readers.Done()
		s.readers.Wait()
	}
	if !ok {
		return model.RefreshToken{}, model.ErrNotFound
	}
	return token, nil
}

func (s *memRefreshTokenStore) revoke(keep func(model.RefreshToken) bool) int {
	now := time.Now()
	n := 0
	for jti, token := range s.tokens {
		if token.RevokedAt == nil && keep(token) {
			token.RevokedAt = &now
			s.tokens[jti] = token
			n++
		}
	}
	return n
}

func (s *memRefreshTokenStore) RevokeByJTI(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoke(func(t model.RefreshToken) bool { return t.JTI == jti })
	return nil
}

func (s *memRefreshTokenStore) ConsumeByJTI(_ context.Context, jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revoke(func(t model.RefreshToken) bool { return t.JTI == jti }) == 0 {
		return model.ErrTokenRevoked
	}
	return nil
}

func (s *memRefreshTokenStore) RevokeAllByUser(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoke(func(t model.RefreshToken) bool { return t.UserID == userID })
	return nil
}

func (s *memRefreshTokenStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for jti, token := range s.tokens {
		if token.ExpiresAt.Before(before) {
			delete(s.tokens, jti)
			n++
		}
	}
	return n, nil
}

func testUser(email string, role model.Role) model.User {
	now := time.Now()
	return model.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      strings.Split(email, "@")[0],
		Provider:  model.ProviderCredentials,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ptr[T any](v T) *T {
	return &v
}

package model

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is a user's authorization level.
type Role string

const (
	// RoleUser is the default role of every new account.
	RoleUser Role = "user"
	// RoleAdmin may moderate posts, curate the timeline and manage users.
	RoleAdmin Role = "admin"
)

// ParseRole converts a raw value into a known Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// ProviderCredentials marks accounts created through email/password registration.
const ProviderCredentials = "credentials"

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, user User) (User, error)
	// UpsertFederated inserts the user or refreshes name, image and updated_at
	// of the existing record with the same email. Role and provider are kept.
	UpsertFederated(ctx context.Context, user User) (User, error)
	// SetRole returns ErrLastAdmin when the change would demote the only admin.
	SetRole(ctx context.Context, id uuid.UUID, role Role, updatedAt time.Time) (User, error)
	// Delete returns ErrLastAdmin when the user is the only admin.
	Delete(ctx context.Context, id uuid.UUID) error
}

// User represents a stored account.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Image        *string
	PasswordHash *string
	Provider     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the stored role is admin.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPassword reports whether the account can sign in with credentials.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// NormalizeEmail lowercases and trims an email for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FederatedClaims are the verified profile claims returned by an identity provider.
type FederatedClaims struct {
	Provider          string
	ProviderAccountID string
	Email             string
	Name              string
	Image             string
}

// Identity is the resolved caller carried by a session.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Name   string
	Image  *string
	Role   Role
}

// IdentityFromUser builds the session identity for a stored user.
func IdentityFromUser(u User) Identity {
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	return Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Image:  u.Image,
		Role:   role,
	}
}

// IsAdmin reports whether the identity's claimed role is admin. Mutating
// operations re-check the role against the store instead of trusting this.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// RegisterParams contains input for credential registration.
type RegisterParams struct {
	Email    string
	Name     string
	Password string
}

// SessionResult is returned on successful sign-in.
type SessionResult struct {
	Identity     Identity
	AccessToken  string
	RefreshToken string
}

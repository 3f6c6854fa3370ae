package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/memoria-server/internal/apierrors"
	"github.com/dtroode/memoria-server/internal/auth"
	"github.com/dtroode/memoria-server/internal/logger"
	"github.com/dtroode/memoria-server/internal/model"
)

// Auth resolves credentials and federated claims into identities and sessions.
type Auth struct {
	userStore    model.UserStore
	tokenService *TokenService
	hasher       PasswordHasher
	adminSecret  string
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	tokenService *TokenService,
	hasher PasswordHasher,
	adminSecret string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenService: tokenService,
		hasher:       hasher,
		adminSecret:  adminSecret,
		logger:       logger,
		now:          time.Now,
	}
}

// ResolveFederated signs in a user verified by an external provider. The
// user is created on first sign-in; later sign-ins refresh name and image
// and leave role and provider untouched.
func (a *Auth) ResolveFederated(ctx context.Context, claims model.FederatedClaims) (model.SessionResult, error) {
	email := model.NormalizeEmail(claims.Email)
	if err := auth.ValidateEmail(email); err != nil {
		a.logger.Info("Auth service: provider returned no usable email",
			"provider", claims.Provider)
		return model.SessionResult{}, apierrors.NewErrValidation("provider %s did not return a valid email", claims.Provider)
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	var image *string
	if claims.Image != "" {
		image = &claims.Image
	}

	now := a.now()
	user, err := a.userStore.UpsertFederated(ctx, model.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		Image:     image,
		Provider:  claims.Provider,
		Role:      model.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to upsert federated user",
			"provider", claims.Provider,
			"error", err.Error())
		return model.SessionResult{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to upsert federated user: %w", err))
	}

	a.logger.Info("Auth service: federated sign-in",
		"user_id", user.ID,
		"provider", claims.Provider)

	return a.startSession(ctx, user)
}

// Login signs in with email and password.
func (a *Auth) Login(ctx context.Context, email, password string) (model.SessionResult, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return model.SessionResult{}, apierrors.NewErrInvalidCredentials()
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: login for unknown email")
		return model.SessionResult{}, apierrors.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"error", err.Error())
		return model.SessionResult{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to get user by email: %w", err))
	}

	if !user.HasPassword() {
		a.logger.Info("Auth service: password login against federated account",
			"user_id", user.ID,
			"provider", user.Provider)
		return model.SessionResult{}, apierrors.NewErrUseProvider(providerName(user.Provider))
	}

	ok, err := a.hasher.Verify(password, *user.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"user_id", user.ID,
			"error", err.Error())
		return model.SessionResult{}, apierrors.NewErrInvalidCredentials()
	}
	if !ok {
		a.logger.Info("Auth service: wrong password",
			"user_id", user.ID)
		return model.SessionResult{}, apierrors.NewErrInvalidCredentials()
	}

	a.logger.Info("Auth service: credential sign-in",
		"user_id", user.ID)

	return a.startSession(ctx, user)
}

// Register creates a credential account with the user role.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.Identity, error) {
	return a.createCredentialUser(ctx, params, model.RoleUser)
}

// CreateAdmin bootstraps a credential account with the admin role. It
// requires the configured admin secret.
func (a *Auth) CreateAdmin(ctx context.Context, secret string, params model.RegisterParams) (model.Identity, error) {
	if !secretMatches(a.adminSecret, secret) {
		a.logger.Warn("Auth service: admin bootstrap rejected")
		return model.Identity{}, apierrors.NewErrForbidden("create admin accounts")
	}

	return a.createCredentialUser(ctx, params, model.RoleAdmin)
}

// Me returns the caller as currently stored.
func (a *Auth) Me(ctx context.Context, caller model.Identity) (model.Identity, error) {
	user, err := a.userStore.GetByID(ctx, caller.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Identity{}, apierrors.NewErrNotFound("user", caller.UserID)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by id",
			"user_id", caller.UserID,
			"error", err.Error())
		return model.Identity{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to get user by id: %w", err))
	}

	return model.IdentityFromUser(user), nil
}

func (a *Auth) createCredentialUser(ctx context.Context, params model.RegisterParams, role model.Role) (model.Identity, error) {
	email := model.NormalizeEmail(params.Email)
	name := strings.TrimSpace(params.Name)

	if email == "" || name == "" || params.Password == "" {
		return model.Identity{}, apierrors.NewErrValidation("email, name and password are required")
	}
	if err := auth.ValidateEmail(email); err != nil {
		return model.Identity{}, apierrors.NewErrValidation("%s", err.Error())
	}
	if err := auth.ValidateName(name); err != nil {
		return model.Identity{}, apierrors.NewErrValidation("%s", err.Error())
	}
	if err := auth.ValidatePassword(params.Password); err != nil {
		return model.Identity{}, apierrors.NewErrValidation("%s", err.Error())
	}

	_, err := a.userStore.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists")
		return model.Identity{}, apierrors.NewErrEmailIsTaken(email)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"error", err.Error())
		return model.Identity{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to get user by email: %w", err))
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to hash password",
			"error", err.Error())
		return model.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: &hash,
		Provider:     model.ProviderCredentials,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return model.Identity{}, apierrors.NewErrEmailIsTaken(email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"error", err.Error())
		return model.Identity{}, apierrors.NewErrUpstreamUnavailable(fmt.Errorf("failed to create user: %w", err))
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID,
		"role", user.Role)

	return model.IdentityFromUser(user), nil
}

func (a *Auth) startSession(ctx context.Context, user model.User) (model.SessionResult, error) {
	identity := model.IdentityFromUser(user)

	access, refresh, err := a.tokenService.Issue(ctx, identity)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens",
			"user_id", user.ID,
			"error", err.Error())
		return model.SessionResult{}, apierrors.NewErrUpstreamUnavailable(err)
	}

	return model.SessionResult{
		Identity:     identity,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// providerName returns a display name for the provider a federated account
// must sign in with.
func providerName(provider string) string {
	switch strings.ToLower(provider) {
	case "google":
		return "Google"
	case "facebook":
		return "Facebook"
	case "", model.ProviderCredentials:
		return "your identity provider"
	}
	return provider
}

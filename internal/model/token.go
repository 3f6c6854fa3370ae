package model

import "github.com/google/uuid"

// TokenManager signs and parses the two token kinds. Access tokens carry
// the full identity; refresh tokens carry only the user ID and a unique JTI.
type TokenManager interface {
	GenerateAccessToken(identity Identity) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (token string, jti string, err error)
	ParseAccessToken(token string) (Identity, error)
	ParseRefreshToken(token string) (userID uuid.UUID, jti string, err error)
}

// Authenticator resolves a bearer access token into the caller's identity.
type Authenticator interface {
	Authenticate(token string) (Identity, error)
}

// Package apierrors defines the typed failures returned to API callers.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
)

// Kind classifies an APIError.
type Kind string

const (
	KindInvalidCredentials  Kind = "invalid_credentials"
	KindMissingImage        Kind = "missing_image"
	KindValidation          Kind = "validation_error"
	KindForbidden           Kind = "forbidden"
	KindLastAdminGuard      Kind = "last_admin_guard"
	KindNotFound            Kind = "not_found"
	KindAlreadyExists       Kind = "already_exists"
	KindUnauthenticated     Kind = "unauthenticated"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
)

// APIError is a failure safe to show to the caller.
type APIError struct {
	Kind       Kind
	GRPCCode   codes.Code
	HTTPStatus int
	Message    string
	cause      error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for logging.
func (e *APIError) Unwrap() error {
	return e.cause
}

// WithCause attaches an internal cause that is kept out of the message.
func (e *APIError) WithCause(err error) *APIError {
	e.cause = err
	return e
}

// Is matches any APIError of the same kind, so callers can write
// errors.Is(err, apierrors.ErrForbidden).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrInvalidCredentials  = &APIError{Kind: KindInvalidCredentials}
	ErrMissingImage        = &APIError{Kind: KindMissingImage}
	ErrValidation          = &APIError{Kind: KindValidation}
	ErrForbidden           = &APIError{Kind: KindForbidden}
	ErrLastAdminGuard      = &APIError{Kind: KindLastAdminGuard}
	ErrNotFound            = &APIError{Kind: KindNotFound}
	ErrAlreadyExists       = &APIError{Kind: KindAlreadyExists}
	ErrUnauthenticated     = &APIError{Kind: KindUnauthenticated}
	ErrUpstreamUnavailable = &APIError{Kind: KindUpstreamUnavailable}
)

// As extracts an APIError from an error chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func newErr(kind Kind, grpcCode codes.Code, httpStatus int, msg string) *APIError {
	return &APIError{Kind: kind, GRPCCode: grpcCode, HTTPStatus: httpStatus, Message: msg}
}

// NewErrInvalidCredentials reports a bad email/password pair.
func NewErrInvalidCredentials() *APIError {
	return newErr(KindInvalidCredentials, codes.Unauthenticated, http.StatusUnauthorized,
		"invalid email or password")
}

// NewErrUseProvider reports a password attempt against an account that only
// signs in through a federated provider.
func NewErrUseProvider(provider string) *APIError {
	return newErr(KindInvalidCredentials, codes.Unauthenticated, http.StatusUnauthorized,
		fmt.Sprintf("this account has no password, sign in with %s instead", provider))
}

// NewErrMissingImage reports a post submitted without an image.
func NewErrMissingImage() *APIError {
	return newErr(KindMissingImage, codes.InvalidArgument, http.StatusBadRequest, "image is required")
}

// NewErrValidation reports invalid or out-of-bounds input.
func NewErrValidation(format string, args ...any) *APIError {
	return newErr(KindValidation, codes.InvalidArgument, http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// NewErrForbidden reports a caller lacking the required role or ownership.
func NewErrForbidden(action string) *APIError {
	return newErr(KindForbidden, codes.PermissionDenied, http.StatusForbidden,
		fmt.Sprintf("not allowed to %s", action))
}

// NewErrLastAdminGuard reports an attempt to demote or delete the only admin.
func NewErrLastAdminGuard() *APIError {
	return newErr(KindLastAdminGuard, codes.FailedPrecondition, http.StatusConflict,
		"cannot demote or delete the last admin")
}

// NewErrNotFound reports a missing entity.
func NewErrNotFound(entity string, id fmt.Stringer) *APIError {
	return newErr(KindNotFound, codes.NotFound, http.StatusNotFound,
		fmt.Sprintf("%s %s not found", entity, id))
}

// NewErrEmailIsTaken reports a registration with an existing email.
func NewErrEmailIsTaken(email string) *APIError {
	return newErr(KindAlreadyExists, codes.AlreadyExists, http.StatusConflict,
		fmt.Sprintf("email %s is already taken", email))
}

// NewErrMissingAuthorizationToken reports a protected call without a token.
func NewErrMissingAuthorizationToken() *APIError {
	return newErr(KindUnauthenticated, codes.Unauthenticated, http.StatusUnauthorized,
		"missing authorization token")
}

// NewErrInvalidAuthorizationToken reports an expired or malformed token.
func NewErrInvalidAuthorizationToken() *APIError {
	return newErr(KindUnauthenticated, codes.Unauthenticated, http.StatusUnauthorized,
		"invalid authorization token")
}

// NewErrUpstreamUnavailable hides a store or provider failure behind a generic message.
func NewErrUpstreamUnavailable(cause error) *APIError {
	e := newErr(KindUpstreamUnavailable, codes.Unavailable, http.StatusServiceUnavailable,
		"service temporarily unavailable")
	e.cause = cause
	return e
}

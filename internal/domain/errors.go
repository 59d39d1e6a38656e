package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAccountExists   = errors.New("account already exists")
)

// AuthorizationError is a login rejection with a reason that is safe to show the caller.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

func NewAuthorizationError(reason string) error {
	return &AuthorizationError{Reason: reason}
}

// ErrUpstreamUnavailable wraps transport failures talking to the hosted service.
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

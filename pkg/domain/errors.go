package domain

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by single-key store reads when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// ErrMalformedUser is returned when a persisted or received user record cannot be decoded.
var ErrMalformedUser = errors.New("malformed user record")

// ErrMissingToken is returned when a sign-in response carries no token.
var ErrMissingToken = errors.New("session response has no token")

// ErrMissingUser is returned when a sign-in response carries no user.
var ErrMissingUser = errors.New("session response has no user")

// ErrMalformedResponse is returned by API clients when a 2xx body cannot be decoded.
var ErrMalformedResponse = errors.New("malformed response body")

// AuthErrorKind classifies sign-in failures so the presentation layer can branch on them.
type AuthErrorKind string

const (
	KindRequestFailed     AuthErrorKind = "request_failed"     // Network or HTTP failure
	KindMalformedResponse AuthErrorKind = "malformed_response" // 2xx without token or user
	KindPersistenceWrite  AuthErrorKind = "persistence_write"  // Logged in, but not remembered
)

// AuthError is the typed error returned by sign-in.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return "auth: " + string(e.Kind)
	}
	return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches another *AuthError by Kind, so errors.Is(err, &AuthError{Kind: KindRequestFailed}) works.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

// IsAuthErrorKind reports whether err is an *AuthError of the given kind.
func IsAuthErrorKind(err error, kind AuthErrorKind) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == kind
}

// RestoreErrorKind classifies failures during the startup restore.
type RestoreErrorKind string

const (
	RestoreStoreUnavailable  RestoreErrorKind = "store-unavailable"
	RestoreMalformedUserJSON RestoreErrorKind = "malformed-user-json"
)

// RestoreError describes why a persisted session could not be restored.
// It is logged, never returned to consumers.
type RestoreError struct {
	Kind RestoreErrorKind
	Err  error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restore: %s: %v", e.Kind, e.Err)
}

func (e *RestoreError) Unwrap() error {
	return e.Err
}

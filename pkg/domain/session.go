package domain

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credentials is the input of a sign-in. It is never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the durable proof of authentication.
type Session struct {
	Token string
	User  UserProfile
}

// SessionResponse is the body of a successful POST /sessions.
// User is a pointer so a missing field can be told apart from an empty object.
type SessionResponse struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// Validate checks that the response carries everything a session needs.
func (r SessionResponse) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return ErrMissingToken
	}
	if r.User == nil {
		return ErrMissingUser
	}
	return nil
}

// TokenClaims is the subset of the session token the client can read.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// Claims reads the subject and expiry of a JWT session token without verifying it.
// The client has no key to verify with; the values are informational only.
func (s Session) Claims() (TokenClaims, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return TokenClaims{}, err
	}

	out := TokenClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// Expired reports whether the token carries an expiry that lies before now.
// Tokens that are not JWTs never expire from the client's point of view.
func (s Session) Expired(now time.Time) bool {
	claims, err := s.Claims()
	if err != nil || claims.ExpiresAt.IsZero() {
		return false
	}
	return now.After(claims.ExpiresAt)
}

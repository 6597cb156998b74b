// Package auth decides whether a request's Authorization header is allowed
// through. Token checking is pluggable so the placeholder rules the dashboard
// uses today can be swapped for signed tokens without touching callers.
package auth

import (
	"context"
	"strings"
	"time"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

const BearerPrefix = "Bearer "

// Identity is what a verified token says about its holder. UserID is zero
// when the token does not name a user.
type Identity struct {
	UserID  int64
	Subject string
	Role    string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

type TokenIssuer interface {
	Issue(user domain.User) (token string, expiresAt time.Time, err error)
}

// Tokens both issues and verifies one kind of token.
type Tokens interface {
	TokenVerifier
	TokenIssuer
}

type Gate struct {
	verifier TokenVerifier
}

func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

// Authenticate checks a raw Authorization header value. The scheme prefix is
// matched exactly, including case and the single space.
func (g *Gate) Authenticate(ctx context.Context, header string) (Identity, error) {
	if header == "" {
		return Identity{}, domain.ErrMissingAuthToken
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return Identity{}, domain.ErrInvalidTokenFormat
	}

	identity, err := g.verifier.Verify(ctx, header[len(BearerPrefix):])
	if err != nil {
		return Identity{}, domain.ErrInvalidToken
	}
	return identity, nil
}

package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

const (
	placeholderLiteral    = "valid_token"
	placeholderUserMarker = "user_"
	placeholderMockPrefix = "mock-jwt-token-"
	placeholderDefaultTTL = 8 * time.Hour
)

// PlaceholderTokens accepts tokens by shape only. There is no signature, so
// anyone who knows the shapes gets through; use JWTTokens outside demos.
type PlaceholderTokens struct {
	ttl time.Duration
}

func NewPlaceholderTokens(ttl time.Duration) *PlaceholderTokens {
	if ttl <= 0 {
		ttl = placeholderDefaultTTL
	}
	return &PlaceholderTokens{ttl: ttl}
}

func (p *PlaceholderTokens) Verify(_ context.Context, token string) (Identity, error) {
	switch {
	case strings.HasPrefix(token, placeholderMockPrefix):
		identity := Identity{Subject: token, Role: "user"}
		if id, err := strconv.ParseInt(token[len(placeholderMockPrefix):], 10, 64); err == nil && id > 0 {
			identity.UserID = id
		}
		return identity, nil
	case token == placeholderLiteral, strings.Contains(token, placeholderUserMarker):
		return Identity{Subject: token, Role: "user"}, nil
	default:
		return Identity{}, domain.ErrInvalidToken
	}
}

// Issue returns mock-jwt-token-{id}. The expiry is informational; Verify
// never enforces it.
func (p *PlaceholderTokens) Issue(user domain.User) (string, time.Time, error) {
	if user.ID < 1 {
		return "", time.Time{}, fmt.Errorf("cannot issue token for user id %d", user.ID)
	}
	return fmt.Sprintf("%s%d", placeholderMockPrefix, user.ID), time.Now().UTC().Add(p.ttl), nil
}

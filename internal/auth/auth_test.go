package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

func TestGateAuthenticate(t *testing.T) {
	gate := NewGate(NewPlaceholderTokens(time.Hour))
	ctx := context.Background()

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"mock jwt token", "Bearer mock-jwt-token-1", nil},
		{"literal valid token", "Bearer valid_token", nil},
		{"user marker anywhere", "Bearer abc_user_42", nil},
		{"unknown token", "Bearer bogus", domain.ErrInvalidToken},
		{"empty token", "Bearer ", domain.ErrInvalidToken},
		{"missing header", "", domain.ErrMissingAuthToken},
		{"other scheme", "Token abc", domain.ErrInvalidTokenFormat},
		{"lowercase scheme", "bearer valid_token", domain.ErrInvalidTokenFormat},
		{"no space", "Bearervalid_token", domain.ErrInvalidTokenFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gate.Authenticate(ctx, tt.header)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGateKeepsExtraSpaceInToken(t *testing.T) {
	gate := NewGate(NewPlaceholderTokens(time.Hour))

	// the extra space becomes part of the token, which no rule accepts
	_, err := gate.Authenticate(context.Background(), "Bearer  bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestPlaceholderIdentityCarriesNumericUserID(t *testing.T) {
	tokens := NewPlaceholderTokens(time.Hour)
	ctx := context.Background()

	identity, err := tokens.Verify(ctx, "mock-jwt-token-7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), identity.UserID)

	identity, err = tokens.Verify(ctx, "mock-jwt-token-abc")
	require.NoError(t, err)
	assert.Zero(t, identity.UserID)

	identity, err = tokens.Verify(ctx, "valid_token")
	require.NoError(t, err)
	assert.Zero(t, identity.UserID)
}

func TestPlaceholderIssueRoundTrip(t *testing.T) {
	tokens := NewPlaceholderTokens(time.Hour)

	token, expiresAt, err := tokens.Issue(domain.User{ID: 3})
	require.NoError(t, err)
	assert.Equal(t, "mock-jwt-token-3", token)
	assert.True(t, expiresAt.After(time.Now()))

	identity, err := tokens.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), identity.UserID)
}

func TestJWTTokensRoundTrip(t *testing.T) {
	tokens := NewJWTTokens("0123456789abcdef0123456789abcdef", time.Hour)

	token, _, err := tokens.Issue(domain.User{ID: 12, Role: "admin"})
	require.NoError(t, err)

	identity, err := NewGate(tokens).Authenticate(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, int64(12), identity.UserID)
	assert.Equal(t, "admin", identity.Role)
}

func TestJWTTokensRejectForeignSignatureAndExpiry(t *testing.T) {
	issuer := NewJWTTokens("0123456789abcdef0123456789abcdef", time.Hour)
	other := NewJWTTokens("fedcba9876543210fedcba9876543210", time.Hour)

	token, _, err := issuer.Issue(domain.User{ID: 1, Role: "user"})
	require.NoError(t, err)

	_, err = other.Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = issuer.Verify(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTTokensRejectPlaceholderShapes(t *testing.T) {
	tokens := NewJWTTokens("0123456789abcdef0123456789abcdef", time.Hour)

	_, err := tokens.Verify(context.Background(), "mock-jwt-token-1")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

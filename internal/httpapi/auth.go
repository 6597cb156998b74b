package httpapi

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtarqui/project-ci-cd-sub000/internal/auth"
	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
	"github.com/dtarqui/project-ci-cd-sub000/internal/store"
)

type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error
}

// AuthManager checks credentials and hands out tokens from the configured
// issuer.
type AuthManager struct {
	users  UserStore
	tokens auth.TokenIssuer
}

func NewAuthManager(users UserStore, tokens auth.TokenIssuer) *AuthManager {
	return &AuthManager{users: users, tokens: tokens}
}

func (a *AuthManager) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || strings.TrimSpace(req.Password) == "" {
		return domain.LoginResponse{}, fmt.Errorf("%w: email and password are required", domain.ErrMissingFields)
	}

	user, err := a.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.LoginResponse{}, err
	}

	if !a.checkPassword(ctx, user, req.Password) {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := a.tokens.Issue(*user)
	if err != nil {
		return domain.LoginResponse{}, err
	}

	return domain.LoginResponse{
		Token:     token,
		User:      *user,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// checkPassword accepts bcrypt hashes and, for accounts that still store a
// plain-text password, upgrades the stored value to bcrypt after a match.
func (a *AuthManager) checkPassword(ctx context.Context, user *domain.User, input string) bool {
	if isPasswordHash(user.PasswordHash) {
		return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input)) == nil
	}
	if user.PasswordHash == "" || subtle.ConstantTimeCompare([]byte(user.PasswordHash), []byte(input)) != 1 {
		return false
	}

	hashed, err := hashPassword(input)
	if err != nil {
		log.Printf("[auth] WARN: failed to hash legacy password user=%d: %v", user.ID, err)
		return true
	}
	if err := a.users.UpdateUserPassword(ctx, user.ID, hashed); err != nil {
		log.Printf("[auth] WARN: failed to upgrade legacy password user=%d: %v", user.ID, err)
	}
	return true
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	if !a.loginLimiter.Allow(clientKey(r)) {
		writeErrorCode(w, http.StatusTooManyRequests, codeTooManyAttempts, "too many login attempts")
		return
	}

	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := a.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, resp, "Login successful")
}

// handleLogout acknowledges the request; tokens carry no server-side session.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "Logged out")
}

// handleMe resolves the token to a stored user. Tokens that name no user, or a
// user that no longer exists, are rejected as invalid.
func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	identity, err := a.gate.Authenticate(r.Context(), r.Header.Get("Authorization"))
	if err != nil {
		writeError(w, err)
		return
	}
	if identity.UserID < 1 {
		writeError(w, domain.ErrInvalidToken)
		return
	}

	user, err := a.service.GetUser(r.Context(), identity.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		writeError(w, domain.ErrInvalidToken)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, user, "")
}

package store

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dtarqui/project-ci-cd-sub000/internal/domain"
)

// SeedUsers builds the dashboard accounts for a fresh store. Passwords come
// from SEED_ADMIN_PASSWORD and SEED_DEMO_PASSWORD, with dev defaults.
func SeedUsers(now time.Time) ([]domain.User, error) {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	demoPwd := envOr("SEED_DEMO_PASSWORD", "demo123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_DEMO_PASSWORD") == "" {
		log.Println("[store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_DEMO_PASSWORD to override.")
	}

	users := make([]domain.User, 0, 2)
	for i, u := range []struct {
		name     string
		email    string
		password string
		role     string
	}{
		{"Admin User", "admin@example.com", adminPwd, "admin"},
		{"Demo User", "demo@example.com", demoPwd, "user"},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password for %s: %w", u.email, err)
		}
		users = append(users, domain.User{
			ID:           int64(i + 1),
			Name:         u.name,
			Email:        u.email,
			Role:         u.role,
			PasswordHash: string(hash),
			CreatedAt:    now,
		})
	}
	return users, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package store

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestSeedUsersHashesConfiguredPasswords(t *testing.T) {
	t.Setenv("SEED_ADMIN_PASSWORD", "admin-from-env")
	t.Setenv("SEED_DEMO_PASSWORD", "")

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	users, err := SeedUsers(now)
	if err != nil {
		t.Fatalf("seed users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 seed users, got %d", len(users))
	}

	admin, demo := users[0], users[1]
	if admin.Email != "admin@example.com" || admin.Role != "admin" || admin.ID != 1 {
		t.Fatalf("unexpected admin %+v", admin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin-from-env")); err != nil {
		t.Fatalf("admin hash does not match env password: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(demo.PasswordHash), []byte("demo123")); err != nil {
		t.Fatalf("demo hash does not match default password: %v", err)
	}
	if !admin.CreatedAt.Equal(now) {
		t.Fatalf("expected created at %v, got %v", now, admin.CreatedAt)
	}
}

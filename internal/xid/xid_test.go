package xid

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewHasPrefixAndUUID(t *testing.T) {
	id := New("req")
	if !strings.HasPrefix(id, "req-") {
		t.Fatalf("expected req- prefix, got %q", id)
	}
	if _, err := uuid.Parse(strings.TrimPrefix(id, "req-")); err != nil {
		t.Fatalf("expected uuid suffix in %q: %v", id, err)
	}
	if New("req") == id {
		t.Fatalf("expected distinct ids")
	}
}

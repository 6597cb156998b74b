package xid

import (
	"fmt"

	"github.com/google/uuid"
)

// New returns prefix-<uuid v4>, used for request correlation ids.
func New(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}

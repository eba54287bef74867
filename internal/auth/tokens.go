package auth

import (
	"strings"

	"github.com/google/uuid"
)

// NewOpaqueToken mints the single-use token carried in confirmation and
// password-reset links. uuid v4 draws from crypto/rand, so collisions are
// negligible at any plausible account volume.
func NewOpaqueToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 12

// MaxLength is the longest password bcrypt will accept, in bytes.
const MaxLength = 72

// ErrInvalidHashFormat means the stored hash is not a bcrypt hash.
var ErrInvalidHashFormat = errors.New("invalid password hash format")

// Hasher hashes passwords with a fixed bcrypt cost. Each call to Hash draws a
// fresh random salt, which bcrypt embeds in the returned string.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher. A cost outside bcrypt's bounds falls back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
// an error is returned only when hash cannot be parsed.
func (h *Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidHashFormat, err)
	}
}

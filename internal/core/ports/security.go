package ports

import (
	"context"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

// PasswordHasher produces and checks salted password digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// TokenVerifier decodes and checks a presented session token.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// TokenIssuer mints and verifies session tokens.
type TokenIssuer interface {
	TokenVerifier
	Issue(userID, email string, role domain.Role) (string, error)
}

// LoginThrottle limits failed login attempts per account.
type LoginThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
	Fail(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuditSink accepts audit events for asynchronous persistence.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

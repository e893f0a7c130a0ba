package ports

import (
	"context"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

// UserRepository defines the credential store. Emails passed in are already
// normalized; implementations must enforce email uniqueness.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	SetActive(ctx context.Context, id string, active bool) error
	Ping(ctx context.Context) error
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

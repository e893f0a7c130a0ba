package ports

import (
	"context"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

// RegisterInput carries a self-registration request. Role is optional.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// AuthResult is returned by successful login and registration.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// UserService covers administrator-level identity operations.
type UserService interface {
	Get(ctx context.Context, id string) (*domain.User, error)
	ChangeRole(ctx context.Context, actor domain.Claims, id string, role domain.Role) (*domain.User, error)
	Deactivate(ctx context.Context, actor domain.Claims, id string) (*domain.User, error)
}

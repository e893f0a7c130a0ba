package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/core/ports"
)

// UserService implements administrator-level identity operations.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	audit  ports.AuditSink
	log    zerolog.Logger
}

// NewUserService returns a UserService. audit may be nil.
func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, audit ports.AuditSink, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, audit: audit, log: log}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ChangeRole sets a user's role. Administrators cannot change their own role.
func (s *UserService) ChangeRole(ctx context.Context, actor domain.Claims, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError("role must be one of: admin hr manager employee")
	}
	if actor.UserID == id {
		return nil, domain.ErrSelfModification
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	recordAudit(s.audit, domain.AuditEvent{
		Action:  domain.AuditRoleChange,
		Actor:   actor.Email,
		UserID:  id,
		Outcome: domain.OutcomeSuccess,
		Detail:  "role=" + string(role),
	})
	s.log.Info().Str("user_id", id).Str("role", string(role)).Str("by", actor.UserID).Msg("role changed")
	return user, nil
}

// Deactivate soft-deletes a user. Tokens already issued stay valid until
// they expire.
func (s *UserService) Deactivate(ctx context.Context, actor domain.Claims, id string) (*domain.User, error) {
	if actor.UserID == id {
		return nil, domain.ErrSelfModification
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	recordAudit(s.audit, domain.AuditEvent{
		Action:  domain.AuditDeactivate,
		Actor:   actor.Email,
		UserID:  id,
		Outcome: domain.OutcomeSuccess,
	})
	s.log.Info().Str("user_id", id).Str("by", actor.UserID).Msg("user deactivated")
	return user, nil
}

// CreateUser provisions an identity with any role. It backs operator tooling,
// not self-registration.
func (s *UserService) CreateUser(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	problems := validateIdentity(email, password, name)
	if !role.Valid() {
		problems = append(problems, "role must be one of: admin hr manager employee")
	}
	if len(problems) > 0 {
		return nil, domain.NewValidationError(problems...)
	}
	return createUser(ctx, s.repo, s.hasher, email, password, name, role)
}

// EnsureAdmin creates an administrator with the given credentials unless an
// identity with that email already exists. It reports whether one was created.
func (s *UserService) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	existing, err := s.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			s.log.Warn().Str("user_id", existing.ID).Msg("bootstrap admin email belongs to a non-admin user")
		}
		return false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return false, fmt.Errorf("check bootstrap admin: %w", err)
	}

	user, err := s.CreateUser(ctx, email, password, name, domain.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("create bootstrap admin: %w", err)
	}

	recordAudit(s.audit, domain.AuditEvent{
		Action:  domain.AuditBootstrap,
		Actor:   "system",
		UserID:  user.ID,
		Outcome: domain.OutcomeSuccess,
	})
	s.log.Info().Str("user_id", user.ID).Msg("bootstrap admin created")
	return true, nil
}

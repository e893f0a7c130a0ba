package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peoplehub/hrms-api/internal/pkg/metrics"
	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/core/ports"
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt input limit, in bytes
)

// AuthOptions carries the optional collaborators of AuthService.
type AuthOptions struct {
	// Throttle limits failed logins per account. Nil disables throttling.
	Throttle ports.LoginThrottle
	// Audit receives identity lifecycle events. Nil disables auditing.
	Audit ports.AuditSink
	// AllowRoleOnRegister lets self-registration pick any role. When false,
	// registrations naming a role other than the default are rejected.
	AllowRoleOnRegister bool
}

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	opts   AuthOptions
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenIssuer, log zerolog.Logger, opts AuthOptions) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		opts:   opts,
		log:    log,
	}
}

// Register creates an identity and returns a session token for it.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	role := domain.DefaultRole
	problems := validateIdentity(in.Email, in.Password, in.Name)
	if strings.TrimSpace(in.Role) != "" {
		parsed, err := domain.ParseRole(in.Role)
		switch {
		case err != nil:
			problems = append(problems, "role must be one of: admin hr manager employee")
		case parsed != domain.DefaultRole && !s.opts.AllowRoleOnRegister:
			problems = append(problems, "role cannot be chosen at registration")
		default:
			role = parsed
		}
	}
	if len(problems) > 0 {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.NewValidationError(problems...)
	}

	user, err := createUser(ctx, s.repo, s.hasher, in.Email, in.Password, in.Name, role)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("exists").Inc()
			recordAudit(s.opts.Audit, domain.AuditEvent{
				Action:  domain.AuditRegister,
				Actor:   domain.NormalizeEmail(in.Email),
				Outcome: domain.OutcomeFailure,
				Detail:  "email already registered",
			})
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	recordAudit(s.opts.Audit, domain.AuditEvent{
		Action:  domain.AuditRegister,
		Actor:   user.Email,
		UserID:  user.ID,
		Outcome: domain.OutcomeSuccess,
		Detail:  "role=" + string(user.Role),
	})
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user registered")

	return &ports.AuthResult{Token: token, User: user}, nil
}

// Login checks credentials and returns a session token. Every credential
// failure, including unknown and deactivated accounts, yields the same
// ErrInvalidCredentials so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if s.opts.Throttle != nil {
		allowed, err := s.opts.Throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.spendHash(password)
			return nil, s.loginFailed(ctx, email, "", "unknown email")
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: user %s: %w", user.ID, err)
	}
	if !ok {
		return nil, s.loginFailed(ctx, email, user.ID, "wrong password")
	}
	if !user.Active {
		return nil, s.loginFailed(ctx, email, user.ID, "account inactive")
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if s.opts.Throttle != nil {
		if err := s.opts.Throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	recordAudit(s.opts.Audit, domain.AuditEvent{
		Action:  domain.AuditLogin,
		Actor:   user.Email,
		UserID:  user.ID,
		Outcome: domain.OutcomeSuccess,
	})

	return &ports.AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email, userID, reason string) error {
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	if s.opts.Throttle != nil {
		if err := s.opts.Throttle.Fail(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to record login failure")
		}
	}
	recordAudit(s.opts.Audit, domain.AuditEvent{
		Action:  domain.AuditLogin,
		Actor:   email,
		UserID:  userID,
		Outcome: domain.OutcomeFailure,
		Detail:  reason,
	})
	s.log.Info().Str("reason", reason).Msg("login rejected")
	return domain.ErrInvalidCredentials
}

// spendHash runs one verification against a throwaway hash so that a login
// for an unknown email costs as much as one with a wrong password.
func (s *AuthService) spendHash(password string) {
	s.dummyOnce.Do(func() {
		b := make([]byte, 16)
		_, _ = rand.Read(b)
		h, err := s.hasher.Hash(hex.EncodeToString(b))
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to prepare dummy hash")
			return
		}
		s.dummyHash = h
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

// validateIdentity returns one message per invalid field.
func validateIdentity(email, password, name string) []string {
	var problems []string
	email = domain.NormalizeEmail(email)
	switch {
	case email == "":
		problems = append(problems, "email is required")
	case !looksLikeEmail(email):
		problems = append(problems, "email must be a valid email")
	}
	switch {
	case password == "":
		problems = append(problems, "password is required")
	case len(password) < minPasswordLength:
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	case len(password) > maxPasswordLength:
		problems = append(problems, fmt.Sprintf("password must be at most %d bytes", maxPasswordLength))
	}
	if strings.TrimSpace(name) == "" {
		problems = append(problems, "name is required")
	}
	return problems
}

func looksLikeEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t\r\n")
}

// createUser hashes the password and persists a new active identity.
func createUser(ctx context.Context, repo ports.UserRepository, hasher ports.PasswordHasher, email, password, name string, role domain.Role) (*domain.User, error) {
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        domain.NormalizeEmail(email),
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func recordAudit(sink ports.AuditSink, event domain.AuditEvent) {
	if sink == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	sink.Record(event)
}

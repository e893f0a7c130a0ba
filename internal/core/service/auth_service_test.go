package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/core/ports"
	"github.com/peoplehub/hrms-api/internal/pkg/password"
	"github.com/peoplehub/hrms-api/internal/pkg/token"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	nextID  int
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = "u-" + strconv.Itoa(r.nextID)
	r.byID[copy.ID] = copy
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = active
	return nil
}

func (r *stubUserRepo) Ping(context.Context) error { return nil }

type stubThrottle struct {
	limit    int
	failures map[string]int
	resets   int
}

func newStubThrottle(limit int) *stubThrottle {
	return &stubThrottle{limit: limit, failures: make(map[string]int)}
}

func (t *stubThrottle) Allow(_ context.Context, email string) (bool, error) {
	return t.failures[email] < t.limit, nil
}

func (t *stubThrottle) Fail(_ context.Context, email string) error {
	t.failures[email]++
	return nil
}

func (t *stubThrottle) Reset(_ context.Context, email string) error {
	delete(t.failures, email)
	t.resets++
	return nil
}

type stubAudit struct {
	events []domain.AuditEvent
}

func (a *stubAudit) Record(e domain.AuditEvent) { a.events = append(a.events, e) }

func (a *stubAudit) last() domain.AuditEvent {
	if len(a.events) == 0 {
		return domain.AuditEvent{}
	}
	return a.events[len(a.events)-1]
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	iss, err := token.NewIssuer("secret", "hrms-test", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func newAuthSvc(t *testing.T, repo ports.UserRepository, opts AuthOptions) *AuthService {
	t.Helper()
	return NewAuthService(repo, password.NewHasher(bcrypt.MinCost), newTestIssuer(t), zerolog.Nop(), opts)
}

func register(t *testing.T, svc *AuthService, email, pw, name, role string) *ports.AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), ports.RegisterInput{Email: email, Password: pw, Name: name, Role: role})
	if err != nil {
		t.Fatalf("Register(%s) error: %v", email, err)
	}
	return res
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_DefaultsToEmployee(t *testing.T) {
	repo := newStubUserRepo()
	audit := &stubAudit{}
	svc := newAuthSvc(t, repo, AuthOptions{Audit: audit})

	res := register(t, svc, "A@X.com", "secret1", "A", "")

	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.User.Role != domain.RoleEmployee {
		t.Fatalf("expected default role employee, got %s", res.User.Role)
	}
	if res.User.Email != "a@x.com" {
		t.Fatalf("expected normalized email, got %s", res.User.Email)
	}
	if !res.User.Active {
		t.Fatalf("new users must be active")
	}
	if res.User.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	claims, err := newTestIssuer(t).Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != res.User.ID || claims.Role != domain.RoleEmployee || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if ev := audit.last(); ev.Action != domain.AuditRegister || ev.Outcome != domain.OutcomeSuccess || ev.ID == "" {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestAuthService_Register_ExplicitRole(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), AuthOptions{AllowRoleOnRegister: true})

	res := register(t, svc, "hr@x.com", "secret1", "H", "HR")
	if res.User.Role != domain.RoleHR {
		t.Fatalf("expected hr role, got %s", res.User.Role)
	}
}

func TestAuthService_Register_RoleGate(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), AuthOptions{AllowRoleOnRegister: false})

	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "x@x.com", Password: "secret1", Name: "X", Role: "admin"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	res := register(t, svc, "y@x.com", "secret1", "Y", "employee")
	if res.User.Role != domain.RoleEmployee {
		t.Fatalf("explicit default role must still be accepted")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), AuthOptions{AllowRoleOnRegister: true})

	cases := []struct {
		name string
		in   ports.RegisterInput
		want int
	}{
		{"empty", ports.RegisterInput{}, 3},
		{"short password", ports.RegisterInput{Email: "a@x.com", Password: "12345", Name: "A"}, 1},
		{"bad email", ports.RegisterInput{Email: "not-an-email", Password: "secret1", Name: "A"}, 1},
		{"free text role", ports.RegisterInput{Email: "a@x.com", Password: "secret1", Name: "A", Role: "ceo"}, 1},
		{"long password", ports.RegisterInput{Email: "a@x.com", Password: string(make([]byte, 73)), Name: "A"}, 1},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.in)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if len(ve.Problems) != tc.want {
			t.Fatalf("%s: expected %d problems, got %v", tc.name, tc.want, ve.Problems)
		}
	}
}

func TestAuthService_Register_DuplicateIsCaseInsensitive(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), AuthOptions{})

	register(t, svc, "bob@x.com", "secret1", "Bob", "")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "BOB@x.com", Password: "secret2", Name: "Bob"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle(5)
	svc := newAuthSvc(t, repo, AuthOptions{Throttle: throttle, AllowRoleOnRegister: true})

	register(t, svc, "carol@x.com", "s3cret!", "Carol", "admin")

	res, err := svc.Login(context.Background(), " Carol@X.com ", "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" || res.User.Email != "carol@x.com" {
		t.Fatalf("unexpected result: %+v", res)
	}
	claims, err := newTestIssuer(t).Verify(res.Token)
	if err != nil || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims %+v (err %v)", claims, err)
	}
	if throttle.resets != 1 {
		t.Fatalf("expected throttle reset on success")
	}
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, AuthOptions{})
	register(t, svc, "dave@x.com", "goodpass", "Dave", "")

	_, wrongPw := svc.Login(context.Background(), "dave@x.com", "badpass")
	_, unknown := svc.Login(context.Background(), "ghost@x.com", "badpass")

	if !errors.Is(wrongPw, domain.ErrInvalidCredentials) || !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", wrongPw, unknown)
	}
	if wrongPw.Error() != unknown.Error() {
		t.Fatalf("error messages must not reveal whether the email exists")
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(t, repo, AuthOptions{})
	res := register(t, svc, "erin@x.com", "secret1", "Erin", "")
	_ = repo.SetActive(context.Background(), res.User.ID, false)

	if _, err := svc.Login(context.Background(), "erin@x.com", "secret1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for inactive user, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	throttle := newStubThrottle(2)
	audit := &stubAudit{}
	svc := newAuthSvc(t, repo, AuthOptions{Throttle: throttle, Audit: audit})
	register(t, svc, "fay@x.com", "secret1", "Fay", "")

	for i := 0; i < 2; i++ {
		if _, err := svc.Login(context.Background(), "fay@x.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := svc.Login(context.Background(), "fay@x.com", "secret1"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if ev := audit.last(); ev.Action != domain.AuditLogin || ev.Outcome != domain.OutcomeFailure {
		t.Fatalf("expected failed login audit, got %+v", ev)
	}
}

func TestAuthService_Login_StoreError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc := newAuthSvc(t, repo, AuthOptions{})

	_, err := svc.Login(context.Background(), "a@x.com", "secret1")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("store failures must surface as internal errors, got %v", err)
	}
}

func TestAuthService_Login_MalformedStoredHash(t *testing.T) {
	repo := newStubUserRepo()
	_, _ = repo.Create(context.Background(), &domain.User{Email: "g@x.com", PasswordHash: "plain", Role: domain.RoleEmployee, Active: true})
	svc := newAuthSvc(t, repo, AuthOptions{})

	_, err := svc.Login(context.Background(), "g@x.com", "plain")
	if !errors.Is(err, password.ErrInvalidHashFormat) {
		t.Fatalf("expected ErrInvalidHashFormat, got %v", err)
	}
}

func TestAuthService_Login_EmptyInput(t *testing.T) {
	svc := newAuthSvc(t, newStubUserRepo(), AuthOptions{})

	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hrms-api/internal/api/middleware"
	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn    func(ctx context.Context, email, password string) (*ports.AuthResult, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withClaims(c echo.Context, claims domain.Claims) {
	req := c.Request()
	c.SetRequest(req.WithContext(middleware.WithClaims(req.Context(), claims)))
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Email != "ana@example.com" || in.Name != "Ana" || in.Role != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.AuthResult{
				Token: "tok",
				User:  &domain.User{ID: "u-1", Email: in.Email, Name: in.Name, Role: domain.RoleEmployee},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/register", `{"email":"ana@example.com","password":"secret1","name":"Ana"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok" {
		t.Fatalf("expected token in response, got %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["id"] != "u-1" || user["role"] != "employee" || user["email"] != "ana@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must never be serialized")
	}
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("service must not be called for invalid input")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/register", `{"email":"not-an-email","password":"123"}`)
	err := handler.Register(c)

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(ve.Problems) != 3 {
		t.Fatalf("expected 3 problems (email, password, name), got %v", ve.Problems)
	}
}

func TestAuthHandler_Register_MalformedBody(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPost, "/register", `{"email":`)
	var ve *domain.ValidationError
	if err := handler.Register(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for malformed body, got %v", err)
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/register", `{"email":"ana@example.com","password":"secret1","name":"Ana"}`)
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "ana@example.com" || password != "secret1" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &ports.AuthResult{
				Token: "tok",
				User:  &domain.User{ID: "u-1", Email: email, Name: "Ana", Role: domain.RoleHR},
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/login", `{"email":"ana@example.com","password":"secret1"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"role":"hr"`) {
		t.Fatalf("expected role in body, got %s", rec.Body.String())
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/login", `{"email":"ana@example.com","password":"wrong"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodPost, "/login", `{}`)
	var ve *domain.ValidationError
	if err := handler.Login(c); !errors.As(err, &ve) || len(ve.Problems) != 2 {
		t.Fatalf("expected 2 validation problems, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newJSONContext(http.MethodGet, "/me", "")
	exp := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	withClaims(c, domain.Claims{UserID: "u-1", Email: "ana@example.com", Role: domain.RoleManager, IssuedAt: exp.Add(-8 * time.Hour), ExpiresAt: exp})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		User domain.Claims `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User.UserID != "u-1" || resp.User.Role != domain.RoleManager || !resp.User.ExpiresAt.Equal(exp) {
		t.Fatalf("unexpected claims: %+v", resp.User)
	}
}

func TestAuthHandler_Me_WithoutClaims(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newJSONContext(http.MethodGet, "/me", "")
	if err := handler.Me(c); !errors.Is(err, domain.ErrAccessTokenMissing) {
		t.Fatalf("expected ErrAccessTokenMissing, got %v", err)
	}
}

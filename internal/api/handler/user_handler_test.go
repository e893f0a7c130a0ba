package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

type stubUserService struct {
	getFn        func(ctx context.Context, id string) (*domain.User, error)
	changeRoleFn func(ctx context.Context, actor domain.Claims, id string, role domain.Role) (*domain.User, error)
	deactivateFn func(ctx context.Context, actor domain.Claims, id string) (*domain.User, error)
}

func (s *stubUserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) ChangeRole(ctx context.Context, actor domain.Claims, id string, role domain.Role) (*domain.User, error) {
	return s.changeRoleFn(ctx, actor, id, role)
}

func (s *stubUserService) Deactivate(ctx context.Context, actor domain.Claims, id string) (*domain.User, error) {
	return s.deactivateFn(ctx, actor, id)
}

var adminClaims = domain.Claims{UserID: "u-admin", Email: "root@example.com", Role: domain.RoleAdmin}

func TestUserHandler_Get(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "u-7" {
				t.Fatalf("unexpected id %q", id)
			}
			return &domain.User{ID: id, Email: "e@example.com", Role: domain.RoleEmployee, Active: true, CreatedAt: created, UpdatedAt: created}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/v1/users/u-7", "")
	c.SetParamNames("id")
	c.SetParamValues("u-7")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "u-7" || resp["active"] != true || resp["created_at"] != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	stub := &stubUserService{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newJSONContext(http.MethodGet, "/v1/users/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	if err := handler.Get(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_ChangeRole(t *testing.T) {
	stub := &stubUserService{
		changeRoleFn: func(ctx context.Context, actor domain.Claims, id string, role domain.Role) (*domain.User, error) {
			if actor.UserID != adminClaims.UserID || id != "u-7" || role != domain.RoleHR {
				t.Fatalf("unexpected args: %+v %s %s", actor, id, role)
			}
			return &domain.User{ID: id, Role: role, Active: true}, nil
		},
	}
	handler := NewUserHandler(stub)

	c, rec := newJSONContext(http.MethodPatch, "/v1/users/u-7/role", `{"role":" HR "}`)
	c.SetParamNames("id")
	c.SetParamValues("u-7")
	withClaims(c, adminClaims)

	if err := handler.ChangeRole(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_ChangeRole_UnknownRole(t *testing.T) {
	stub := &stubUserService{
		changeRoleFn: func(ctx context.Context, actor domain.Claims, id string, role domain.Role) (*domain.User, error) {
			t.Fatalf("service must not be called for an unknown role")
			return nil, nil
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newJSONContext(http.MethodPatch, "/v1/users/u-7/role", `{"role":"superuser"}`)
	c.SetParamNames("id")
	c.SetParamValues("u-7")
	withClaims(c, adminClaims)

	var ve *domain.ValidationError
	if err := handler.ChangeRole(c); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserHandler_Deactivate_Self(t *testing.T) {
	stub := &stubUserService{
		deactivateFn: func(ctx context.Context, actor domain.Claims, id string) (*domain.User, error) {
			return nil, domain.ErrSelfModification
		},
	}
	handler := NewUserHandler(stub)

	c, _ := newJSONContext(http.MethodPost, "/v1/users/u-admin/deactivate", "")
	c.SetParamNames("id")
	c.SetParamValues("u-admin")
	withClaims(c, adminClaims)

	if err := handler.Deactivate(c); !errors.Is(err, domain.ErrSelfModification) {
		t.Fatalf("expected ErrSelfModification, got %v", err)
	}
}

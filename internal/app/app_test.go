package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/infrastructure/config"
)

func TestNew_MemoryStoreWithBootstrapAdmin(t *testing.T) {
	cfg := &config.Config{
		Port:        "0",
		Env:         config.EnvDevelopment,
		StoreDriver: config.DriverMemory,
		Auth: config.AuthConfig{
			JWTSecret:   "test-secret",
			TokenTTL:    time.Hour,
			TokenIssuer: "hrms-api",
			BcryptCost:  4,
		},
		Routes:    config.RoutesConfig{DefaultPolicy: "deny"},
		Bootstrap: config.BootstrapConfig{Email: "Root@Example.com", Password: "rootpass", Name: "Root"},
		Audit:     config.AuditConfig{Workers: 1},
	}

	ctx := context.Background()
	a, err := New(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(ctx)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"root@example.com","password":"rootpass"}`))
	req.Header.Set("Content-Type", "application/json")
	a.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"role":"admin"`) {
		t.Fatalf("bootstrap admin login: %d %s", rec.Code, rec.Body.String())
	}

	if _, err := a.Users().CreateUser(ctx, "emp@example.com", "secret1", "Emp", domain.RoleEmployee); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
}

func TestNew_RejectsMissingRouteTable(t *testing.T) {
	cfg := &config.Config{
		Env:         config.EnvDevelopment,
		StoreDriver: config.DriverMemory,
		Auth:        config.AuthConfig{JWTSecret: "x", TokenTTL: time.Hour, BcryptCost: 4},
		Routes:      config.RoutesConfig{DefaultPolicy: "allow", TableFile: "/nonexistent/routes.json"},
	}
	if _, err := New(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for missing route table file")
	}
}

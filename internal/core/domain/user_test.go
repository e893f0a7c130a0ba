package domain

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"admin":     RoleAdmin,
		"HR":        RoleHR,
		" manager ": RoleManager,
		"Employee":  RoleEmployee,
	}
	for in, want := range cases {
		got, err := ParseRole(in)
		if err != nil {
			t.Fatalf("ParseRole(%q) error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRole_RejectsFreeText(t *testing.T) {
	for _, in := range []string{"", "root", "superuser", "admins"} {
		if _, err := ParseRole(in); !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("ParseRole(%q): expected ErrInvalidRole, got %v", in, err)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Alice@Example.COM "); got != "alice@example.com" {
		t.Fatalf("unexpected normalized email: %q", got)
	}
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("email is required", "password is required")
	if err.Error() != "validation failed: email is required; password is required" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

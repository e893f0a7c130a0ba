package main

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"hash-password", "--cost", "4", "secret1"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")); err != nil {
		t.Fatalf("printed hash does not verify: %v", err)
	}
}

func TestCreateUserCommand_RejectsUnknownRole(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"create-user", "a@example.com", "--name", "A", "--password", "secret1", "--role", "owner"})

	if err := root.Execute(); err == nil {
		t.Fatalf("expected unknown role to be rejected")
	}
}

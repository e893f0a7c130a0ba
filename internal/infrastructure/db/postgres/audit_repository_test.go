package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

func TestAuditRepository_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS auth_audit_events").WillReturnResult(sqlmock.NewResult(0, 0))
	repo, err := NewAuditRepository(context.Background(), db)
	if err != nil {
		t.Fatalf("NewAuditRepository() error: %v", err)
	}

	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO auth_audit_events").
		WithArgs("ev-1", "login", "ana@example.com", "u1", "success", "", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Insert(context.Background(), &domain.AuditEvent{
		ID: "ev-1", Action: domain.AuditLogin, Actor: "ana@example.com",
		UserID: "u1", Outcome: domain.OutcomeSuccess, At: at,
	})
	if err != nil {
		t.Fatalf("Insert() error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

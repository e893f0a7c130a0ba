package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

type PostgresAuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(ctx context.Context, db *sql.DB) (*PostgresAuditRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	r := &PostgresAuditRepository{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresAuditRepository) ensureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS auth_audit_events (
	id TEXT PRIMARY KEY,
	action TEXT NOT NULL,
	actor TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	at TIMESTAMPTZ NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure auth_audit_events schema: %w", err)
	}
	return nil
}

// Insert stores one event. Re-inserting an event with the same ID is a no-op.
func (r *PostgresAuditRepository) Insert(ctx context.Context, ev *domain.AuditEvent) error {
	const q = `
INSERT INTO auth_audit_events (id, action, actor, user_id, outcome, detail, at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, q,
		ev.ID, string(ev.Action), ev.Actor, ev.UserID, ev.Outcome, ev.Detail, ev.At.UTC())
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

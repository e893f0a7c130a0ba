package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

const uniqueViolation = "23505"

type PostgresUserRepository struct {
	db *sql.DB
}

// NewUserRepository returns a repository over db after creating its table.
func NewUserRepository(ctx context.Context, db *sql.DB) (*PostgresUserRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	r := &PostgresUserRepository{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresUserRepository) ensureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS hr_users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure hr_users schema: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	created := *user
	created.ID = uuid.NewString()

	const q = `
INSERT INTO hr_users (id, email, name, password_hash, role, active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, q,
		created.ID, created.Email, created.Name, created.PasswordHash,
		string(created.Role), created.Active, created.CreatedAt, created.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

const selectUser = `SELECT id, email, name, password_hash, role, active, created_at, updated_at FROM hr_users`

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryOne(ctx, selectUser+` WHERE email = $1`, email)
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.queryOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	return r.exec(ctx, `UPDATE hr_users SET role = $2, updated_at = $3 WHERE id = $1`, id, string(role), time.Now().UTC())
}

func (r *PostgresUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.exec(ctx, `UPDATE hr_users SET active = $2, updated_at = $3 WHERE id = $1`, id, active, time.Now().UTC())
}

func (r *PostgresUserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *PostgresUserRepository) queryOne(ctx context.Context, q string, arg any) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func (r *PostgresUserRepository) exec(ctx context.Context, q string, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

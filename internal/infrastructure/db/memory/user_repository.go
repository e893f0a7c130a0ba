// Package memory provides process-local stores for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

// UserRepository keeps users in a map guarded by a mutex. Returned users are
// copies; mutating them does not affect the store.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	u := *user
	u.ID = uuid.NewString()
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return &u, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepository) UpdateRole(_ context.Context, id string, role domain.Role) error {
	return r.update(id, func(u *domain.User) { u.Role = role })
}

func (r *UserRepository) SetActive(_ context.Context, id string, active bool) error {
	return r.update(id, func(u *domain.User) { u.Active = active })
}

func (r *UserRepository) Ping(context.Context) error { return nil }

func (r *UserRepository) update(id string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	r.byID[id] = u
	return nil
}

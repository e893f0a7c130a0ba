package memory

import (
	"context"
	"sync"

	"github.com/peoplehub/hrms-api/internal/core/domain"
)

// AuditRepository appends audit events to a slice.
type AuditRepository struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	seen   map[string]struct{}
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{seen: make(map[string]struct{})}
}

// Insert stores one event. Re-inserting an event with the same ID is a no-op.
func (r *AuditRepository) Insert(_ context.Context, ev *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, dup := r.seen[ev.ID]; dup {
		return nil
	}
	r.seen[ev.ID] = struct{}{}
	r.events = append(r.events, *ev)
	return nil
}

// Events returns a snapshot of the stored events in insertion order.
func (r *AuditRepository) Events() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

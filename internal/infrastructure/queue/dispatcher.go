package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hrms-api/internal/pkg/metrics"
	"github.com/peoplehub/hrms-api/internal/core/domain"
	"github.com/peoplehub/hrms-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// AuditDispatcher persists audit events off the request path. Events are
// routed to a fixed set of workers by hashing their subject, so events about
// the same user are stored in the order they were recorded.
type AuditDispatcher struct {
	workers []chan domain.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAuditDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Cancelling ctx does not stop the
// workers; Close drains and stops them.
func (d *AuditDispatcher) Start(ctx context.Context) {
	base := context.WithoutCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(base, i, ch)
	}
}

// Record enqueues an event without blocking. When the worker's buffer is full
// or the dispatcher is closed the event is dropped and counted.
func (d *AuditDispatcher) Record(event domain.AuditEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		return
	}

	idx := d.shardIndex(subject(event))
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
	default:
		metrics.AuditEventsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("action", string(event.Action)).
			Int("worker_id", idx).
			Msg("audit queue full, event dropped")
	}
}

// Close stops accepting events and blocks until queued events are stored.
func (d *AuditDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// subject picks the sharding key: the affected user when known, else the actor.
func subject(ev domain.AuditEvent) string {
	if ev.UserID != "" {
		return ev.UserID
	}
	return ev.Actor
}

// shardIndex maps a key deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for event := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Dec()

		insertCtx, cancel := context.WithTimeout(ctx, insertTimeout)
		err := d.repo.Insert(insertCtx, &event)
		cancel()

		if err != nil {
			metrics.AuditEventsTotal.WithLabelValues("failed").Inc()
			d.log.Error().Err(err).
				Str("action", string(event.Action)).
				Str("user_id", event.UserID).
				Int("worker_id", id).
				Msg("audit event persistence failed")
			continue
		}
		metrics.AuditEventsTotal.WithLabelValues("stored").Inc()
	}
}

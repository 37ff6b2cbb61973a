package audit

import (
	"context"
	"time"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Publisher stamps and forwards events to the configured store. Callers
// treat failures as fail-open; the relay result is never blocked on audit.
type Publisher struct {
	store Store
}

// NewPublisher creates a Publisher over the given store.
func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// Emit appends one event, stamping the timestamp when unset.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

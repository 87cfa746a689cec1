package events

import (
	"context"
	"place-map-service/internal/domain"
	"sync"
)

// Recorder keeps published events in memory. It is used in tests and as a
// publisher when no browser channel is wired.
type Recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *Recorder) Publish(ctx context.Context, ev domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *Recorder) Events() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

// Named returns recorded events with the given name, in order.
func (r *Recorder) Named(name string) []domain.Event {
	var out []domain.Event
	for _, ev := range r.Events() {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

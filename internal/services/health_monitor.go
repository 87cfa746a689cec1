package services

import (
	"context"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/logging"
	"place-map-service/internal/ports"
	"sync"
	"time"
)

const defaultHealthInterval = 30 * time.Second

// HealthMonitor polls backend health and remembers the last status.
type HealthMonitor struct {
	backend  ports.PlaceBackend
	events   ports.EventPublisher
	interval time.Duration
	now      func() time.Time

	mu      sync.RWMutex
	status  domain.BackendStatus
	checked bool
}

func NewHealthMonitor(backend ports.PlaceBackend, events ports.EventPublisher, interval time.Duration) *HealthMonitor {
	if interval <= 0 {
		interval = defaultHealthInterval
	}
	return &HealthMonitor{
		backend:  backend,
		events:   events,
		interval: interval,
		now:      time.Now,
		status:   domain.BackendStatus{Message: domain.MsgServerOffline},
	}
}

func (h *HealthMonitor) Status() domain.BackendStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Check queries the backend once and publishes a status event when the
// online flag or the place count changed.
func (h *HealthMonitor) Check(ctx context.Context) domain.BackendStatus {
	logger := logging.GetFromContext(ctx)

	st := domain.BackendStatus{CheckedAt: h.now()}
	info, err := h.backend.Health(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("backend health check failed")
		st.Message = domain.MsgServerOffline
	} else {
		st.Online = true
		st.PlacesCount = info.PlacesCount
		st.Message = domain.MsgConnected(info.PlacesCount)
	}

	h.mu.Lock()
	changed := !h.checked || h.status.Online != st.Online || h.status.PlacesCount != st.PlacesCount
	h.status = st
	h.checked = true
	h.mu.Unlock()

	if changed {
		if err := h.events.Publish(ctx, domain.Event{Name: domain.EventStatus, Data: st}); err != nil {
			logger.Error().Err(err).Msg("publish status")
		}
	}

	return st
}

// Run checks once immediately, then on every tick until ctx ends.
func (h *HealthMonitor) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		h.Check(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

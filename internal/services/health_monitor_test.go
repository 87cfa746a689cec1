package services

import (
	"context"
	"errors"
	"place-map-service/internal/adapters/backend"
	"place-map-service/internal/adapters/events"
	"place-map-service/internal/domain"
	"testing"
	"time"
)

func TestHealthMonitorStatusMessages(t *testing.T) {
	mock := backend.NewMockBackend(hradKost, pivovar, zoo)
	rec := &events.Recorder{}
	h := NewHealthMonitor(mock, rec, time.Minute)

	if st := h.Status(); st.Online || st.Message != domain.MsgServerOffline {
		t.Fatalf("initial status = %+v", st)
	}

	st := h.Check(context.Background())
	if !st.Online || st.PlacesCount != 3 || st.Message != "Připojeno - 3 míst" {
		t.Fatalf("status = %+v", st)
	}

	mock.FailHealth(errors.New("connection refused"))
	st = h.Check(context.Background())
	if st.Online || st.Message != domain.MsgServerOffline {
		t.Fatalf("status = %+v", st)
	}
	if h.Status() != st {
		t.Fatalf("Status() = %+v, want %+v", h.Status(), st)
	}
}

func TestHealthMonitorPublishesOnlyChanges(t *testing.T) {
	mock := backend.NewMockBackend(hradKost)
	rec := &events.Recorder{}
	h := NewHealthMonitor(mock, rec, time.Minute)

	h.Check(context.Background())
	h.Check(context.Background())
	if n := len(rec.Named(domain.EventStatus)); n != 1 {
		t.Fatalf("status events = %d, want 1", n)
	}

	mock.FailHealth(errors.New("down"))
	h.Check(context.Background())
	if n := len(rec.Named(domain.EventStatus)); n != 2 {
		t.Fatalf("status events = %d, want 2", n)
	}
}

func TestHealthMonitorRunChecksImmediately(t *testing.T) {
	rec := &events.Recorder{}
	h := NewHealthMonitor(backend.NewMockBackend(), rec, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	h.Run(ctx)

	if n := len(rec.Named(domain.EventStatus)); n != 1 {
		t.Fatalf("status events = %d, want 1", n)
	}
	if !h.Status().Online {
		t.Fatalf("expected online status")
	}
}

package backend

import (
	"context"
	"errors"
	"net/http"
	"place-map-service/internal/domain"
	"place-map-service/internal/ports"
	"strings"
	"sync"
)

// MockBackend is an in-memory PlaceSearcher for tests and local runs.
type MockBackend struct {
	mu sync.Mutex

	places    map[string]domain.PlaceRecord
	replies   []domain.ChatReply
	healthErr error
	chatErr   error
	resetErr  error

	placeCalls int
	chatCalls  int
	resetCalls int
}

func NewMockBackend(places ...domain.PlaceRecord) *MockBackend {
	m := &MockBackend{places: map[string]domain.PlaceRecord{}}
	for _, p := range places {
		m.places[p.ID()] = p
	}
	return m
}

// Queue replies returned by SendMessage in order. The last one repeats.
func (m *MockBackend) QueueReplies(replies ...domain.ChatReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

func (m *MockBackend) FailHealth(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.healthErr = err
}

func (m *MockBackend) FailChat(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatErr = err
}

func (m *MockBackend) FailReset(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetErr = err
}

func (m *MockBackend) Health(ctx context.Context) (domain.HealthInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.healthErr != nil {
		return domain.HealthInfo{}, m.healthErr
	}
	return domain.HealthInfo{Status: "healthy", PlacesCount: len(m.places)}, nil
}

func (m *MockBackend) GetPlace(ctx context.Context, id string) (domain.PlaceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.placeCalls++
	p, ok := m.places[id]
	if !ok {
		return nil, &ports.StatusError{Code: http.StatusNotFound, Body: `{"error":"Place not found"}`}
	}
	return p, nil
}

func (m *MockBackend) SendMessage(ctx context.Context, sessionID, message string) (domain.ChatReply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chatCalls++
	if m.chatErr != nil {
		return domain.ChatReply{}, m.chatErr
	}
	if len(m.replies) == 0 {
		return domain.ChatReply{Response: message}, nil
	}

	r := m.replies[0]
	if len(m.replies) > 1 {
		m.replies = m.replies[1:]
	}
	return r, nil
}

func (m *MockBackend) ResetSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetCalls++
	return m.resetErr
}

func (m *MockBackend) SearchPlaces(ctx context.Context, query string, limit int) (domain.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		return domain.SearchResult{}, errors.New("missing query")
	}

	q := strings.ToLower(query)
	res := domain.SearchResult{Query: query}
	for _, p := range m.places {
		if strings.Contains(strings.ToLower(p.Name()), q) {
			res.Places = append(res.Places, p)
		}
		if limit > 0 && len(res.Places) == limit {
			break
		}
	}
	res.Count = len(res.Places)
	return res, nil
}

func (m *MockBackend) Calls() (place, chat, reset int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placeCalls, m.chatCalls, m.resetCalls
}

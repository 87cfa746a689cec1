package services

import (
	"context"
	"errors"
	"fmt"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/logging"
	"place-map-service/internal/ports"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

var (
	ErrSessionNotFound = errors.New("chat session not found")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrRateLimited     = errors.New("too many messages, slow down")
)

const (
	searchLimit        = 50
	detailFetchTimeout = 15 * time.Second

	defaultSessionIdleTimeout = 30 * time.Minute
	defaultSessionSweep       = time.Minute
)

type ChatOptions struct {
	MessagesPerMinute int
	Burst             int

	// Sessions untouched for IdleTimeout are dropped by Run every SweepInterval.
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

func (o ChatOptions) limit() (rate.Limit, int) {
	perMinute, burst := o.MessagesPerMinute, o.Burst
	if perMinute <= 0 {
		perMinute = 20
	}
	if burst <= 0 {
		burst = 5
	}
	return rate.Every(time.Minute / time.Duration(perMinute)), burst
}

type session struct {
	mu         sync.Mutex
	markers    domain.MarkerSet
	generation uint64
	limiter    *rate.Limiter

	lastSeen atomic.Int64 // unix nanoseconds
}

func (sess *session) touch(now time.Time) {
	sess.lastSeen.Store(now.UnixNano())
}

func (sess *session) idleSince(cutoff time.Time) bool {
	return sess.lastSeen.Load() < cutoff.UnixNano()
}

type ChatResponse struct {
	SessionID  string        `json:"session_id"`
	Reply      string        `json:"reply"`
	Failed     bool          `json:"failed,omitempty"`
	ToolCalls  int           `json:"tool_calls"`
	Generation uint64        `json:"generation"`
	Render     *RenderResult `json:"render,omitempty"`
}

type SearchResponse struct {
	SessionID  string        `json:"session_id"`
	Query      string        `json:"query"`
	Count      int           `json:"count"`
	Generation uint64        `json:"generation"`
	Render     *RenderResult `json:"render"`
}

// Payload of place-detail events.
type DetailEvent struct {
	PlaceID    string             `json:"place_id"`
	Generation uint64             `json:"generation"`
	Panel      domain.DetailPanel `json:"panel"`
}

// ChatService relays chat messages to the backend and keeps one map per session.
// A session's marker set is replaced on every render and its generation grows
// each time, so detail results fetched for an older render are dropped.
type ChatService struct {
	backend  ports.PlaceBackend
	renderer *MapRenderer
	details  *DetailService
	events   ports.EventPublisher

	limit rate.Limit
	burst int

	idleTimeout   time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session

	wg sync.WaitGroup
}

func NewChatService(
	backend ports.PlaceBackend,
	renderer *MapRenderer,
	details *DetailService,
	events ports.EventPublisher,
	opts ChatOptions,
) *ChatService {
	limit, burst := opts.limit()
	svc := &ChatService{
		backend:       backend,
		renderer:      renderer,
		details:       details,
		events:        events,
		limit:         limit,
		burst:         burst,
		idleTimeout:   opts.IdleTimeout,
		sweepInterval: opts.SweepInterval,
		now:           time.Now,
		sessions:      map[string]*session{},
	}
	if svc.idleTimeout <= 0 {
		svc.idleTimeout = defaultSessionIdleTimeout
	}
	if svc.sweepInterval <= 0 {
		svc.sweepInterval = defaultSessionSweep
	}
	return svc
}

// NewSession registers a session with an id of the form user_xxxxxxxxx.
func (s *ChatService) NewSession() string {
	id := "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]

	sess := &session{limiter: rate.NewLimiter(s.limit, s.burst)}
	sess.touch(s.now())

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return id
}

func (s *ChatService) lookup(id string) (*session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// session returns a live session and marks it as used.
func (s *ChatService) session(id string) (*session, error) {
	sess, ok := s.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

// Sessions returns the number of live sessions.
func (s *ChatService) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle drops sessions not used within the idle timeout and reports how
// many were removed. Evicted ids answer ErrSessionNotFound afterwards.
func (s *ChatService) EvictIdle() int {
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Run evicts idle sessions on every tick until ctx ends.
func (s *ChatService) Run(ctx context.Context) {
	logger := logging.GetFromContext(ctx)

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictIdle(); n > 0 {
				logger.Debug().Int("evicted", n).Int("sessions", s.Sessions()).Msg("idle chat sessions dropped")
			}
		}
	}
}

// Current markers of a session.
func (s *ChatService) Markers(sessionID string) (domain.MarkerSet, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return append(domain.MarkerSet(nil), sess.markers...), nil
}

// Send relays a message. Backend failures are not returned as errors; the
// response carries the apology text and leaves the session map untouched.
func (s *ChatService) Send(ctx context.Context, sessionID, message string) (ChatResponse, error) {
	logger := logging.GetFromContext(ctx).With().Str("session", sessionID).Logger()

	message = strings.TrimSpace(message)
	if message == "" {
		return ChatResponse{}, ErrEmptyMessage
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return ChatResponse{}, err
	}

	if !sess.limiter.Allow() {
		return ChatResponse{}, ErrRateLimited
	}

	reply, err := s.backend.SendMessage(ctx, sessionID, message)
	if err != nil {
		logger.Error().Err(err).Msg("chat message failed")
		return ChatResponse{SessionID: sessionID, Reply: domain.MsgChatFailed, Failed: true}, nil
	}

	resp := ChatResponse{
		SessionID: sessionID,
		Reply:     reply.Response,
		ToolCalls: len(reply.ToolCalls),
	}
	if resp.ToolCalls > 0 {
		logger.Debug().Int("tool_calls", resp.ToolCalls).Msg("backend used tools")
	}

	if len(reply.Locations) > 0 {
		res, gen := s.renderFor(ctx, sessionID, sess, reply.Locations)
		resp.Render = &res
		resp.Generation = gen
	}

	return resp, nil
}

// Search renders backend search results on the session map.
func (s *ChatService) Search(ctx context.Context, sessionID, query string) (SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResponse{}, ErrEmptyMessage
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return SearchResponse{}, err
	}

	searcher, ok := s.backend.(ports.PlaceSearcher)
	if !ok {
		return SearchResponse{}, ports.ErrSearchUnsupported
	}

	found, err := searcher.SearchPlaces(ctx, query, searchLimit)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search %q: %w", query, err)
	}

	res, gen := s.renderFor(ctx, sessionID, sess, found.Places)
	return SearchResponse{
		SessionID:  sessionID,
		Query:      query,
		Count:      len(found.Places),
		Generation: gen,
		Render:     &res,
	}, nil
}

// Reset clears the session map locally, then asks the backend to forget the
// conversation. The local state is cleared even when the backend call fails.
func (s *ChatService) Reset(ctx context.Context, sessionID string) (discarded int, err error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return 0, err
	}

	sess.mu.Lock()
	discarded = len(sess.markers)
	sess.markers = nil
	sess.generation++
	sess.mu.Unlock()

	if err := s.backend.ResetSession(ctx, sessionID); err != nil {
		return discarded, fmt.Errorf("reset session %s: %w", sessionID, err)
	}
	return discarded, nil
}

func (s *ChatService) renderFor(ctx context.Context, sessionID string, sess *session, records []domain.PlaceRecord) (RenderResult, uint64) {
	sess.mu.Lock()
	res := s.renderer.Render(ctx, sess.markers, records)
	sess.markers = res.Markers
	sess.generation++
	gen := sess.generation
	sess.mu.Unlock()

	if res.PrimaryID != "" {
		s.fetchDetail(ctx, sessionID, gen, res.PrimaryID)
	}
	return res, gen
}

func (s *ChatService) generation(sessionID string) uint64 {
	sess, ok := s.lookup(sessionID)
	if !ok {
		return 0
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.generation
}

// Load the primary place in the background and publish it unless the
// session has rendered again in the meantime.
func (s *ChatService) fetchDetail(ctx context.Context, sessionID string, gen uint64, placeID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), detailFetchTimeout)
		defer cancel()

		logger := logging.GetFromContext(ctx)
		panel := s.details.Load(ctx, placeID)

		if current := s.generation(sessionID); current != gen {
			logger.Debug().Str("session", sessionID).Uint64("generation", gen).Uint64("current", current).Msg("dropping stale place detail")
			return
		}

		err := s.events.Publish(ctx, domain.Event{
			Name:      domain.EventPlaceDetail,
			SessionID: sessionID,
			Data:      DetailEvent{PlaceID: placeID, Generation: gen, Panel: panel},
		})
		if err != nil {
			logger.Error().Err(err).Str("session", sessionID).Msg("publish place detail")
		}
	}()
}

// Wait blocks until background detail fetches have finished.
func (s *ChatService) Wait() {
	s.wg.Wait()
}

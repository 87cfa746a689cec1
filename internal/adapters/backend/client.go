package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/obs"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPBackend implements ports.PlaceSearcher against the place/chat backend.
//
// Reads (health, place, search) are retried on transient failures; chat
// calls are sent once. The backend is safe for concurrent use.
type HTTPBackend struct {
	session *http.Client
	baseURL string
	backoff time.Duration
}

func NewHTTPBackend(baseURL string, timeout time.Duration) (*HTTPBackend, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend base url is empty")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("backend base url %q: %w", baseURL, err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPBackend{
		session: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: baseURL,
		backoff: initialBackoff,
	}, nil
}

func (b *HTTPBackend) Health(ctx context.Context) (_ domain.HealthInfo, err error) {
	defer obs.Time(ctx, "backend.Health")(&err)

	var info domain.HealthInfo
	if err := b.getJSON(ctx, b.baseURL+"/api/health", &info); err != nil {
		return domain.HealthInfo{}, fmt.Errorf("backend health: %w", err)
	}
	return info, nil
}

func (b *HTTPBackend) GetPlace(ctx context.Context, id string) (_ domain.PlaceRecord, err error) {
	defer obs.Time(ctx, "backend.GetPlace")(&err)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("backend get place: id is empty")
	}

	var rec domain.PlaceRecord
	if err := b.getJSON(ctx, b.baseURL+"/api/place/"+url.PathEscape(id), &rec); err != nil {
		return nil, fmt.Errorf("backend get place %q: %w", id, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("backend get place %q: empty body", id)
	}
	return rec, nil
}

func (b *HTTPBackend) SearchPlaces(ctx context.Context, query string, limit int) (_ domain.SearchResult, err error) {
	defer obs.Time(ctx, "backend.SearchPlaces")(&err)

	q := url.Values{}
	q.Set("q", query)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var res domain.SearchResult
	if err := b.getJSON(ctx, b.baseURL+"/api/search?"+q.Encode(), &res); err != nil {
		return domain.SearchResult{}, fmt.Errorf("backend search %q: %w", query, err)
	}
	return res, nil
}

type chatMessageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResetRequest struct {
	SessionID string `json:"session_id"`
}

func (b *HTTPBackend) SendMessage(ctx context.Context, sessionID, message string) (_ domain.ChatReply, err error) {
	defer obs.Time(ctx, "backend.SendMessage")(&err)

	var reply domain.ChatReply
	body := chatMessageRequest{SessionID: sessionID, Message: message}
	if err := b.postJSON(ctx, b.baseURL+"/api/chat/message", body, &reply); err != nil {
		return domain.ChatReply{}, fmt.Errorf("backend chat message: %w", err)
	}
	return reply, nil
}

func (b *HTTPBackend) ResetSession(ctx context.Context, sessionID string) (err error) {
	defer obs.Time(ctx, "backend.ResetSession")(&err)

	if err := b.postJSON(ctx, b.baseURL+"/api/chat/reset", chatResetRequest{SessionID: sessionID}, nil); err != nil {
		return fmt.Errorf("backend chat reset: %w", err)
	}
	return nil
}

func (b *HTTPBackend) getJSON(ctx context.Context, u string, out any) error {
	resp, err := b.doWithRetry(ctx, func() (*http.Request, error) {
		return b.newRequest(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// out may be nil when the caller only cares about the status.
func (b *HTTPBackend) postJSON(ctx context.Context, u string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := b.newRequest(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	resp, err := b.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

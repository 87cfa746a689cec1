package commands

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxCommandSize = 64 << 10

// HTTPSource fetches the command document from a URL, typically the
// chatbot_command.json served next to the front-end.
type HTTPSource struct {
	URL     string
	session *http.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSource{
		URL: url,
		session: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (h *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch command: create request: %w", err)
	}
	// Always read the current file, never a cached copy.
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := h.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch command: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch command: unexpected status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxCommandSize))
	if err != nil {
		return nil, fmt.Errorf("fetch command: read body: %w", err)
	}
	return b, nil
}

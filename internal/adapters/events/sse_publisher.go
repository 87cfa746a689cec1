package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"place-map-service/internal/domain"
	"strings"
	"sync/atomic"

	gosse "github.com/alexandrevicenzi/go-sse"
)

const (
	broadcastChannel     = "broadcast"
	sessionChannelPrefix = "session:"
)

// SSEPublisher fans events out to browsers over Server-Sent Events.
// Browsers subscribe with GET ?session=<id>; session events go only to that
// session's channel, events without a session go to every channel.
type SSEPublisher struct {
	s   *gosse.Server
	seq atomic.Uint64
}

func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{
		s: gosse.NewServer(&gosse.Options{
			RetryInterval:   3000,
			ChannelNameFunc: ChannelName,
			Headers: map[string]string{
				"X-Accel-Buffering": "no",
			},
		}),
	}
}

// ChannelName picks the channel a subscriber request joins.
func ChannelName(r *http.Request) string {
	if id := strings.TrimSpace(r.URL.Query().Get("session")); id != "" {
		return sessionChannelPrefix + id
	}
	return broadcastChannel
}

func (p *SSEPublisher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.s.ServeHTTP(w, r)
}

func (p *SSEPublisher) Publish(ctx context.Context, ev domain.Event) error {
	b, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("publish %s: encode: %w", ev.Name, err)
	}

	id := fmt.Sprintf("%d", p.seq.Add(1))
	msg := gosse.NewMessage(id, string(b), ev.Name)

	if ev.SessionID == "" {
		p.s.SendMessage("", msg)
		return nil
	}

	p.s.SendMessage(sessionChannelPrefix+ev.SessionID, msg)
	return nil
}

func (p *SSEPublisher) Shutdown() {
	p.s.Shutdown()
}

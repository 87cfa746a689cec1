package events

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"place-map-service/internal/domain"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestChannelName(t *testing.T) {
	is := is.New(t)

	r := httptest.NewRequest(http.MethodGet, "/api/events?session=user_abc", nil)
	is.Equal(ChannelName(r), "session:user_abc")

	r = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	is.Equal(ChannelName(r), "broadcast")
}

func TestPublishBroadcastReachesSubscriber(t *testing.T) {
	is := is.New(t)

	p := NewSSEPublisher()
	defer p.Shutdown()

	srv := httptest.NewServer(p)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lines := make(chan string, 16)
	go func() {
		defer close(lines)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events?session=user_abc", nil)
		if err != nil {
			return
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return
		}
		defer resp.Body.Close()

		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	// The subscription is registered asynchronously; publish until it arrives.
	deadline := time.After(3 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case line := <-lines:
			if strings.HasPrefix(line, "event:") && strings.Contains(line, domain.EventStatus) {
				return
			}
		case <-tick.C:
			is.NoErr(p.Publish(context.Background(), domain.Event{
				Name: domain.EventStatus,
				Data: domain.BackendStatus{Online: true, Message: domain.MsgConnected(3)},
			}))
		case <-deadline:
			t.Fatalf("no status event received")
		}
	}
}

func TestRecorderFiltersByName(t *testing.T) {
	is := is.New(t)

	var r Recorder
	is.NoErr(r.Publish(context.Background(), domain.Event{Name: domain.EventStatus}))
	is.NoErr(r.Publish(context.Background(), domain.Event{Name: domain.EventHighlight}))

	is.Equal(len(r.Events()), 2)
	is.Equal(len(r.Named(domain.EventHighlight)), 1)
}

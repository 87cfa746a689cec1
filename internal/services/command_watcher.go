package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/logging"
	"place-map-service/internal/ports"
	"sync"
	"time"
)

const defaultCommandInterval = 2 * time.Second

type CommandWatcherOptions struct {
	// Polled when Stream is nil.
	Source ports.CommandSource
	// Preferred over Source when set.
	Stream   ports.CommandStream
	Interval time.Duration
}

// Payload of highlight events.
type HighlightEvent struct {
	Command domain.Command     `json:"command"`
	Render  RenderResult       `json:"render"`
	Panel   domain.DetailPanel `json:"panel"`
}

// CommandWatcher follows the chatbot command channel and highlights the
// place named by each new show command for every connected browser.
type CommandWatcher struct {
	source   ports.CommandSource
	stream   ports.CommandStream
	interval time.Duration

	details  *DetailService
	renderer *MapRenderer
	events   ports.EventPublisher

	mu       sync.Mutex
	lastHash string
	markers  domain.MarkerSet
}

func NewCommandWatcher(details *DetailService, renderer *MapRenderer, events ports.EventPublisher, opts CommandWatcherOptions) *CommandWatcher {
	if opts.Interval <= 0 {
		opts.Interval = defaultCommandInterval
	}
	return &CommandWatcher{
		source:   opts.Source,
		stream:   opts.Stream,
		interval: opts.Interval,
		details:  details,
		renderer: renderer,
		events:   events,
	}
}

// Run blocks until ctx ends. Polls happen on a single ticker, so they never overlap.
func (w *CommandWatcher) Run(ctx context.Context) {
	logger := logging.GetFromContext(ctx)

	if w.stream != nil {
		logger.Info().Msg("command watcher consuming stream")
		for payload := range w.stream.Commands(ctx) {
			w.handleLogged(ctx, payload)
		}
		return
	}

	if w.source == nil {
		logger.Info().Msg("no command source configured")
		return
	}

	logger.Info().Dur("interval", w.interval).Msg("command watcher polling")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.poll(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (w *CommandWatcher) poll(ctx context.Context) {
	payload, err := w.source.Fetch(ctx)
	if err != nil {
		logger := logging.GetFromContext(ctx)
		logger.Debug().Err(err).Msg("waiting for command")
		return
	}
	w.handleLogged(ctx, payload)
}

func (w *CommandWatcher) handleLogged(ctx context.Context, payload []byte) {
	if _, err := w.Handle(ctx, payload); err != nil {
		logger := logging.GetFromContext(ctx)
		logger.Debug().Err(err).Msg("waiting for command")
	}
}

// Handle processes one command document. It reports whether the document was
// new and named a place to show. Repeated documents are ignored.
func (w *CommandWatcher) Handle(ctx context.Context, payload []byte) (bool, error) {
	cmd, hash, err := decodeCommand(payload)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if hash == w.lastHash {
		return false, nil
	}
	w.lastHash = hash

	if cmd.Action != domain.ActionShow || cmd.DpID == "" {
		logger := logging.GetFromContext(ctx)
		logger.Debug().Str("action", cmd.Action).Msg("ignoring command")
		return false, nil
	}

	w.dispatch(ctx, cmd)
	return true, nil
}

func (w *CommandWatcher) dispatch(ctx context.Context, cmd domain.Command) {
	logger := logging.GetFromContext(ctx).With().Str("dp_id", cmd.DpID).Logger()
	logger.Info().Msg("chatbot command received")

	w.publish(ctx, domain.Event{Name: domain.EventCommandLoading, Data: cmd})

	rec, err := w.details.Fetch(ctx, cmd.DpID)
	if err != nil {
		logger.Warn().Err(err).Msg("chatbot command place failed")
		w.publish(ctx, domain.Event{
			Name: domain.EventPlaceDetail,
			Data: DetailEvent{PlaceID: cmd.DpID, Panel: ErrorPanel(cmd.DpID, err)},
		})
		return
	}

	res := w.renderer.RenderWithLabel(ctx, w.markers, []domain.PlaceRecord{rec}, domain.LabelChatbotPick)
	w.markers = res.Markers

	detail := BuildPlaceDetail(rec)
	w.publish(ctx, domain.Event{
		Name: domain.EventHighlight,
		Data: HighlightEvent{Command: cmd, Render: res, Panel: domain.DetailPanel{Detail: &detail}},
	})
}

func (w *CommandWatcher) publish(ctx context.Context, ev domain.Event) {
	if err := w.events.Publish(ctx, ev); err != nil {
		logger := logging.GetFromContext(ctx)
		logger.Error().Err(err).Str("event", ev.Name).Msg("publish failed")
	}
}

// Decode a command document and hash its canonical encoding, so formatting
// changes alone do not count as a new command.
func decodeCommand(payload []byte) (domain.Command, string, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return domain.Command{}, "", fmt.Errorf("decode command: empty document")
	}

	var doc domain.PlaceRecord
	if err := json.Unmarshal(payload, &doc); err != nil {
		return domain.Command{}, "", fmt.Errorf("decode command: %w", err)
	}

	canonical, err := json.Marshal(doc)
	if err != nil {
		return domain.Command{}, "", fmt.Errorf("decode command: canonical encode: %w", err)
	}
	sum := sha256.Sum256(canonical)

	cmd := domain.Command{Action: doc.Text("action"), DpID: doc.Text("dp_id")}
	return cmd, hex.EncodeToString(sum[:]), nil
}

package services

import (
	"context"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/logging"
	"time"

	"github.com/samber/lo"
)

// Map presentation parameters. Zero fields take the defaults of DefaultRenderOptions.
type RenderOptions struct {
	FocusZoom    int
	Padding      [2]int
	FlyDuration  time.Duration
	PopupDelay   time.Duration
	PrimaryLabel string
}

func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		FocusZoom:    14,
		Padding:      [2]int{50, 50},
		FlyDuration:  1500 * time.Millisecond,
		PopupDelay:   time.Second,
		PrimaryLabel: domain.LabelTopRecommendation,
	}
}

func (o RenderOptions) withDefaults() RenderOptions {
	d := DefaultRenderOptions()
	if o.FocusZoom <= 0 {
		o.FocusZoom = d.FocusZoom
	}
	if o.Padding == [2]int{} {
		o.Padding = d.Padding
	}
	if o.FlyDuration <= 0 {
		o.FlyDuration = d.FlyDuration
	}
	if o.PopupDelay <= 0 {
		o.PopupDelay = d.PopupDelay
	}
	if o.PrimaryLabel == "" {
		o.PrimaryLabel = d.PrimaryLabel
	}
	return o
}

const (
	primaryIconSize   = 60
	secondaryIconSize = 40
	primaryZIndex     = 1000
)

// A record left off the map because no valid coordinates were found.
type SkippedRecord struct {
	Index  int              `json:"index"`
	ID     string           `json:"id,omitempty"`
	Format CoordinateFormat `json:"format,omitempty"`
}

type RenderResult struct {
	Markers      domain.MarkerSet `json:"markers"`
	Viewport     domain.Viewport  `json:"viewport"`
	PrimaryID    string           `json:"primary_id,omitempty"`
	PopupDelayMs int64            `json:"popup_delay_ms,omitempty"`
	Message      string           `json:"message,omitempty"`
	Discarded    int              `json:"discarded"`
	Skipped      []SkippedRecord  `json:"skipped,omitempty"`
}

// MapRenderer turns place records into markers and a camera instruction.
// It holds no state between calls and is safe for concurrent use.
type MapRenderer struct {
	opts RenderOptions
}

func NewMapRenderer(opts RenderOptions) *MapRenderer {
	return &MapRenderer{opts: opts.withDefaults()}
}

func (m *MapRenderer) Options() RenderOptions { return m.opts }

// Render replaces prev with a marker set built from records. The first record
// with valid coordinates becomes the primary marker.
func (m *MapRenderer) Render(ctx context.Context, prev domain.MarkerSet, records []domain.PlaceRecord) RenderResult {
	return m.render(ctx, prev, records, m.opts.PrimaryLabel)
}

// Same as Render with a different emphasis label on the primary popup.
func (m *MapRenderer) RenderWithLabel(ctx context.Context, prev domain.MarkerSet, records []domain.PlaceRecord, label string) RenderResult {
	return m.render(ctx, prev, records, label)
}

func (m *MapRenderer) render(ctx context.Context, prev domain.MarkerSet, records []domain.PlaceRecord, label string) RenderResult {
	logger := logging.GetFromContext(ctx)

	res := RenderResult{
		Markers:   make(domain.MarkerSet, 0, len(records)),
		Discarded: len(prev),
	}

	for i, rec := range records {
		pos, format, ok := ResolveCoordinatesFormat(rec)
		if !ok {
			logger.Debug().Int("index", i).Str("id", rec.ID()).Str("format", string(format)).Msg("record has no valid coordinates, skipping")
			res.Skipped = append(res.Skipped, SkippedRecord{Index: i, ID: rec.ID(), Format: format})
			continue
		}

		res.Markers = append(res.Markers, m.marker(rec, pos, len(res.Markers) == 0, label))
	}

	res.Viewport = m.viewport(res.Markers)

	primary, ok := res.Markers.Primary()
	if !ok {
		res.Message = domain.MsgNoPlaces
		return res
	}

	res.PrimaryID = primary.ID
	res.PopupDelayMs = m.opts.PopupDelay.Milliseconds()

	return res
}

func (m *MapRenderer) marker(rec domain.PlaceRecord, pos domain.Coordinates, primary bool, label string) domain.Marker {
	category := CategorizeRecord(rec)

	mk := domain.Marker{
		ID:       rec.ID(),
		Position: pos,
		Category: category,
		Glyph:    category.Glyph(),
		Primary:  primary,
		Icon:     icon(secondaryIconSize),
		Popup: domain.Popup{
			Title:    lo.Ternary(rec.Name() != "", rec.Name(), domain.MsgNoName),
			Category: rec.Text("kategorie"),
			Locality: rec.Text("obec"),
		},
		Record: rec,
	}

	if primary {
		mk.Icon = icon(primaryIconSize)
		mk.ZIndexOffset = primaryZIndex
		mk.Popup.Label = label
	}

	return mk
}

func (m *MapRenderer) viewport(markers domain.MarkerSet) domain.Viewport {
	switch len(markers) {
	case 0:
		return domain.Viewport{Kind: domain.ViewportUnchanged}
	case 1:
		center := markers[0].Position
		return domain.Viewport{
			Kind:            domain.ViewportCenter,
			Center:          &center,
			Zoom:            m.opts.FocusZoom,
			DurationSeconds: m.opts.FlyDuration.Seconds(),
		}
	}

	points := lo.Map(markers, func(mk domain.Marker, _ int) domain.Coordinates { return mk.Position })
	bounds, _ := domain.BoundsOf(points)

	return domain.Viewport{
		Kind:            domain.ViewportFitBounds,
		Bounds:          &bounds,
		Padding:         []int{m.opts.Padding[0], m.opts.Padding[1]},
		DurationSeconds: m.opts.FlyDuration.Seconds(),
	}
}

func icon(size int) domain.Icon {
	return domain.Icon{Size: [2]int{size, size}, Anchor: [2]int{size / 2, size / 2}}
}

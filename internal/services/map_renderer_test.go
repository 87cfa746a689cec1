package services

import (
	"context"
	"encoding/json"
	"place-map-service/internal/domain"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestRenderEmptyLeavesViewportUnchanged(t *testing.T) {
	r := NewMapRenderer(RenderOptions{})
	prev := domain.MarkerSet{{ID: "old1"}, {ID: "old2"}}

	res := r.Render(context.Background(), prev, nil)

	if len(res.Markers) != 0 {
		t.Fatalf("markers = %d, want 0", len(res.Markers))
	}
	if res.Discarded != 2 {
		t.Fatalf("discarded = %d, want 2", res.Discarded)
	}
	if res.Viewport.Kind != domain.ViewportUnchanged {
		t.Fatalf("viewport = %q, want unchanged", res.Viewport.Kind)
	}
	if res.Message != domain.MsgNoPlaces {
		t.Fatalf("message = %q", res.Message)
	}
	if res.PrimaryID != "" {
		t.Fatalf("primary id = %q, want empty", res.PrimaryID)
	}
}

func TestRenderSingleCentersOnPlace(t *testing.T) {
	r := NewMapRenderer(RenderOptions{})

	res := r.Render(context.Background(), nil, []domain.PlaceRecord{
		{"dp_id": "H1", "nazev": "Hrad Kost", "kategorie": "hrady", "souradnice": []any{15.13, 50.49}},
	})

	if len(res.Markers) != 1 {
		t.Fatalf("markers = %d, want 1", len(res.Markers))
	}
	vp := res.Viewport
	if vp.Kind != domain.ViewportCenter || vp.Zoom != 14 || vp.DurationSeconds != 1.5 {
		t.Fatalf("viewport = %+v", vp)
	}
	if vp.Center == nil || vp.Center.Lat != 50.49 || vp.Center.Lon != 15.13 {
		t.Fatalf("center = %+v", vp.Center)
	}
	if res.PrimaryID != "H1" || res.PopupDelayMs != 1000 {
		t.Fatalf("primary = %q delay = %d", res.PrimaryID, res.PopupDelayMs)
	}

	m := res.Markers[0]
	if !m.Primary || m.Icon.Size != [2]int{60, 60} || m.Icon.Anchor != [2]int{30, 30} || m.ZIndexOffset != 1000 {
		t.Fatalf("primary marker = %+v", m)
	}
	if m.Popup.Label != domain.LabelTopRecommendation {
		t.Fatalf("popup label = %q", m.Popup.Label)
	}
	if m.Category != domain.CategoryCulture || m.Glyph != "🏛️" {
		t.Fatalf("category = %q glyph = %q", m.Category, m.Glyph)
	}
}

func TestRenderManyFitsBoundsAndSkipsInvalid(t *testing.T) {
	r := NewMapRenderer(RenderOptions{})

	records := []domain.PlaceRecord{
		{"dp_id": "bad", "souradnice": []any{15.0, 123.0}},
		{"dp_id": "A", "souradnice": []any{15.8, 50.2}},
		{"dp_id": "none"},
		{"dp_id": "B", "gps": "49.9,16.1"},
		{"dp_id": "C", "lat": 50.6, "lon": 15.5, "kategorie": "Pivovar"},
	}
	res := r.Render(context.Background(), domain.MarkerSet{{ID: "x"}}, records)

	if len(res.Markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(res.Markers))
	}
	if len(res.Skipped) != 2 || res.Skipped[0].ID != "bad" || res.Skipped[1].Index != 2 {
		t.Fatalf("skipped = %+v", res.Skipped)
	}
	if res.PrimaryID != "A" || !res.Markers[0].Primary {
		t.Fatalf("first valid record must be primary, got %q", res.PrimaryID)
	}

	for _, m := range res.Markers[1:] {
		if m.Primary || m.Icon.Size != [2]int{40, 40} || m.Icon.Anchor != [2]int{20, 20} || m.ZIndexOffset != 0 || m.Popup.Label != "" {
			t.Fatalf("secondary marker = %+v", m)
		}
	}

	vp := res.Viewport
	if vp.Kind != domain.ViewportFitBounds || !slices.Equal(vp.Padding, []int{50, 50}) || vp.DurationSeconds != 1.5 {
		t.Fatalf("viewport = %+v", vp)
	}
	want := domain.Bounds{
		SouthWest: domain.Coordinates{Lat: 49.9, Lon: 15.5},
		NorthEast: domain.Coordinates{Lat: 50.6, Lon: 16.1},
	}
	if vp.Bounds == nil || *vp.Bounds != want {
		t.Fatalf("bounds = %+v, want %+v", vp.Bounds, want)
	}
	if res.Discarded != 1 {
		t.Fatalf("discarded = %d, want 1", res.Discarded)
	}
}

func TestRenderPopupFallbacks(t *testing.T) {
	r := NewMapRenderer(RenderOptions{})

	res := r.Render(context.Background(), nil, []domain.PlaceRecord{
		{"dp_id": "1", "coordinates": []any{15.0, 50.0}, "obec": "Jičín"},
	})

	p := res.Markers[0].Popup
	if p.Title != domain.MsgNoName || p.Locality != "Jičín" {
		t.Fatalf("popup = %+v", p)
	}
	if res.Markers[0].Category != domain.CategoryDefault {
		t.Fatalf("category = %q", res.Markers[0].Category)
	}
}

func TestRenderOptionsOverride(t *testing.T) {
	r := NewMapRenderer(RenderOptions{FocusZoom: 12, FlyDuration: 500 * time.Millisecond, PopupDelay: 2 * time.Second})

	res := r.RenderWithLabel(context.Background(), nil, []domain.PlaceRecord{
		{"dp_id": "1", "coordinates": []any{15.0, 50.0}},
	}, domain.LabelChatbotPick)

	if res.Viewport.Zoom != 12 || res.Viewport.DurationSeconds != 0.5 || res.PopupDelayMs != 2000 {
		t.Fatalf("result = %+v", res)
	}
	if res.Markers[0].Popup.Label != domain.LabelChatbotPick {
		t.Fatalf("label = %q", res.Markers[0].Popup.Label)
	}
	if r.Options().Padding != [2]int{50, 50} {
		t.Fatalf("padding default not applied: %v", r.Options().Padding)
	}
}

func TestViewportJSONOmitsFieldsOfOtherKinds(t *testing.T) {
	r := NewMapRenderer(RenderOptions{})
	one := []domain.PlaceRecord{{"dp_id": "A", "souradnice": []any{15.8, 50.2}}}

	tests := []struct {
		name    string
		records []domain.PlaceRecord
		absent  []string
	}{
		{"unchanged", nil, []string{"padding", "center", "bounds", "zoom", "duration_seconds"}},
		{"center", one, []string{"padding", "bounds"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Render(context.Background(), nil, tt.records)
			b, err := json.Marshal(res.Viewport)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			for _, key := range tt.absent {
				if strings.Contains(string(b), `"`+key+`"`) {
					t.Fatalf("%s viewport has %q: %s", tt.name, key, b)
				}
			}
		})
	}
}

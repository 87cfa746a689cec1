package services

import (
	"context"
	"errors"
	"net/http"
	"place-map-service/internal/adapters/backend"
	"place-map-service/internal/domain"
	"place-map-service/internal/ports"
	"testing"
)

func TestBuildPlaceDetailFallbacks(t *testing.T) {
	d := BuildPlaceDetail(domain.PlaceRecord{"dp_id": "M7", "source_file": "muzea.json"})

	if d.Name != "M7" {
		t.Fatalf("name = %q, want dp_id fallback", d.Name)
	}
	if d.Description != domain.MsgNoDescription {
		t.Fatalf("description = %q", d.Description)
	}
	if d.OpeningHours != domain.MsgNoOpeningHours {
		t.Fatalf("opening hours = %q", d.OpeningHours)
	}
	if d.Category != string(domain.CategoryCulture) {
		t.Fatalf("category = %q", d.Category)
	}
	if d.Coordinates != nil || d.NavigateURL != "" {
		t.Fatalf("unexpected coordinates: %+v", d)
	}

	d = BuildPlaceDetail(domain.PlaceRecord{})
	if d.Name != domain.MsgNoName {
		t.Fatalf("name = %q, want %q", d.Name, domain.MsgNoName)
	}
}

func TestBuildPlaceDetailFields(t *testing.T) {
	d := BuildPlaceDetail(domain.PlaceRecord{
		"dp_id":               "M1",
		"nazev":               "Muzeum Podkrkonoší",
		"zamereni_muzea":      "Regionální historie",
		"pozn_oteviraci_doba": "Út–Ne 9–17",
		"typ_muzea":           "vlastivědné",
		"telefon":             "+420 499 000 000",
		"email":               "info@muzeum.cz",
		"www":                 "https://muzeum.cz",
		"souradnice":          []any{15.83251, 50.20994},
	})

	if d.Name != "Muzeum Podkrkonoší" || d.Description != "Regionální historie" || d.OpeningHours != "Út–Ne 9–17" {
		t.Fatalf("detail = %+v", d)
	}
	if d.Category != "vlastivědné" || d.Phone == "" || d.Email == "" || d.Website != "https://muzeum.cz" {
		t.Fatalf("detail = %+v", d)
	}
	if d.CoordsText != "50.2099, 15.8325" {
		t.Fatalf("coords text = %q", d.CoordsText)
	}
	if d.NavigateURL != "https://www.google.com/maps/dir/?api=1&destination=50.20994,15.83251" {
		t.Fatalf("navigate url = %q", d.NavigateURL)
	}
}

func TestErrorPanelMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", &ports.StatusError{Code: http.StatusNotFound}, `Místo s ID "X1" nebylo nalezeno v databázi`},
		{"server error", &ports.StatusError{Code: http.StatusInternalServerError}, "API error: 500"},
		{"network", errors.New("dial tcp: connection refused"), domain.MsgServerUnreachable},
		{"missing id", ErrMissingPlaceID, domain.MsgMissingID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ErrorPanel("X1", tt.err)
			if p.Error == nil || p.Detail != nil {
				t.Fatalf("panel = %+v", p)
			}
			if p.Error.Title != domain.MsgDetailErrorTitle || p.Error.Message != tt.want {
				t.Fatalf("error = %+v, want message %q", p.Error, tt.want)
			}
		})
	}
}

func TestDetailServiceLoad(t *testing.T) {
	mock := backend.NewMockBackend(domain.PlaceRecord{"dp_id": "H1", "nazev": "Hrad"})
	svc := NewDetailService(mock)

	p := svc.Load(context.Background(), "H1")
	if p.Failed() || p.Detail.Name != "Hrad" {
		t.Fatalf("panel = %+v", p)
	}

	p = svc.Load(context.Background(), "nope")
	if !p.Failed() || p.Error.Message != domain.MsgPlaceNotFound("nope") {
		t.Fatalf("panel = %+v", p)
	}

	p = svc.Load(context.Background(), "  ")
	if !p.Failed() || p.Error.Message != domain.MsgMissingID {
		t.Fatalf("panel = %+v", p)
	}
	if place, _, _ := mock.Calls(); place != 2 {
		t.Fatalf("backend calls = %d, want 2", place)
	}
}

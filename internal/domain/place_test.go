package domain

import (
	"encoding/json"
	"testing"
)

func TestPlaceRecordID(t *testing.T) {
	var rec PlaceRecord
	if err := json.Unmarshal([]byte(`{"id":1042,"nazev":"  Zámek Opočno "}`), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if rec.ID() != "1042" {
		t.Fatalf("id = %q, want %q", rec.ID(), "1042")
	}
	if rec.Name() != "Zámek Opočno" {
		t.Fatalf("name = %q", rec.Name())
	}

	rec["dp_id"] = "ZAM1"
	if rec.ID() != "ZAM1" {
		t.Fatalf("dp_id must win over id, got %q", rec.ID())
	}
}

func TestPlaceRecordCategoryLabel(t *testing.T) {
	rec := PlaceRecord{"kategorie": "", "source_file": "pivovary.json"}
	if got := rec.CategoryLabel(); got != "pivovary.json" {
		t.Fatalf("label = %q", got)
	}
}

func TestBoundsOf(t *testing.T) {
	if _, ok := BoundsOf(nil); ok {
		t.Fatalf("expected no bounds for empty input")
	}

	b, ok := BoundsOf([]Coordinates{{Lat: 50, Lon: 15}, {Lat: 49, Lon: 16}, {Lat: 50.5, Lon: 15.5}})
	if !ok {
		t.Fatalf("expected bounds")
	}
	want := Bounds{SouthWest: Coordinates{Lat: 49, Lon: 15}, NorthEast: Coordinates{Lat: 50.5, Lon: 16}}
	if b != want {
		t.Fatalf("bounds = %+v, want %+v", b, want)
	}
}

func TestCoordinatesValid(t *testing.T) {
	tests := []struct {
		c    Coordinates
		want bool
	}{
		{Coordinates{Lat: 90, Lon: 180}, true},
		{Coordinates{Lat: -90, Lon: -180}, true},
		{Coordinates{Lat: 90.0001, Lon: 0}, false},
		{Coordinates{Lat: 0, Lon: -180.5}, false},
	}
	for _, tt := range tests {
		if got := tt.c.Valid(); got != tt.want {
			t.Fatalf("%+v.Valid() = %v, want %v", tt.c, got, tt.want)
		}
	}
}

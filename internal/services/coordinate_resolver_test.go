package services

import (
	"encoding/json"
	"math"
	"place-map-service/internal/domain"
	"testing"
)

func record(t *testing.T, js string) domain.PlaceRecord {
	t.Helper()
	var rec domain.PlaceRecord
	if err := json.Unmarshal([]byte(js), &rec); err != nil {
		t.Fatalf("decode %s: %v", js, err)
	}
	return rec
}

func TestResolveCoordinates(t *testing.T) {
	tests := []struct {
		name   string
		rec    string
		ok     bool
		lat    float64
		lon    float64
		format CoordinateFormat
	}{
		{"direct fields", `{"lat":50.2,"lon":15.8}`, true, 50.2, 15.8, FormatLatLon},
		{"souradnice lon lat", `{"souradnice":[15.83,50.21]}`, true, 50.21, 15.83, FormatSouradnice},
		{"geometry", `{"geometry":{"type":"Point","coordinates":[15.1,50.5]}}`, true, 50.5, 15.1, FormatGeometry},
		{"coordinates", `{"coordinates":[16.0,49.9]}`, true, 49.9, 16.0, FormatCoords},
		{"gps sequence lat lon", `{"gps":[50.1,15.9]}`, true, 50.1, 15.9, FormatGPS},
		{"gps string", `{"gps":" 50.3 , 15.7 "}`, true, 50.3, 15.7, FormatGPS},
		{"altitude ignored", `{"souradnice":[15.8,50.2,312]}`, true, 50.2, 15.8, FormatSouradnice},
		{"first match wins", `{"lat":50,"lon":15,"souradnice":[16,49]}`, true, 50, 15, FormatLatLon},
		{"zero lat is falsy", `{"lat":0,"lon":15,"souradnice":[16,49]}`, true, 49, 16, FormatSouradnice},
		{"lat only falls through", `{"lat":50,"coordinates":[16,49]}`, true, 49, 16, FormatCoords},
		{"string lat not numeric", `{"lat":"50","lon":"15"}`, false, 0, 0, FormatNone},
		{"direct latitude out of range", `{"lat":200,"lon":15}`, false, 0, 0, FormatLatLon},
		{"direct longitude out of range", `{"lat":50,"lon":-181}`, false, 0, 0, FormatLatLon},
		{"out of range latitude", `{"souradnice":[15,91]}`, false, 0, 0, FormatSouradnice},
		{"out of range longitude", `{"coordinates":[181,50]}`, false, 0, 0, FormatCoords},
		{"invalid earlier format does not fall through", `{"souradnice":[15,95],"gps":"50,15"}`, false, 0, 0, FormatSouradnice},
		{"short sequence skipped", `{"souradnice":[15],"gps":[50,15]}`, true, 50, 15, FormatGPS},
		{"non numeric element skipped", `{"souradnice":["15","50"]}`, false, 0, 0, FormatNone},
		{"gps garbage", `{"gps":"abc,def"}`, false, 0, 0, FormatNone},
		{"gps single value", `{"gps":"50.1"}`, false, 0, 0, FormatNone},
		{"nothing", `{"nazev":"Bez souřadnic"}`, false, 0, 0, FormatNone},
		{"boundary values", `{"coordinates":[-180,-90]}`, true, -90, -180, FormatCoords},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, format, ok := ResolveCoordinatesFormat(record(t, tt.rec))
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if format != tt.format {
				t.Fatalf("format = %q, want %q", format, tt.format)
			}
			if !ok {
				return
			}
			if c.Lat != tt.lat || c.Lon != tt.lon {
				t.Fatalf("got (%v, %v), want (%v, %v)", c.Lat, c.Lon, tt.lat, tt.lon)
			}
		})
	}
}

func TestResolveCoordinatesRejectsNonFinite(t *testing.T) {
	recs := []domain.PlaceRecord{
		{"coordinates": []any{math.Inf(1), 50.0}},
		{"souradnice": []float64{15, math.NaN()}},
		{"gps": "NaN,15"},
	}
	for i, rec := range recs {
		if _, ok := ResolveCoordinates(rec); ok {
			t.Fatalf("record %d: expected no coordinates", i)
		}
	}
}

func TestResolveCoordinatesNilRecord(t *testing.T) {
	if _, ok := ResolveCoordinates(nil); ok {
		t.Fatalf("expected no coordinates for nil record")
	}
}

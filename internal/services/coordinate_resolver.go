package services

import (
	"encoding/json"
	"math"
	"place-map-service/internal/domain"
	"strconv"
	"strings"
)

// Record layout a coordinate pair was read from.
type CoordinateFormat string

const (
	FormatNone       CoordinateFormat = ""
	FormatLatLon     CoordinateFormat = "lat_lon"
	FormatSouradnice CoordinateFormat = "souradnice"
	FormatGeometry   CoordinateFormat = "geometry.coordinates"
	FormatCoords     CoordinateFormat = "coordinates"
	FormatGPS        CoordinateFormat = "gps"
)

type extractor struct {
	format  CoordinateFormat
	extract func(domain.PlaceRecord) (domain.Coordinates, bool)
}

// Tried in order; the first one that matches decides the outcome.
var extractors = []extractor{
	{FormatLatLon, extractLatLon},
	{FormatSouradnice, func(r domain.PlaceRecord) (domain.Coordinates, bool) { return lonLatPair(r["souradnice"]) }},
	{FormatGeometry, extractGeometry},
	{FormatCoords, func(r domain.PlaceRecord) (domain.Coordinates, bool) { return lonLatPair(r["coordinates"]) }},
	{FormatGPS, extractGPS},
}

// ResolveCoordinates extracts a validated coordinate pair from a record of
// unknown shape. ok is false when no format matches or when the matching
// format holds a non-finite or out-of-range pair.
func ResolveCoordinates(rec domain.PlaceRecord) (domain.Coordinates, bool) {
	c, _, ok := ResolveCoordinatesFormat(rec)
	return c, ok
}

// Like ResolveCoordinates, also reporting which format matched. The format is
// returned even when validation rejects the pair.
func ResolveCoordinatesFormat(rec domain.PlaceRecord) (domain.Coordinates, CoordinateFormat, bool) {
	if rec == nil {
		return domain.Coordinates{}, FormatNone, false
	}

	for _, e := range extractors {
		c, matched := e.extract(rec)
		if !matched {
			continue
		}
		if !c.Valid() {
			return domain.Coordinates{}, e.format, false
		}
		return c, e.format, true
	}

	return domain.Coordinates{}, FormatNone, false
}

func extractLatLon(r domain.PlaceRecord) (domain.Coordinates, bool) {
	lat, ok := truthyNumber(r["lat"])
	if !ok {
		return domain.Coordinates{}, false
	}
	lon, ok := truthyNumber(r["lon"])
	if !ok {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat, Lon: lon}, true
}

func extractGeometry(r domain.PlaceRecord) (domain.Coordinates, bool) {
	geom, ok := r.Object("geometry")
	if !ok {
		return domain.Coordinates{}, false
	}
	return lonLatPair(geom["coordinates"])
}

func extractGPS(r domain.PlaceRecord) (domain.Coordinates, bool) {
	switch v := r["gps"].(type) {
	case string:
		parts := strings.Split(v, ",")
		if len(parts) < 2 {
			return domain.Coordinates{}, false
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return domain.Coordinates{}, false
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return domain.Coordinates{}, false
		}
		return domain.Coordinates{Lat: lat, Lon: lon}, true
	default:
		a, b, ok := numberPair(v)
		if !ok {
			return domain.Coordinates{}, false
		}
		// gps sequences are [lat, lon], unlike the other array formats.
		return domain.Coordinates{Lat: a, Lon: b}, true
	}
}

func lonLatPair(v any) (domain.Coordinates, bool) {
	lon, lat, ok := numberPair(v)
	if !ok {
		return domain.Coordinates{}, false
	}
	return domain.Coordinates{Lat: lat, Lon: lon}, true
}

// Read the first two elements of a numeric sequence. Extra elements
// (altitude) are ignored.
func numberPair(v any) (float64, float64, bool) {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []float64:
		if len(t) < 2 {
			return 0, 0, false
		}
		return t[0], t[1], true
	default:
		return 0, 0, false
	}

	if len(items) < 2 {
		return 0, 0, false
	}
	a, ok := number(items[0])
	if !ok {
		return 0, 0, false
	}
	b, ok := number(items[1])
	if !ok {
		return 0, 0, false
	}
	return a, b, true
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

// A number that is present, non-zero and not NaN.
func truthyNumber(v any) (float64, bool) {
	f, ok := number(v)
	if !ok || f == 0 || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

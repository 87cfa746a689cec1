package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// A place as returned by the backend. The shape is owned by the backend,
// so fields are read through the accessors below instead of a fixed struct.
type PlaceRecord map[string]any

// Return the trimmed text value of a field, or "" when it is missing or empty.
// Numbers are formatted without a trailing fraction so numeric ids compare as text.
func (p PlaceRecord) Text(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}

	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case int, int64, int32:
		return fmt.Sprintf("%d", t)
	case bool:
		return strconv.FormatBool(t)
	}

	return ""
}

// Return the first non-empty text value among keys.
func (p PlaceRecord) FirstText(keys ...string) string {
	for _, k := range keys {
		if s := p.Text(k); s != "" {
			return s
		}
	}
	return ""
}

// Backend identifier of the place (dp_id, falling back to id).
func (p PlaceRecord) ID() string {
	return p.FirstText("dp_id", "id")
}

// Human readable name, "" when the record has none.
func (p PlaceRecord) Name() string {
	return p.Text("nazev")
}

// Label used for category matching: kategorie, falling back to source_file.
func (p PlaceRecord) CategoryLabel() string {
	return p.FirstText("kategorie", "source_file")
}

// Nested object stored under key, if any.
func (p PlaceRecord) Object(key string) (PlaceRecord, bool) {
	switch t := p[key].(type) {
	case map[string]any:
		return PlaceRecord(t), true
	case PlaceRecord:
		return t, true
	}
	return nil, false
}

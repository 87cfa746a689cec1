package domain

// Category of a place, derived from its category label.
type Category string

const (
	CategoryCulture    Category = "kultura"
	CategoryNature     Category = "příroda"
	CategoryGastronomy Category = "gastronomie"
	CategoryLeisure    Category = "zábava"
	CategoryWellness   Category = "wellness"
	CategoryDefault    Category = "default"
)

var glyphs = map[Category]string{
	CategoryCulture:    "🏛️",
	CategoryNature:     "🌳",
	CategoryGastronomy: "🍽️",
	CategoryLeisure:    "🎬",
	CategoryWellness:   "💆",
	CategoryDefault:    "📍",
}

// Emoji drawn inside the marker icon.
func (c Category) Glyph() string {
	if g, ok := glyphs[c]; ok {
		return g
	}
	return glyphs[CategoryDefault]
}

// Icon geometry in pixels.
type Icon struct {
	Size   [2]int `json:"size"`
	Anchor [2]int `json:"anchor"`
}

type Popup struct {
	Label    string `json:"label,omitempty"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Locality string `json:"locality,omitempty"`
}

// A place placed on the map.
type Marker struct {
	ID           string      `json:"id"`
	Position     Coordinates `json:"position"`
	Category     Category    `json:"category"`
	Glyph        string      `json:"glyph"`
	Primary      bool        `json:"primary"`
	Icon         Icon        `json:"icon"`
	ZIndexOffset int         `json:"z_index_offset"`
	Popup        Popup       `json:"popup"`
	Record       PlaceRecord `json:"record"`
}

// Ordered markers of one render pass. Index 0 is the primary recommendation.
type MarkerSet []Marker

func (s MarkerSet) Primary() (Marker, bool) {
	if len(s) == 0 {
		return Marker{}, false
	}
	return s[0], true
}

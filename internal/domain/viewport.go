package domain

type ViewportKind string

const (
	ViewportUnchanged ViewportKind = "unchanged"
	ViewportCenter    ViewportKind = "center"
	ViewportFitBounds ViewportKind = "fit_bounds"
)

// Camera instruction for the map widget. Only the fields matching Kind are set.
type Viewport struct {
	Kind            ViewportKind `json:"kind"`
	Center          *Coordinates `json:"center,omitempty"`
	Zoom            int          `json:"zoom,omitempty"`
	Bounds          *Bounds      `json:"bounds,omitempty"`
	Padding         []int        `json:"padding,omitempty"`
	DurationSeconds float64      `json:"duration_seconds,omitempty"`
}

// Initial map position shown before any recommendation arrives.
type MapDefaults struct {
	Center Coordinates `json:"center"`
	Zoom   int         `json:"zoom"`
}

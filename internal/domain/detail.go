package domain

// Detail panel content for one place.
type PlaceDetail struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Description  string       `json:"description"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	CoordsText   string       `json:"coordinates_text,omitempty"`
	OpeningHours string       `json:"opening_hours"`
	Phone        string       `json:"phone,omitempty"`
	Email        string       `json:"email,omitempty"`
	Website      string       `json:"website,omitempty"`
	NavigateURL  string       `json:"navigate_url,omitempty"`
}

type DetailError struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Either Detail or Error is set.
type DetailPanel struct {
	Detail *PlaceDetail `json:"detail,omitempty"`
	Error  *DetailError `json:"error,omitempty"`
}

func (p DetailPanel) Failed() bool { return p.Error != nil }

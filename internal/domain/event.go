package domain

const (
	EventStatus         = "status"
	EventPlaceDetail    = "place-detail"
	EventHighlight      = "highlight"
	EventCommandLoading = "command-loading"
)

// Message pushed to browsers. An empty SessionID is a broadcast.
type Event struct {
	Name      string
	SessionID string
	Data      any
}

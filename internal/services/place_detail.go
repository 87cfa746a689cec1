package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"place-map-service/internal/domain"
	"place-map-service/internal/platform/obs"
	"place-map-service/internal/ports"
	"strings"
)

var ErrMissingPlaceID = errors.New("place id is empty")

// DetailService loads places from the backend and shapes them for the detail panel.
type DetailService struct {
	backend ports.PlaceBackend
}

func NewDetailService(backend ports.PlaceBackend) *DetailService {
	return &DetailService{backend: backend}
}

func (s *DetailService) Fetch(ctx context.Context, id string) (_ domain.PlaceRecord, err error) {
	defer obs.Time(ctx, "detail.Fetch")(&err)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingPlaceID
	}

	rec, err := s.backend.GetPlace(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch place %q: %w", id, err)
	}
	return rec, nil
}

// Load fetches a place and returns its panel. Failures become an error panel.
func (s *DetailService) Load(ctx context.Context, id string) domain.DetailPanel {
	rec, err := s.Fetch(ctx, id)
	if err != nil {
		return ErrorPanel(id, err)
	}
	detail := BuildPlaceDetail(rec)
	if detail.ID == "" {
		detail.ID = strings.TrimSpace(id)
	}
	return domain.DetailPanel{Detail: &detail}
}

// ErrorPanel maps a fetch failure to its user-facing message.
func ErrorPanel(id string, err error) domain.DetailPanel {
	id = strings.TrimSpace(id)
	msg := domain.MsgServerUnreachable

	switch code, ok := ports.StatusCode(err); {
	case errors.Is(err, ErrMissingPlaceID):
		msg = domain.MsgMissingID
	case ok && code == http.StatusNotFound:
		msg = domain.MsgPlaceNotFound(id)
	case ok:
		msg = domain.MsgAPIError(code)
	}

	return domain.DetailPanel{Error: &domain.DetailError{
		Title:   domain.MsgDetailErrorTitle,
		Message: msg,
		ID:      id,
	}}
}

// BuildPlaceDetail fills the panel fields of a record, applying fallbacks
// for whatever the record lacks.
func BuildPlaceDetail(rec domain.PlaceRecord) domain.PlaceDetail {
	d := domain.PlaceDetail{
		ID:           rec.ID(),
		Name:         rec.FirstText("nazev", "dp_id"),
		Description:  rec.FirstText("popis", "zamereni_muzea"),
		OpeningHours: rec.FirstText("oteviraci_doba", "pozn_oteviraci_doba"),
		Category:     rec.FirstText("typ_muzea", "typ"),
		Phone:        rec.Text("telefon"),
		Email:        rec.Text("email"),
		Website:      rec.Text("www"),
	}

	if d.Name == "" {
		d.Name = domain.MsgNoName
	}
	if d.Description == "" {
		d.Description = domain.MsgNoDescription
	}
	if d.OpeningHours == "" {
		d.OpeningHours = domain.MsgNoOpeningHours
	}
	if d.Category == "" {
		d.Category = string(Categorize(rec.Text("source_file")))
	}

	if c, ok := ResolveCoordinates(rec); ok {
		d.Coordinates = &c
		d.CoordsText = fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
		d.NavigateURL = domain.NavigateURL(c)
	}

	return d
}

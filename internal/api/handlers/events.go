package handlers

import (
	"net/http"
	"place-map-service/internal/platform/logging"
	"time"
)

// Events serves the event stream. The server write timeout does not apply
// to this long-lived response.
func Events(stream http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			logger := logging.GetFromContext(r.Context())
			logger.Debug().Err(err).Msg("clear write deadline")
		}
		stream.ServeHTTP(w, r)
	}
}

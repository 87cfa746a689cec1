package api

import (
	"net/http"
	"place-map-service/internal/api/handlers"
	"place-map-service/internal/domain"
	"place-map-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/riandyrn/otelchi"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// Dependencies of the HTTP surface. Events may be nil when no browser push is wired.
type Deps struct {
	ServiceName    string
	AllowedOrigins []string
	Logger         zerolog.Logger

	Chat     *services.ChatService
	Details  *services.DetailService
	Renderer *services.MapRenderer
	Health   *services.HealthMonitor
	Events   http.Handler
	Map      domain.MapDefaults
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", requestIDHeader},
		AllowCredentials: true,
	}).Handler)
	r.Use(otelchi.Middleware(d.ServiceName, otelchi.WithChiRoutes(r)))
	r.Use(loggingMiddleware(d.Logger))

	chat := &handlers.ChatHandler{Chat: d.Chat}
	places := &handlers.PlaceHandler{Details: d.Details}
	render := &handlers.RenderHandler{Renderer: d.Renderer}
	status := &handlers.StatusHandler{Monitor: d.Health}
	mapCfg := &handlers.MapHandler{Defaults: d.Map, Options: d.Renderer.Options()}

	r.Get("/health", handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", status.Status)
		r.Get("/map", mapCfg.Config)

		r.Post("/sessions", chat.Create)
		r.Post("/sessions/{id}/messages", chat.Message)
		r.Post("/sessions/{id}/reset", chat.Reset)
		r.Get("/sessions/{id}/search", chat.Search)

		r.Get("/places/{id}", places.Get)
		r.Post("/render", render.Render)
		r.Post("/coordinates", render.Coordinates)

		if d.Events != nil {
			r.Get("/events", handlers.Events(d.Events))
		}
	})

	return r
}

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/FACorreiaa/go-trip-planner/internal/api/itinerary"
	"github.com/FACorreiaa/go-trip-planner/internal/api/preferences"
	"github.com/FACorreiaa/go-trip-planner/internal/api/trips"
)

// Config contains the handlers the router wires up.
type Config struct {
	ItineraryHandler   *itinerary.Handler
	TripsHandler       *trips.Handler
	PreferencesHandler *preferences.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Session-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/itineraries", func(r chi.Router) {
			r.Post("/", cfg.ItineraryHandler.Generate)
			r.Post("/multi-city", cfg.ItineraryHandler.GenerateMultiCity)
			r.Get("/session/{sessionID}", cfg.ItineraryHandler.GetSession)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripsHandler.SaveTrip)
			r.Get("/", cfg.TripsHandler.ListTrips)
			r.Get("/{tripID}", cfg.TripsHandler.GetTrip)
			r.Patch("/{tripID}/status", cfg.TripsHandler.UpdateTripStatus)
			r.Delete("/{tripID}", cfg.TripsHandler.DeleteTrip)
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", cfg.PreferencesHandler.GetPreferences)
			r.Put("/", cfg.PreferencesHandler.UpdatePreferences)
		})
	})

	return r
}

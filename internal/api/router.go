package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware())
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Spatial views
		r.Route("/buildings", func(r chi.Router) {
			r.Get("/", s.handleListBuildings)
			r.Get("/{code}", s.handleGetBuilding)
			r.Get("/{code}/rooms", s.handleListBuildingRooms)
			r.Get("/{code}/occupancy", s.handleBuildingOccupancy)
		})
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", s.handleListRooms)
			r.Get("/free", s.handleFreeRooms)
			r.Get("/{code}", s.handleGetRoom)
		})
		r.Get("/floors", s.handleListFloors)

		// Occupancy rollups across all buildings
		r.Get("/occupancy", s.handleOccupancyOverview)

		// Aggregated schedule
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/days", s.handleScheduleDays)
			r.Get("/now", s.handleScheduleNow)
		})

		// Feed ingestion
		r.Route("/ingest", func(r chi.Router) {
			r.Post("/facility", s.handleIngestFacility)
			r.Post("/reservations", s.handleIngestReservations)
			r.Post("/schedule", s.handleIngestSchedule)
		})
	})

	return r
}

// corsMiddleware builds the CORS handler from configuration. An empty
// origin list allows all origins (dev mode).
func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	origins := s.cfg.API.CORS.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}).Handler
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

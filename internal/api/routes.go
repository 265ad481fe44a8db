package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/fields", h.Fields)

		r.Put("/records", h.ReplaceRecords)
		r.Get("/records/requests", h.ListRequestIDs)
		r.Get("/records/requests/{id}", h.GetRequest)
		r.Patch("/records/requests/{id}", h.UpdateRequest)

		r.Get("/metrics/summary", h.Summary)
		r.Get("/metrics/distribution", h.Distribution)
		r.Get("/metrics/breakdown", h.Breakdown)
		r.Get("/metrics/stages", h.Stages)
	})

	return r
}

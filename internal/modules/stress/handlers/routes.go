package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all stress routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/stress", func(r chi.Router) {
		r.Get("/parameters", h.HandleGetParameters)
		r.Get("/presets", h.HandleGetPresets)
		r.Get("/presets/{name}", h.HandleGetPreset)
		r.Post("/evaluate", h.HandleEvaluate)
		r.Post("/scenarios", h.HandleScenarios) // Current followed by presets

		r.Route("/runs", func(r chi.Router) {
			r.Get("/", h.HandleListRuns)
			r.Get("/{id}", h.HandleGetRun)
		})
	})
}

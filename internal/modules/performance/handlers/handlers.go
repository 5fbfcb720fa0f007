// Package handlers provides HTTP handlers for performance reporting.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/aristath/reservestress/internal/modules/performance"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles performance HTTP requests
type Handler struct {
	service *performance.Service
	log     zerolog.Logger
}

// NewHandler creates a new performance handler
func NewHandler(service *performance.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "performance").Logger(),
	}
}

// HandleGetReport returns the benchmark performance of the stored portfolio
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build performance report")
		h.writeError(w, http.StatusInternalServerError, "failed to build performance report")
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

// RegisterRoutes registers all performance routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/performance", h.HandleGetReport)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

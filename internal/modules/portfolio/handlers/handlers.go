// Package handlers provides HTTP handlers for the stored portfolio.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/internal/modules/portfolio"
	"github.com/rs/zerolog"
)

// maxImportBytes bounds the size of an uploaded portfolio file
const maxImportBytes = 1 << 20

// Handler handles portfolio HTTP requests
type Handler struct {
	service *portfolio.Service
	log     zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(service *portfolio.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "portfolio").Logger(),
	}
}

type portfolioResponse struct {
	Holdings   domain.Portfolio        `json:"holdings"`
	Count      int                     `json:"count"`
	TotalValue float64                 `json:"total_value"`
	LastImport *portfolio.ImportRecord `json:"last_import,omitempty"`
}

// HandleGetPortfolio returns the stored holdings and their total
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.service.Holdings(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load holdings")
		h.writeError(w, http.StatusInternalServerError, "failed to load holdings")
		return
	}

	last, err := h.service.LastImport(r.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to load last import")
	}

	h.writeJSON(w, http.StatusOK, portfolioResponse{
		Holdings:   holdings,
		Count:      len(holdings),
		TotalValue: holdings.TotalValue(),
		LastImport: last,
	})
}

// HandleImport replaces the stored holdings with the CSV request body
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	defer body.Close()

	holdings, err := h.service.Import(r.Context(), body, "api")
	if err != nil {
		if errors.Is(err, portfolio.ErrInvalidHolding) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "portfolio file too large")
			return
		}
		h.log.Error().Err(err).Msg("Failed to import portfolio")
		h.writeError(w, http.StatusInternalServerError, "failed to import portfolio")
		return
	}

	h.writeJSON(w, http.StatusOK, portfolioResponse{
		Holdings:   holdings,
		Count:      len(holdings),
		TotalValue: holdings.TotalValue(),
	})
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

// Package handlers provides HTTP handlers for market data.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/internal/modules/market"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultHistoryDays = 365
	maxHistoryDays     = 365 * 10
)

// Handler handles market data HTTP requests
type Handler struct {
	service *market.Service
	log     zerolog.Logger
}

// NewHandler creates a new market handler
func NewHandler(service *market.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "market").Logger(),
	}
}

// HandleGetSnapshot returns the current snapshot; ?refresh=true bypasses the cache
func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	snapshot, err := h.service.Snapshot(r.Context(), refresh)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get market snapshot")
		h.writeError(w, http.StatusInternalServerError, "failed to get market snapshot")
		return
	}
	h.writeJSON(w, http.StatusOK, snapshot)
}

type historyResponse struct {
	Symbol string              `json:"symbol"`
	Days   int                 `json:"days"`
	Points []domain.PricePoint `json:"points"`
}

// HandleGetHistory returns stored daily levels of one index; ?days=N limits the window
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	days := defaultHistoryDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryDays {
			h.writeError(w, http.StatusBadRequest, "days must be between 1 and 3650")
			return
		}
		days = n
	}

	points, err := h.service.History(r.Context(), symbol, days)
	if err != nil {
		h.log.Error().Err(err).Str("symbol", symbol).Msg("Failed to load index history")
		h.writeError(w, http.StatusInternalServerError, "failed to load index history")
		return
	}
	h.writeJSON(w, http.StatusOK, historyResponse{Symbol: symbol, Days: days, Points: points})
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

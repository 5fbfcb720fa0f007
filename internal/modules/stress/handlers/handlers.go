// Package handlers provides HTTP handlers for stress evaluation.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aristath/reservestress/internal/modules/stress"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles stress HTTP requests
type Handler struct {
	service *stress.Service
	log     zerolog.Logger
}

// NewHandler creates a new stress handler
func NewHandler(service *stress.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "stress").Logger(),
	}
}

// ParametersResponse describes the accepted parameters and the active configuration
type ParametersResponse struct {
	Ranges   []stress.Range    `json:"ranges"`
	Defaults stress.Parameters `json:"defaults"`
	Config   stress.Config     `json:"config"`
}

// EvaluateResponse is the result of a single evaluation
type EvaluateResponse struct {
	RunID  string        `json:"run_id"`
	Result stress.Result `json:"result"`
}

// ScenariosResponse is the result of a scenario comparison
type ScenariosResponse struct {
	RunID      string                  `json:"run_id"`
	Scenarios  []stress.ScenarioResult `json:"scenarios"`
	Comparison []stress.ComparisonRow  `json:"comparison"`
}

// HandleGetParameters returns parameter ranges, defaults and thresholds
func (h *Handler) HandleGetParameters(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, ParametersResponse{
		Ranges:   stress.ParameterRanges,
		Defaults: stress.DefaultParameters(),
		Config:   h.service.Config(),
	})
}

// HandleGetPresets returns the preset scenarios in display order
func (h *Handler) HandleGetPresets(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, stress.PresetScenarios())
}

// HandleGetPreset returns one preset scenario by name
func (h *Handler) HandleGetPreset(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid scenario name")
		return
	}

	params, ok := stress.PresetScenarios().Lookup(name)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown scenario: "+name)
		return
	}
	h.writeJSON(w, http.StatusOK, stress.Scenario{Name: name, Parameters: params})
}

// HandleEvaluate evaluates the stored portfolio under the posted parameters
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodeParameters(w, r)
	if !ok {
		return
	}

	run, err := h.service.Evaluate(r.Context(), params)
	if err != nil {
		h.log.Error().Err(err).Msg("Stress evaluation failed")
		h.writeError(w, http.StatusInternalServerError, "stress evaluation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, EvaluateResponse{RunID: run.ID, Result: run.Results[0].Result})
}

// HandleScenarios compares the posted parameters against every preset
func (h *Handler) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	params, ok := h.decodeParameters(w, r)
	if !ok {
		return
	}

	run, err := h.service.CompareScenarios(r.Context(), params)
	if err != nil {
		h.log.Error().Err(err).Msg("Scenario comparison failed")
		h.writeError(w, http.StatusInternalServerError, "scenario comparison failed")
		return
	}

	h.writeJSON(w, http.StatusOK, ScenariosResponse{
		RunID:      run.ID,
		Scenarios:  run.Results,
		Comparison: stress.Compare(run.Results),
	})
}

// HandleListRuns returns recent runs, newest first
func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := h.service.Runs(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list stress runs")
		h.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	h.writeJSON(w, http.StatusOK, runs)
}

// HandleGetRun returns one run with its results
func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.Run(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, stress.ErrRunNotFound) {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load stress run")
		h.writeError(w, http.StatusInternalServerError, "failed to load run")
		return
	}
	h.writeJSON(w, http.StatusOK, run)
}

// decodeParameters reads a parameter set from the body. Absent fields keep
// their defaults; an empty body means all defaults.
func (h *Handler) decodeParameters(w http.ResponseWriter, r *http.Request) (stress.Parameters, bool) {
	params := stress.DefaultParameters()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "invalid parameters: "+err.Error())
		return params, false
	}

	if err := params.Validate(); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return params, false
	}
	return params, true
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

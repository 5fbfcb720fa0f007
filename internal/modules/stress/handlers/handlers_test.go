package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aristath/reservestress/internal/database"
	"github.com/aristath/reservestress/internal/evaluation/workers"
	"github.com/aristath/reservestress/internal/modules/stress"
	testingpkg "github.com/aristath/reservestress/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	db, cleanup := testingpkg.NewTestDB(t, database.NameStress)
	t.Cleanup(cleanup)

	evaluator := stress.NewEvaluator(stress.DefaultConfig(), workers.NewWorkerPool(2), zerolog.Nop())
	svc := stress.NewService(
		testingpkg.NewMockPortfolioSource(testingpkg.NewHoldingFixtures()),
		evaluator,
		stress.NewRunRepository(db.Conn(), zerolog.Nop()),
		nil,
		zerolog.Nop(),
	)

	router := chi.NewRouter()
	NewHandler(svc, zerolog.Nop()).RegisterRoutes(router)
	return router
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes(t *testing.T) {
	router := newTestRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/stress/parameters"},
		{http.MethodGet, "/stress/presets"},
		{http.MethodPost, "/stress/evaluate"},
		{http.MethodPost, "/stress/scenarios"},
		{http.MethodGet, "/stress/runs/"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := do(router, tc.method, tc.path, "")
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
}

func TestHandleGetParameters(t *testing.T) {
	w := do(newTestRouter(t), http.MethodGet, "/stress/parameters", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ParametersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Ranges, 6)
	assert.Equal(t, stress.DefaultParameters(), resp.Defaults)
	assert.Equal(t, 2_400_000.0, resp.Config.AnnualOpex)
}

func TestHandleEvaluate(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/stress/evaluate", `{"multi_asset_drawdown": -0.4, "redemption_freeze_days": 30}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, -0.4, resp.Result.Parameters.MultiAssetDrawdown)
	assert.Equal(t, 30, resp.Result.Parameters.RedemptionFreezeDays)
	assert.Equal(t, stress.DefaultParameters().InflationSpike, resp.Result.Parameters.InflationSpike, "absent fields keep defaults")
	assert.Equal(t, 1_200_000.0, resp.Result.OriginalValue)
	assert.NotEmpty(t, resp.Result.Insights)

	w = do(router, http.MethodGet, "/stress/runs/"+resp.RunID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var run stress.Run
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &run))
	assert.Equal(t, resp.RunID, run.ID)
	assert.Equal(t, resp.Result, run.Results[0].Result)
}

func TestHandleEvaluate_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "out of range", body: `{"interest_rate_shock": 0.5}`, message: "interest_rate_shock"},
		{name: "unknown field", body: `{"volatility_multiplier": 2}`, message: "invalid parameters"},
		{name: "malformed", body: `{"counterparty_risk":`, message: "invalid parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/stress/evaluate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.message)
		})
	}
}

func TestHandleScenarios(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodPost, "/stress/scenarios", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ScenariosResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Comparison, 6)
	assert.Equal(t, stress.CurrentScenarioName, resp.Comparison[0].Scenario)
	assert.Equal(t, "COVID-19 Scenario", resp.Comparison[5].Scenario)
	for i := range resp.Comparison {
		assert.Equal(t, resp.Scenarios[i].Name, resp.Comparison[i].Scenario)
	}
}

func TestHandleRuns(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/stress/runs/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodGet, "/stress/runs/?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/stress/evaluate", "").Code)
	w = do(router, http.MethodGet, "/stress/runs/?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var runs []stress.RunSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, stress.RunKindEvaluation, runs[0].Kind)
}

func TestHandleGetPreset(t *testing.T) {
	router := newTestRouter(t)

	w := do(router, http.MethodGet, "/stress/presets/Severe%20Crisis", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var scenario stress.Scenario
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scenario))
	assert.Equal(t, "Severe Crisis", scenario.Name)
	assert.Equal(t, 0.05, scenario.Parameters.CounterpartyRisk)
	assert.Equal(t, 30, scenario.Parameters.RedemptionFreezeDays)

	w = do(router, http.MethodGet, "/stress/presets/Dotcom", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/reservestress/internal/clientdata"
	"github.com/aristath/reservestress/internal/database"
	"github.com/aristath/reservestress/internal/domain"
	"github.com/aristath/reservestress/internal/modules/market"
	testingpkg "github.com/aristath/reservestress/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (chi.Router, *market.HistoryRepository) {
	t.Helper()
	cacheDB, cleanupCache := testingpkg.NewTestDB(t, database.NameCache)
	t.Cleanup(cleanupCache)
	historyDB, cleanupHistory := testingpkg.NewTestDB(t, database.NameHistory)
	t.Cleanup(cleanupHistory)

	history := market.NewHistoryRepository(historyDB.Conn(), zerolog.Nop())
	svc := market.NewService(nil, clientdata.NewRepository(cacheDB.Conn()), history, nil, time.Hour, zerolog.Nop())

	router := chi.NewRouter()
	NewHandler(svc, zerolog.Nop()).RegisterRoutes(router)
	return router, history
}

func TestHandleGetSnapshot_Fallback(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/market/snapshot?refresh=true", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var snapshot domain.MarketSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	assert.Equal(t, market.SourceFallback, snapshot.Source)
	assert.Equal(t, 0.0325, snapshot.Rates.SORA)
}

func TestHandleGetHistory(t *testing.T) {
	router, history := newTestRouter(t)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	require.NoError(t, history.UpsertIndexPrices(context.Background(), domain.IndexSTI, []domain.PricePoint{
		{Date: today.AddDate(0, 0, -100), Value: 100},
		{Date: today.AddDate(0, 0, -1), Value: 101},
	}))

	req := httptest.NewRequest(http.MethodGet, "/market/history/STI?days=30", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp historyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "STI", resp.Symbol)
	assert.Equal(t, 30, resp.Days)
	require.Len(t, resp.Points, 1)
	assert.Equal(t, 101.0, resp.Points[0].Value)
}

func TestHandleGetHistory_InvalidDays(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, days := range []string{"0", "-5", "abc", "99999"} {
		req := httptest.NewRequest(http.MethodGet, "/market/history/STI?days="+days, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, days)
	}
}

package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "last_updated": "2026-03-02T00:00:00Z",
  "singapore_rates": {"sora_rate": 0.03, "12m_treasury": 0.035, "fd_rates_average": 0.032},
  "market_indices": {
    "STI": {
      "current_price": 110,
      "history": [
        {"date": "2026-02-28T00:00:00Z", "value": 105},
        {"date": "2026-02-27T00:00:00Z", "value": 100}
      ]
    }
  },
  "currency_rates": {"SGD_USD": 0.74},
  "bond_yields": {"10y_sgs": 0.039}
}`

func TestClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/market.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/market.json", zerolog.Nop())
	snapshot, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceRemote, snapshot.Source)
	assert.Equal(t, 0.03, snapshot.Rates.SORA)
	assert.Equal(t, 0.035, snapshot.Rates.Treasury12M)

	sti := snapshot.Indices[domain.IndexSTI]
	assert.Equal(t, 110.0, sti.CurrentPrice)
	require.Len(t, sti.History, 2)
	assert.Equal(t, 100.0, sti.History[0].Value, "history is sorted oldest first")
	assert.Equal(t, 0.74, snapshot.CurrencyRates["SGD_USD"])
}

func TestClientFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, zerolog.Nop()).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClientFetch_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, zerolog.Nop()).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse market data")
}

package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/aristath/reservestress/internal/domain"
	"github.com/rs/zerolog"
)

// Fetcher retrieves a complete snapshot from an upstream source
type Fetcher interface {
	Fetch(ctx context.Context) (*domain.MarketSnapshot, error)
}

// Client fetches market snapshots published as JSON at a fixed URL
type Client struct {
	url    string
	client *http.Client
	log    zerolog.Logger
}

// NewClient creates a new market data client
func NewClient(url string, log zerolog.Logger) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log.With().Str("client", "market-data").Logger(),
	}
}

// Fetch downloads and decodes the snapshot. Index and rate histories are
// sorted by date; the source is set to SourceRemote when the payload leaves
// it empty.
func (c *Client) Fetch(ctx context.Context) (*domain.MarketSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug().Str("url", c.url).Msg("Fetching market snapshot")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market data request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market data source returned status %d", resp.StatusCode)
	}

	var snapshot domain.MarketSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse market data: %w", err)
	}

	if snapshot.Source == "" {
		snapshot.Source = SourceRemote
	}
	for name, index := range snapshot.Indices {
		sort.Slice(index.History, func(i, j int) bool {
			return index.History[i].Date.Before(index.History[j].Date)
		})
		snapshot.Indices[name] = index
	}
	sort.Slice(snapshot.Rates.History, func(i, j int) bool {
		return snapshot.Rates.History[i].Date.Before(snapshot.Rates.History[j].Date)
	})

	return &snapshot, nil
}

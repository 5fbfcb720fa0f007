package market

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aristath/reservestress/internal/domain"
)

// ErrInvalidSnapshot is wrapped by every validation failure
var ErrInvalidSnapshot = errors.New("invalid market snapshot")

// MaxRate bounds every Singapore rate level
const MaxRate = 0.20

// Validate checks a fetched snapshot before it is cached or recorded.
// All problems are reported together.
func Validate(s *domain.MarketSnapshot) error {
	if s == nil {
		return fmt.Errorf("%w: empty snapshot", ErrInvalidSnapshot)
	}

	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidSnapshot}, args...)...))
	}

	if s.Rates.SORA <= 0 {
		fail("missing SORA rate")
	}
	rates := []struct {
		name  string
		value float64
	}{
		{"sora_rate", s.Rates.SORA},
		{"12m_treasury", s.Rates.Treasury12M},
		{"fd_rates_average", s.Rates.FDAverage},
	}
	for _, r := range rates {
		if r.value < 0 || r.value > MaxRate {
			fail("%s = %g outside [0, %g]", r.name, r.value, MaxRate)
		}
	}

	if len(s.Indices) == 0 {
		fail("no market indices")
	}
	for _, name := range sortedKeys(s.Indices) {
		if s.Indices[name].CurrentPrice <= 0 {
			fail("index %s has non-positive price %g", name, s.Indices[name].CurrentPrice)
		}
	}

	if len(s.CurrencyRates) == 0 {
		fail("no currency rates")
	}
	for _, pair := range sortedKeys(s.CurrencyRates) {
		if s.CurrencyRates[pair] <= 0 {
			fail("currency rate %s is non-positive", pair)
		}
	}

	if s.LastUpdated.IsZero() {
		fail("missing last_updated")
	}

	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

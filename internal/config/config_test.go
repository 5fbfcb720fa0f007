package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aristath/reservestress/internal/modules/stress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("RESERVE_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.DirExists(t, dir)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "SGD", cfg.ReportingCurrency)
	assert.Equal(t, 2_400_000.0, cfg.Reserve.AnnualOpex)
	assert.Equal(t, 7*24*time.Hour, cfg.MarketCacheTTL())
	assert.Equal(t, 0.025, cfg.Market.RiskFreeRate)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, stress.DefaultConfig(), cfg.StressConfig())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RESERVE_DATA_DIR", t.TempDir())
	t.Setenv("PORT", "9100")
	t.Setenv("ANNUAL_OPEX", "1000000")
	t.Setenv("LIQUIDITY_BREACH_DAYS", "60")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("EVALUATION_WORKERS", "3")
	t.Setenv("MARKET_CACHE_DAYS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 3, cfg.EvaluationWorkers)
	assert.Equal(t, 7, cfg.Market.CacheDays, "unparsable values fall back to defaults")

	sc := cfg.StressConfig()
	assert.Equal(t, 1_000_000.0, sc.AnnualOpex)
	assert.Equal(t, 60.0, sc.LiquidityBreachDays)
	assert.NotEmpty(t, sc.Profiles)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{name: "zero opex", env: map[string]string{"ANNUAL_OPEX": "0"}, msg: "ANNUAL_OPEX"},
		{name: "negative months", env: map[string]string{"RESERVE_MONTHS_REQUIRED": "-1"}, msg: "RESERVE_MONTHS_REQUIRED"},
		{name: "NaN opex", env: map[string]string{"ANNUAL_OPEX": "NaN"}, msg: "ANNUAL_OPEX"},
		{name: "infinite threshold", env: map[string]string{"VOLATILITY_BREACH_THRESHOLD": "+Inf"}, msg: "VOLATILITY_BREACH_THRESHOLD"},
		{name: "NaN liquidity days", env: map[string]string{"LIQUIDITY_BREACH_DAYS": "nan"}, msg: "LIQUIDITY_BREACH_DAYS"},
		{name: "NaN risk-free rate", env: map[string]string{"RISK_FREE_RATE": "NaN"}, msg: "RISK_FREE_RATE"},
		{name: "backup without credentials", env: map[string]string{"BACKUP_ENABLED": "true", "BACKUP_BUCKET": "b"}, msg: "BACKUP_ENABLED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RESERVE_DATA_DIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/aristath/reservestress/internal/clientdata"
	"github.com/aristath/reservestress/internal/modules/stress"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir           string // Base directory for all databases, always absolute
	Port              int
	LogLevel          string
	DevMode           bool
	PortfolioFile     string
	ReportingCurrency string
	EvaluationWorkers int
	Reserve           ReserveConfig
	Market            MarketConfig
	Backup            *BackupConfig
}

// ReserveConfig holds the reserve policy the stress engine measures against
type ReserveConfig struct {
	AnnualOpex                float64
	ReserveMonthsRequired     float64
	VolatilityBreachThreshold float64
	LiquidityBreachDays       float64
}

// MarketConfig holds market data settings
type MarketConfig struct {
	DataURL         string // empty = built-in fallback data only
	CacheDays       int
	CleanupDays     int
	RefreshSchedule string // cron expression with seconds
	RiskFreeRate    float64
}

// BackupConfig holds S3-compatible backup settings
type BackupConfig struct {
	Enabled         bool
	Bucket          string
	Endpoint        string // empty = AWS
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Schedule        string
	RetentionDays   int // 0 = keep forever
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	absDataDir, err := filepath.Abs(getEnv("RESERVE_DATA_DIR", "./data"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	defaults := stress.DefaultConfig()
	cfg := &Config{
		DataDir:           absDataDir,
		Port:              getEnvAsInt("PORT", 8001),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		PortfolioFile:     getEnv("PORTFOLIO_FILE", "portfolio.csv"),
		ReportingCurrency: getEnv("REPORTING_CURRENCY", "SGD"),
		EvaluationWorkers: getEnvAsInt("EVALUATION_WORKERS", runtime.NumCPU()),
		Reserve: ReserveConfig{
			AnnualOpex:                getEnvAsFloat("ANNUAL_OPEX", defaults.AnnualOpex),
			ReserveMonthsRequired:     getEnvAsFloat("RESERVE_MONTHS_REQUIRED", defaults.ReserveMonthsRequired),
			VolatilityBreachThreshold: getEnvAsFloat("VOLATILITY_BREACH_THRESHOLD", defaults.VolatilityBreachThreshold),
			LiquidityBreachDays:       getEnvAsFloat("LIQUIDITY_BREACH_DAYS", defaults.LiquidityBreachDays),
		},
		Market: MarketConfig{
			DataURL:         getEnv("MARKET_DATA_URL", ""),
			CacheDays:       getEnvAsInt("MARKET_CACHE_DAYS", clientdata.Days(clientdata.TTLMarketSnapshot)),
			CleanupDays:     getEnvAsInt("MARKET_CACHE_CLEANUP_DAYS", clientdata.Days(clientdata.CleanupGrace)),
			RefreshSchedule: getEnv("MARKET_REFRESH_SCHEDULE", "0 0 6 * * *"),
			RiskFreeRate:    getEnvAsFloat("RISK_FREE_RATE", 0.025),
		},
		Backup: loadBackupConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	positive := []struct {
		key   string
		value float64
	}{
		{"ANNUAL_OPEX", c.Reserve.AnnualOpex},
		{"RESERVE_MONTHS_REQUIRED", c.Reserve.ReserveMonthsRequired},
		{"VOLATILITY_BREACH_THRESHOLD", c.Reserve.VolatilityBreachThreshold},
		{"LIQUIDITY_BREACH_DAYS", c.Reserve.LiquidityBreachDays},
	}
	for _, p := range positive {
		// NaN fails every comparison, so test for the valid range
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%s must be a positive number, got %g", p.key, p.value)
		}
	}
	if math.IsNaN(c.Market.RiskFreeRate) || math.IsInf(c.Market.RiskFreeRate, 0) {
		return fmt.Errorf("RISK_FREE_RATE must be a finite number, got %g", c.Market.RiskFreeRate)
	}
	if c.Market.CacheDays <= 0 {
		return fmt.Errorf("MARKET_CACHE_DAYS must be positive, got %d", c.Market.CacheDays)
	}
	if c.Backup != nil && c.Backup.Enabled {
		if c.Backup.Bucket == "" || c.Backup.AccessKeyID == "" || c.Backup.SecretAccessKey == "" {
			return fmt.Errorf("BACKUP_ENABLED requires BACKUP_BUCKET, BACKUP_ACCESS_KEY_ID and BACKUP_SECRET_ACCESS_KEY")
		}
	}
	return nil
}

// StressConfig builds the immutable evaluation configuration
func (c *Config) StressConfig() stress.Config {
	return stress.Config{
		AnnualOpex:                c.Reserve.AnnualOpex,
		ReserveMonthsRequired:     c.Reserve.ReserveMonthsRequired,
		VolatilityBreachThreshold: c.Reserve.VolatilityBreachThreshold,
		LiquidityBreachDays:       c.Reserve.LiquidityBreachDays,
		Profiles:                  stress.DefaultProfiles(),
	}
}

// MarketCacheTTL is how long a fetched market snapshot stays fresh
func (c *Config) MarketCacheTTL() time.Duration {
	return time.Duration(c.Market.CacheDays) * 24 * time.Hour
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func loadBackupConfig() *BackupConfig {
	return &BackupConfig{
		Enabled:         getEnvAsBool("BACKUP_ENABLED", false),
		Bucket:          getEnv("BACKUP_BUCKET", ""),
		Endpoint:        getEnv("BACKUP_ENDPOINT", ""),
		AccessKeyID:     getEnv("BACKUP_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("BACKUP_SECRET_ACCESS_KEY", ""),
		Region:          getEnv("BACKUP_REGION", "auto"),
		Schedule:        getEnv("BACKUP_SCHEDULE", "0 0 3 * * *"),
		RetentionDays:   getEnvAsInt("BACKUP_RETENTION_DAYS", 30),
	}
}

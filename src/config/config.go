package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	LogLevel string

	// DataDir is the root holding one subdirectory per statement month
	// ("August 2025", "September 2025", ...). The pipeline picks the latest.
	DataDir string

	// OutputPath is where the canonical holdings dataset is written.
	OutputPath string

	// RateDBPath is the sqlite file backing the exchange rate cache.
	RateDBPath string

	// CredentialsPath points at the per-manager credential table (JSON).
	CredentialsPath string

	// RateAPIBaseURL is the external exchange rate API. When empty and
	// RateTablePath is set, the static CSV table is used instead.
	RateAPIBaseURL string
	RateTablePath  string

	RateLookupTimeout time.Duration

	// HomeCurrency is the currency every emitted value is denominated in.
	HomeCurrency string

	// DedupTolerancePct is the maximum relative difference (percent of the
	// larger market value) under which two same-asset rows are merged.
	DedupTolerancePct float64
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")

	rateTimeoutStr := getEnv("RATE_LOOKUP_TIMEOUT", "10s")
	rateTimeout, err := time.ParseDuration(rateTimeoutStr)
	if err != nil {
		log.Printf("WARNING: Invalid RATE_LOOKUP_TIMEOUT format '%s'. Using default 10s. Error: %v", rateTimeoutStr, err)
		rateTimeout = 10 * time.Second
	}

	tolerance := getEnvAsFloat("DEDUP_TOLERANCE_PCT", 0.5)
	if tolerance < 0 {
		log.Printf("WARNING: DEDUP_TOLERANCE_PCT must not be negative, got %v. Using default 0.5.", tolerance)
		tolerance = 0.5
	}

	Cfg = &AppConfig{
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DataDir:           getEnv("DATA_DIR", "data/input"),
		OutputPath:        getEnv("OUTPUT_PATH", "data/output/extracted_portfolio_data.json"),
		RateDBPath:        getEnv("RATE_DB_PATH", "data/exchange_rates.db"),
		CredentialsPath:   getEnv("CREDENTIALS_PATH", "data/credentials.json"),
		RateAPIBaseURL:    getEnv("RATE_API_URL", "https://api.exchangerate-api.com/v4/latest"),
		RateTablePath:     getEnv("RATE_TABLE_PATH", ""),
		RateLookupTimeout: rateTimeout,
		HomeCurrency:      getEnv("HOME_CURRENCY", "INR"),
		DedupTolerancePct: tolerance,
	}

	log.Printf("Configuration loaded: DataDir=%s, OutputPath=%s, RateDB=%s, LogLevel=%s",
		Cfg.DataDir, Cfg.OutputPath, Cfg.RateDBPath, Cfg.LogLevel)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		log.Printf("Float value for %s not set or empty, using default: %v", key, fallback)
		return fallback
	}
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	log.Printf("Invalid float value for %s ('%s'), using default: %v", key, valueStr, fallback)
	return fallback
}

package database

import (
	"database/sql"
	"fmt"
	stdlog "log"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens (creating if needed) the sqlite file backing the exchange
// rate cache. The cache survives across pipeline runs; a run only ever
// appends to it.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open rate cache database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Initializing exchange rate cache schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Initializing exchange rate cache schema:", databasePath)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS exchange_rates (
		pair TEXT NOT NULL,
		rate_date TEXT NOT NULL,
		rate REAL NOT NULL,
		fetched_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (pair, rate_date)
	);`

	if _, err := db.Exec(createTableStatement); err != nil {
		stdlog.Fatalf("failed to create exchange_rates table: %v", err)
	}
}

// SaveRate writes a freshly looked-up rate through to the persisted cache.
// Replaces any existing row for the same pair and date.
func SaveRate(pair, date string, rate float64) error {
	_, err := DB.Exec(
		`INSERT OR REPLACE INTO exchange_rates (pair, rate_date, rate) VALUES (?, ?, ?)`,
		pair, date, rate,
	)
	if err != nil {
		return fmt.Errorf("error saving rate %s@%s: %w", pair, date, err)
	}
	return nil
}

// GetRate returns the cached rate for an exact pair/date, if present.
func GetRate(pair, date string) (float64, bool, error) {
	var rate float64
	err := DB.QueryRow(
		`SELECT rate FROM exchange_rates WHERE pair = ? AND rate_date = ?`,
		pair, date,
	).Scan(&rate)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error querying rate %s@%s: %w", pair, date, err)
	}
	return rate, true, nil
}

// NearestRateBefore returns the most recent cached rate strictly at or before
// date, used as the fallback when the external source is unreachable.
func NearestRateBefore(pair, date string) (float64, string, bool, error) {
	var rate float64
	var rateDate string
	err := DB.QueryRow(
		`SELECT rate, rate_date FROM exchange_rates WHERE pair = ? AND rate_date <= ? ORDER BY rate_date DESC LIMIT 1`,
		pair, date,
	).Scan(&rate, &rateDate)
	if err == sql.ErrNoRows {
		return 0, "", false, nil
	}
	if err != nil {
		return 0, "", false, fmt.Errorf("error querying nearest rate %s@%s: %w", pair, date, err)
	}
	return rate, rateDate, true, nil
}

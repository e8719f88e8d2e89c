package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/database"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// stubSource returns a fixed rate and counts lookups; rate 0 means fail.
type stubSource struct {
	rate  float64
	calls int
}

func (s *stubSource) Lookup(_ context.Context, base, quote, date string) (float64, error) {
	s.calls++
	if s.rate <= 0 {
		return 0, errors.New("source unavailable")
	}
	return s.rate, nil
}

func newTestDB(t *testing.T) {
	t.Helper()
	database.InitDB(filepath.Join(t.TempDir(), "rates.db"))
}

func TestRateForHomeCurrency(t *testing.T) {
	newTestDB(t)
	src := &stubSource{rate: 88}
	svc := NewCurrencyService("INR", src, time.Second)

	rate, err := svc.RateFor(context.Background(), "INR", "2025-08-31")
	require.NoError(t, err)
	require.Equal(t, 1.0, rate)
	require.Zero(t, src.calls)
}

func TestRateForPopulatesCachesOnMiss(t *testing.T) {
	newTestDB(t)
	src := &stubSource{rate: 88.21}
	svc := NewCurrencyService("INR", src, time.Second)

	rate, err := svc.RateFor(context.Background(), "USD", "2025-08-31")
	require.NoError(t, err)
	require.Equal(t, 88.21, rate)
	require.Equal(t, 1, src.calls)

	// Second lookup is answered from cache, not the source.
	rate, err = svc.RateFor(context.Background(), "USD", "2025-08-31")
	require.NoError(t, err)
	require.Equal(t, 88.21, rate)
	require.Equal(t, 1, src.calls)

	// And the sqlite cache got the write-through.
	persisted, found, err := database.GetRate("USD_INR", "2025-08-31")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 88.21, persisted)
}

func TestRateForFallsBackToNearestEarlierDate(t *testing.T) {
	newTestDB(t)
	require.NoError(t, database.SaveRate("USD_INR", "2025-08-28", 87.95))

	src := &stubSource{rate: 0} // source down
	svc := NewCurrencyService("INR", src, time.Second)

	rate, err := svc.RateFor(context.Background(), "USD", "2025-08-31")
	require.NoError(t, err)
	require.Equal(t, 87.95, rate)
}

func TestRateForUnavailable(t *testing.T) {
	newTestDB(t)
	src := &stubSource{rate: 0}
	svc := NewCurrencyService("INR", src, time.Second)

	_, err := svc.RateFor(context.Background(), "USD", "2025-08-31")
	require.ErrorIs(t, err, models.ErrRateUnavailable)
}

func TestConvert(t *testing.T) {
	newTestDB(t)
	svc := NewCurrencyService("INR", &stubSource{rate: 88}, time.Second)

	got, err := svc.Convert(context.Background(), 1500, "USD", "2025-08-31")
	require.NoError(t, err)
	require.Equal(t, 132000.0, got)

	// Home currency amounts pass through untouched.
	got, err = svc.Convert(context.Background(), 999950.0, "INR", "2025-08-31")
	require.NoError(t, err)
	require.Equal(t, 999950.0, got)
}

func TestCSVRateSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"date,pair,rate\n2025-08-31,USD_INR,88.21\n2025-07-31,USD_INR,87.60\n"), 0o644))

	src, err := NewCSVRateSource(path)
	require.NoError(t, err)

	rate, err := src.Lookup(context.Background(), "USD", "INR", "2025-08-31")
	require.NoError(t, err)
	require.Equal(t, 88.21, rate)

	_, err = src.Lookup(context.Background(), "USD", "INR", "2025-06-30")
	require.Error(t, err)
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/database"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/utils"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	memCacheExpiration      = 24 * time.Hour
	memCacheCleanupInterval = 1 * time.Hour
)

// CurrencyService resolves date-keyed exchange rates into the home currency.
// Lookup order: in-memory cache, persisted sqlite cache, external source.
// Every fresh answer is written through both caches; external calls are
// throttled and bounded by a timeout so one slow lookup cannot stall a run.
type CurrencyService struct {
	home     string
	source   RateSource
	memCache *cache.Cache
	limiter  *rate.Limiter
	timeout  time.Duration
}

func NewCurrencyService(homeCurrency string, source RateSource, timeout time.Duration) *CurrencyService {
	return &CurrencyService{
		home:     homeCurrency,
		source:   source,
		memCache: cache.New(memCacheExpiration, memCacheCleanupInterval),
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		timeout:  timeout,
	}
}

// RateFor returns a positive base→home rate for the given date
// ("2006-01-02"). An empty date means today. When neither cache nor source
// can answer, it falls back to the nearest earlier cached date; if none
// exists either, the error wraps models.ErrRateUnavailable.
func (s *CurrencyService) RateFor(ctx context.Context, base, date string) (float64, error) {
	if base == s.home {
		return 1.0, nil
	}
	if date == "" {
		date = time.Now().Format(utils.ISODateFormat)
	}

	pair := base + "_" + s.home
	key := pair + "@" + date

	if cached, found := s.memCache.Get(key); found {
		return cached.(float64), nil
	}

	if rateVal, found, err := database.GetRate(pair, date); err != nil {
		logger.L.Warn("Rate cache read failed, falling through to source", "pair", pair, "date", date, "error", err)
	} else if found {
		s.memCache.Set(key, rateVal, cache.DefaultExpiration)
		return rateVal, nil
	}

	rateVal, err := s.fetch(ctx, base, date)
	if err == nil {
		if saveErr := database.SaveRate(pair, date, rateVal); saveErr != nil {
			logger.L.Warn("Failed to persist fetched rate", "pair", pair, "date", date, "error", saveErr)
		}
		s.memCache.Set(key, rateVal, cache.DefaultExpiration)
		return rateVal, nil
	}
	logger.L.Warn("External rate lookup failed", "pair", pair, "date", date, "error", err)

	if fallback, fallbackDate, found, dbErr := database.NearestRateBefore(pair, date); dbErr == nil && found {
		logger.L.Warn("Using nearest earlier cached rate", "pair", pair, "wanted", date, "using", fallbackDate, "rate", fallback)
		s.memCache.Set(key, fallback, cache.DefaultExpiration)
		return fallback, nil
	}

	return 0, fmt.Errorf("no rate for %s on %s: %w", pair, date, models.ErrRateUnavailable)
}

// Convert turns an amount in the given currency into the home currency.
func (s *CurrencyService) Convert(ctx context.Context, amount float64, currency, date string) (float64, error) {
	if currency == s.home {
		return amount, nil
	}
	rateVal, err := s.RateFor(ctx, currency, date)
	if err != nil {
		return 0, err
	}
	converted := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rateVal))
	return converted.InexactFloat64(), nil
}

func (s *CurrencyService) fetch(ctx context.Context, base, date string) (float64, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Wait(fetchCtx); err != nil {
		return 0, fmt.Errorf("rate lookup throttled past deadline: %w", err)
	}
	return s.source.Lookup(fetchCtx, base, s.home, date)
}

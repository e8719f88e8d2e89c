package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/gocarina/gocsv"
)

// RateSource is the abstract external capability behind the currency
// normalizer: resolve one base→quote rate for a date. Implementations must be
// treated as slow and fallible.
type RateSource interface {
	Lookup(ctx context.Context, base, quote, date string) (float64, error)
}

// HTTPRateSource queries an exchangerate-api style endpoint. The endpoint
// serves the latest published rates only; the requested date becomes the
// cache key under which the caller stores the answer.
type HTTPRateSource struct {
	baseURL string
	client  *http.Client
}

func NewHTTPRateSource(baseURL string, timeout time.Duration) *HTTPRateSource {
	return &HTTPRateSource{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPRateSource) Lookup(ctx context.Context, base, quote, date string) (float64, error) {
	url := fmt.Sprintf("%s/%s", s.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("rate API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate API returned non-OK status %d for %s", resp.StatusCode, base)
	}

	var data models.RateAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return 0, fmt.Errorf("failed to decode rate API response for %s: %w", base, err)
	}

	rate, ok := data.Rates[quote]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("rate API response for %s has no usable %s rate", base, quote)
	}
	return rate, nil
}

// CSVRateSource serves rates from a static CSV table (date,pair,rate). It
// satisfies the same contract as the HTTP source and is the offline option.
type CSVRateSource struct {
	rates map[string]float64 // "USD_INR@2025-08-31" -> rate
}

func NewCSVRateSource(path string) (*CSVRateSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rate table %q: %w", path, err)
	}
	defer f.Close()

	var rows []models.RateTableRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse rate table %q: %w", path, err)
	}

	src := &CSVRateSource{rates: make(map[string]float64, len(rows))}
	for _, row := range rows {
		src.rates[row.Pair+"@"+row.Date] = row.Rate
	}
	return src, nil
}

func (s *CSVRateSource) Lookup(ctx context.Context, base, quote, date string) (float64, error) {
	rate, ok := s.rates[base+"_"+quote+"@"+date]
	if !ok {
		return 0, fmt.Errorf("rate table has no %s_%s rate for %s", base, quote, date)
	}
	return rate, nil
}

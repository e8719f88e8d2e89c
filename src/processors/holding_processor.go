package processors

import (
	"context"
	"errors"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/utils"
	"github.com/shopspring/decimal"
)

// RateResolver resolves the statement-currency to home-currency rate for a
// given date. Satisfied by services.CurrencyService.
type RateResolver interface {
	RateFor(ctx context.Context, currency, date string) (float64, error)
}

// BuildStats counts per-manager rows the builder had to discard.
type BuildStats struct {
	Dropped     map[string]int // failed mandatory-field validation
	Unconverted map[string]int // no exchange rate resolvable
}

func newBuildStats() BuildStats {
	return BuildStats{
		Dropped:     make(map[string]int),
		Unconverted: make(map[string]int),
	}
}

// HoldingProcessor maps raw parser output into canonical holdings. It owns
// the two normalization guarantees: every value is in the home currency, and
// P&L figures are recomputed from the value fields rather than trusted from
// the statement.
type HoldingProcessor struct {
	rates RateResolver
}

func NewHoldingProcessor(rates RateResolver) *HoldingProcessor {
	return &HoldingProcessor{rates: rates}
}

// Process converts each raw row independently; a bad row is counted and
// skipped, never fabricated and never fatal.
func (p *HoldingProcessor) Process(ctx context.Context, raws []models.RawHolding) ([]models.Holding, BuildStats) {
	stats := newBuildStats()
	holdings := make([]models.Holding, 0, len(raws))

	for _, raw := range raws {
		if raw.SourceManager == "" || raw.AssetType == "" || raw.AssetName == "" {
			stats.Dropped[raw.SourceManager]++
			logger.L.Warn("Dropping row with missing mandatory fields",
				"manager", raw.SourceManager, "assetName", raw.AssetName, "assetType", raw.AssetType)
			continue
		}

		investment := raw.InvestmentValue
		market := raw.MarketValue

		if raw.Currency != "" {
			rate, err := p.rates.RateFor(ctx, raw.Currency, raw.ValueAsOfDate)
			if err != nil {
				if errors.Is(err, models.ErrRateUnavailable) {
					// Never substitute zero or a guessed rate; count and drop.
					stats.Unconverted[raw.SourceManager]++
					logger.L.Warn("Row left unconverted, no exchange rate",
						"manager", raw.SourceManager, "assetName", raw.AssetName,
						"currency", raw.Currency, "date", raw.ValueAsOfDate)
					continue
				}
				stats.Dropped[raw.SourceManager]++
				logger.L.Warn("Dropping row, currency conversion failed",
					"manager", raw.SourceManager, "assetName", raw.AssetName, "error", err)
				continue
			}
			if rate != 1 {
				d := decimal.NewFromFloat(rate)
				investment = decimal.NewFromFloat(raw.InvestmentValue).Mul(d).InexactFloat64()
				market = decimal.NewFromFloat(raw.MarketValue).Mul(d).InexactFloat64()
				if raw.RawData == nil {
					raw.RawData = make(map[string]any, 1)
				}
				raw.RawData["exchange_rate"] = rate
			}
		}

		plAmount, plPct := computePL(investment, market)

		holdings = append(holdings, models.Holding{
			ManagerName:            raw.SourceManager,
			AssetType:              raw.AssetType,
			AssetName:              raw.AssetName,
			CurrentInvestmentValue: utils.RoundFloat(investment, 2),
			CurrentMarketValue:     utils.RoundFloat(market, 2),
			ValueAsOfDate:          raw.ValueAsOfDate,
			PLAmount:               plAmount,
			PLPercentage:           plPct,
			IRRPercentage:          raw.IRRPercentage,
			InvestmentDate:         raw.InvestmentDate,
			RawData:                raw.RawData,
		})
	}

	return holdings, stats
}

// computePL derives P&L from the two value fields. Statement-provided P&L
// figures are ignored; summary and detail pages disagree often enough that
// recomputing is the only way to keep the dataset internally consistent.
func computePL(investment, market float64) (amount, pct float64) {
	inv := decimal.NewFromFloat(utils.RoundFloat(investment, 2))
	mkt := decimal.NewFromFloat(utils.RoundFloat(market, 2))

	pl := mkt.Sub(inv)
	amount = pl.InexactFloat64()

	if inv.IsPositive() {
		pct, _ = pl.Div(inv).Mul(decimal.NewFromInt(100)).Round(4).Float64()
	}
	return amount, pct
}

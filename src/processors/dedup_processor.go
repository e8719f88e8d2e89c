package processors

import (
	"regexp"
	"sort"
	"strings"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/shopspring/decimal"
)

// DedupProcessor is the single gate between raw extraction noise and the
// guarantees of the persisted dataset: positive market values, no disclaimer
// pseudo-rows, no duplicate positions. Every invariant is enforced here even
// when an upstream parser already filtered.
type DedupProcessor struct {
	// tolerancePct is the maximum difference between two market values, as a
	// percent of the larger, for the rows to count as the same position.
	// Covers rounding drift between a manager's summary and detail pages.
	tolerancePct decimal.Decimal
}

func NewDedupProcessor(tolerancePct float64) *DedupProcessor {
	return &DedupProcessor{tolerancePct: decimal.NewFromFloat(tolerancePct)}
}

// Apply filters and deduplicates, returning the final ordered collection
// (manager ascending, then market value descending).
func (p *DedupProcessor) Apply(holdings []models.Holding) []models.Holding {
	var kept []models.Holding

	for _, h := range holdings {
		if h.CurrentMarketValue <= 0 {
			logger.L.Debug("Filter: dropping non-positive market value", "manager", h.ManagerName, "assetName", h.AssetName)
			continue
		}
		if isDisclaimerName(h.AssetName) {
			logger.L.Debug("Filter: dropping disclaimer row", "manager", h.ManagerName, "assetName", h.AssetName)
			continue
		}

		key := assetKey(h.AssetName) + "|" + strings.ToUpper(h.AssetType)

		dupIdx := -1
		for i, existing := range kept {
			if assetKey(existing.AssetName)+"|"+strings.ToUpper(existing.AssetType) != key {
				continue
			}
			if p.withinTolerance(existing.CurrentMarketValue, h.CurrentMarketValue) {
				dupIdx = i
				break
			}
		}

		if dupIdx == -1 {
			kept = append(kept, h)
			continue
		}

		winner := preferHolding(kept[dupIdx], h)
		logger.L.Info("Filter: merged duplicate position",
			"assetName", h.AssetName,
			"keptManager", winner.ManagerName,
			"droppedManager", other(winner, kept[dupIdx], h).ManagerName)
		kept[dupIdx] = winner
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].ManagerName != kept[j].ManagerName {
			return kept[i].ManagerName < kept[j].ManagerName
		}
		if kept[i].CurrentMarketValue != kept[j].CurrentMarketValue {
			return kept[i].CurrentMarketValue > kept[j].CurrentMarketValue
		}
		return kept[i].AssetName < kept[j].AssetName
	})

	return kept
}

func (p *DedupProcessor) withinTolerance(a, b float64) bool {
	da := decimal.NewFromFloat(a)
	db := decimal.NewFromFloat(b)
	larger := decimal.Max(da, db)
	if !larger.IsPositive() {
		return true
	}
	diff := da.Sub(db).Abs()
	return diff.Div(larger).Mul(decimal.NewFromInt(100)).LessThanOrEqual(p.tolerancePct)
}

// preferHolding picks the survivor of a duplicate pair: the one with more
// complete optional fields, ties broken by the later value date, then the
// earlier-seen record.
func preferHolding(a, b models.Holding) models.Holding {
	sa, sb := completeness(a), completeness(b)
	if sb > sa {
		return b
	}
	if sb == sa && b.ValueAsOfDate > a.ValueAsOfDate {
		return b
	}
	return a
}

func completeness(h models.Holding) int {
	score := 0
	if h.IRRPercentage != nil {
		score++
	}
	if h.InvestmentDate != "" {
		score++
	}
	return score
}

func other(winner, a, b models.Holding) models.Holding {
	if winner.ManagerName == a.ManagerName && winner.AssetName == a.AssetName {
		return b
	}
	return a
}

func isDisclaimerName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed == "" ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(strings.ToLower(trimmed), "disclaimer")
}

// Tokens stripped when normalizing an asset name for duplicate matching.
// Managers print the same fund with different plan/class/corporate suffixes;
// embedded tranche dates are kept so different series stay distinct.
var (
	noiseTokenRe = regexp.MustCompile(`\b(DEMAT|CLASS\s*[A-Z]\d*|CL\s*[A-Z]\d*|DIRECT PLAN|REGULAR PLAN|GROWTH|LTD|LIMITED|LLP|FUND|AIF|TRUST|INVESTMENT|ALTERNATIVE|SERIES|SR)\b`)
	trancheRe    = regexp.MustCompile(`\d{1,2}[-/][A-Za-z]{3}[-/]\d{2,4}`)
	spaceRe      = regexp.MustCompile(`[\s\-()]+`)
)

func assetKey(name string) string {
	key := strings.ToUpper(strings.TrimSpace(name))

	tranche := trancheRe.FindString(key)
	key = noiseTokenRe.ReplaceAllString(key, " ")
	key = spaceRe.ReplaceAllString(key, " ")
	key = strings.TrimSpace(key)

	if tranche != "" && !strings.Contains(key, tranche) {
		key += " " + tranche
	}
	return key
}

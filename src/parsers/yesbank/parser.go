// Package yesbank parses Yes Bank WMS investment summary reports. Fund
// schemes are grouped under category blocks ("Equity- Flexi Cap") with the
// scheme name wrapping over one or more lines before an amounts line in
// Indian digit grouping closes it out.
package yesbank

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/pdfdoc"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/utils"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/validation"
)

const managerName = "Yes Bank"

// Detailed holdings start after the summary section, on page 6.
const firstHoldingsPage = 5

// Amounts print in Indian grouping, e.g. "9,99,950.00".
var indianAmountRe = regexp.MustCompile(`\d+,\d+,\d+\.\d+`)

var investmentKeywords = []string{
	"FUND", "SCHEME", "PLAN", "EQUITY", "DEBT", "INDEX", "GROWTH", "DIVIDEND",
}

var categoryPrefixes = []string{"Equity", "Debt", "Hybrid", "Index", "ETF"}

type YesBankParser struct{}

func NewParser() *YesBankParser {
	return &YesBankParser{}
}

func (p *YesBankParser) Manager() string { return managerName }

func (p *YesBankParser) FilePattern() string { return "yes bank" }

func (p *YesBankParser) Extract(path string, password string) ([]models.RawHolding, error) {
	if err := validation.RequireType(path, validation.StatementPDF); err != nil {
		return nil, &models.DocumentAccessError{Manager: managerName, Path: path, Err: err}
	}
	doc, err := pdfdoc.Open(path, password)
	if err != nil {
		return nil, &models.DocumentAccessError{Manager: managerName, Path: path, Err: err}
	}

	// The report prints NAV dates per scheme but no single statement date, so
	// holdings are dated to the end of the statement month.
	reportDate := ""
	if month, err := utils.ParseMonthFolder(filepath.Base(filepath.Dir(path))); err == nil {
		reportDate = utils.MonthEnd(month)
	}
	return parseDocument(doc, reportDate), nil
}

func parseDocument(doc *pdfdoc.Document, reportDate string) []models.RawHolding {
	var holdings []models.RawHolding
	for pageNum, page := range doc.Pages {
		if pageNum < firstHoldingsPage {
			continue
		}
		text := page.Text()
		if !containsAny(strings.ToUpper(text), investmentKeywords) {
			continue
		}
		// Grand-total pages are short and list no scheme rows.
		if strings.Contains(text, "Grand Total") && !strings.Contains(text, "Category/") &&
			len(page.Lines) < 15 && strings.Count(text, ",") < 10 {
			continue
		}

		category := ""
		var nameParts []string
		for _, line := range page.Lines {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if isCategoryLine(line) {
				category = line
				nameParts = nil
				continue
			}

			amounts := indianAmountRe.FindAllString(line, -1)
			if len(amounts) == 0 {
				// Still inside a wrapping scheme name.
				if isSchemeText(line) {
					nameParts = append(nameParts, line)
				}
				continue
			}

			// The amounts line may still open with the tail of the name.
			if prefix := textBeforeFirstAmount(line); prefix != "" {
				nameParts = append(nameParts, prefix)
			}
			fundName := strings.TrimSpace(strings.Join(nameParts, " "))
			nameParts = nil

			if fundName == "" || len(amounts) < 2 {
				continue
			}
			investment := utils.CleanCurrencyValue(amounts[0])
			current := utils.CleanCurrencyValue(amounts[1])
			if investment <= 1000 || current <= 1000 {
				continue
			}

			holdings = append(holdings, models.RawHolding{
				SourceManager:   managerName,
				AssetType:       classifyAssetType(category, fundName),
				AssetName:       fundName,
				InvestmentValue: investment,
				MarketValue:     current,
				Currency:        "INR",
				ValueAsOfDate:   reportDate,
				RawData: map[string]any{
					"category": category,
					"page":     pageNum + 1,
					"raw_line": line,
				},
			})
		}
	}
	return holdings
}

// isCategoryLine matches section headers like "Equity- Flexi Cap". Scheme
// names also start with these words but always carry Fund/Scheme/Plan.
func isCategoryLine(line string) bool {
	for _, prefix := range categoryPrefixes {
		if strings.HasPrefix(line, prefix) && len(line) < 40 &&
			!strings.Contains(line, "Fund") && !strings.Contains(line, "Scheme") {
			return true
		}
	}
	return false
}

func isSchemeText(line string) bool {
	upper := strings.ToUpper(line)
	for _, kw := range investmentKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

func textBeforeFirstAmount(line string) string {
	loc := indianAmountRe.FindStringIndex(line)
	if loc == nil {
		return strings.TrimSpace(line)
	}
	return strings.TrimSpace(line[:loc[0]])
}

func classifyAssetType(category, fundName string) string {
	upperName := strings.ToUpper(fundName)
	switch {
	case strings.Contains(category, "Index") || strings.Contains(upperName, "INDEX") ||
		strings.Contains(category, "ETF"):
		return "Index Funds/ETFs"
	case strings.Contains(category, "Equity"):
		return "Equity Mutual Funds"
	case strings.Contains(category, "Debt"):
		return "Debt Mutual Funds"
	case strings.Contains(category, "Hybrid"):
		return "Hybrid Mutual Funds"
	default:
		return "Mutual Funds"
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

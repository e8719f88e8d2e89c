// Package iifl parses IIFL 360 One holding statements. The detailed holding
// section does not render as clean tables; instrument rows mix the name with
// quantity and amount columns on one visual line, and long fund names spill
// onto the following lines.
package iifl

import (
	"regexp"
	"strings"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/pdfdoc"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/utils"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/validation"
)

const managerName = "IIFL 360 One"

// The first three pages are summary and disclosures.
const firstHoldingsPage = 3

// Amounts below this are treated as quantities or unit prices.
const amountFloor = 100000

var (
	numberTokenRe = regexp.MustCompile(`^[\d,]+\.?\d*$`)
	shortDateRe   = regexp.MustCompile(`^\d{2}-\w{3}-\d{2}$`)
	percentRe     = regexp.MustCompile(`[\d,]+\.?\d*\s*%`)
)

var holdingsKeywords = []string{
	"DETAILED HOLDING", "HOLDING STATEMENT", "MANAGED ACCOUNTS",
	"UNLISTED EQUITY", "INSTRUMENT NAME", "PORTFOLIO MANAGER",
	"HOLDING COST", "NET ASSET VALUE", "AIF",
}

var categoryHeaders = []string{
	"MANAGED ACCOUNTS EQUITY", "UNLISTED EQUITY", "DIRECT EQUITY", "DEBT",
}

var instrumentMarkers = []string{
	"ABAKKUS", "DIVERSIFIED", "NATIONAL STOCK EXCHANGE", "FUND",
}

var nameContinuationKeywords = []string{
	"FUND", "MANAGER", "ALPHA", "CLASS", "AIF", "CATEGORY", "LIMITED", "PRIVATE",
}

var sectionBreakKeywords = []string{
	"TOTAL", "UNLISTED", "MANAGED", "GAIN/LOSS", "PRICE",
}

type IIFLParser struct{}

func NewParser() *IIFLParser {
	return &IIFLParser{}
}

func (p *IIFLParser) Manager() string { return managerName }

func (p *IIFLParser) FilePattern() string { return "iifl 360 one" }

func (p *IIFLParser) Extract(path string, password string) ([]models.RawHolding, error) {
	if err := validation.RequireType(path, validation.StatementPDF); err != nil {
		return nil, &models.DocumentAccessError{Manager: managerName, Path: path, Err: err}
	}
	doc, err := pdfdoc.Open(path, password)
	if err != nil {
		return nil, &models.DocumentAccessError{Manager: managerName, Path: path, Err: err}
	}
	return parseDocument(doc), nil
}

func parseDocument(doc *pdfdoc.Document) []models.RawHolding {
	reportDate := ""
	if len(doc.Pages) > 0 {
		reportDate = utils.FindFirstDate(doc.Pages[0].Text())
	}

	var holdings []models.RawHolding
	for pageNum, page := range doc.Pages {
		if pageNum < firstHoldingsPage {
			continue
		}
		upper := strings.ToUpper(page.Text())
		if !containsAny(upper, holdingsKeywords) {
			continue
		}
		if strings.Contains(upper, "SUMMARY OF TOTAL PORTFOLIO") &&
			!strings.Contains(upper, "INSTRUMENT NAME") &&
			!strings.Contains(upper, "DETAILED HOLDING") {
			continue
		}
		if (strings.Contains(upper, "TRANSACTION STATEMENT") ||
			strings.Contains(upper, "CORPORATE ACTION")) &&
			!strings.Contains(upper, "HOLDING STATEMENT") {
			continue
		}

		holdings = append(holdings, pageHoldings(page, reportDate, pageNum)...)
	}
	return holdings
}

func pageHoldings(page pdfdoc.Page, reportDate string, pageNum int) []models.RawHolding {
	var holdings []models.RawHolding
	category := ""
	for i, line := range page.Lines {
		line = strings.TrimSpace(line)
		if cat := matchCategory(line); cat != "" {
			category = cat
			continue
		}
		if line == "" || !containsAny(strings.ToUpper(line), instrumentMarkers) {
			continue
		}

		name, values := splitInstrumentLine(line)
		name = extendName(name, page.Lines, i)
		if len(values) < 3 {
			continue
		}

		quantity := 0.0
		if values[0] < amountFloor {
			quantity = values[0]
		}
		cost, market := largeAmounts(values)
		if cost <= 1000 || market <= 1000 || name == "" {
			continue
		}

		holdings = append(holdings, models.RawHolding{
			SourceManager:   managerName,
			AssetType:       classifyAssetType(name, category),
			AssetName:       truncate(name, 100),
			InvestmentValue: cost,
			MarketValue:     market,
			Currency:        "INR",
			ValueAsOfDate:   reportDate,
			RawData: map[string]any{
				"category":    category,
				"quantity":    quantity,
				"page":        pageNum + 1,
				"line_number": i + 1,
				"raw_line":    line,
			},
		})
	}
	return holdings
}

func matchCategory(line string) string {
	upper := strings.ToUpper(line)
	for _, header := range categoryHeaders {
		if strings.Contains(upper, header) {
			return line
		}
	}
	return ""
}

// splitInstrumentLine pulls the name tokens and the positive numeric tokens
// out of a mixed line like
// "ABAKKUS ASSET 9,502.181 10,000,000.00 16,077,020.96 ...".
func splitInstrumentLine(line string) (string, []float64) {
	var nameParts []string
	var values []float64
	for _, tok := range strings.Fields(line) {
		if numberTokenRe.MatchString(tok) {
			if v := utils.CleanCurrencyValue(tok); v > 0 {
				values = append(values, v)
			}
			continue
		}
		if strings.Contains(tok, "%") || shortDateRe.MatchString(tok) {
			continue
		}
		nameParts = append(nameParts, tok)
	}
	return strings.Join(nameParts, " "), values
}

// extendName appends wrapped name lines that follow the instrument line,
// stopping at the next section or amounts block.
func extendName(name string, lines []string, lineIdx int) string {
	for j := lineIdx + 1; j < len(lines) && j < lineIdx+10; j++ {
		next := strings.TrimSpace(lines[j])
		upper := strings.ToUpper(next)
		switch {
		case next != "" && containsAny(upper, nameContinuationKeywords):
			if !percentRe.MatchString(next) && len(next) > 3 {
				name += " " + next
			}
		case next != "" && (strings.Contains(upper, "BSE") || strings.Contains(upper, "INDEX")):
			name += " " + next
		case next == "" || containsAny(upper, sectionBreakKeywords):
			return name
		}
	}
	return name
}

// largeAmounts returns holding cost and current value, the first two amounts
// above the floor in print order.
func largeAmounts(values []float64) (cost, market float64) {
	var large []float64
	for _, v := range values {
		if v > amountFloor {
			large = append(large, v)
		}
	}
	if len(large) >= 2 {
		return large[0], large[1]
	}
	return 0, 0
}

func classifyAssetType(name, category string) string {
	nameUpper := strings.ToUpper(name)
	categoryUpper := strings.ToUpper(category)
	switch {
	case strings.Contains(nameUpper, "AIF") || strings.Contains(categoryUpper, "AIF"):
		return "AIF"
	case strings.Contains(categoryUpper, "UNLISTED") || strings.Contains(nameUpper, "UNLISTED"):
		return "Unlisted Equity"
	case strings.Contains(categoryUpper, "MANAGED ACCOUNTS") ||
		strings.Contains(nameUpper, "DIVERSIFIED ALPHA"):
		return "AIF"
	case strings.Contains(categoryUpper, "EQUITY") || strings.Contains(nameUpper, "EQUITY"):
		return "Direct Equity"
	case strings.Contains(categoryUpper, "DEBT") || strings.Contains(nameUpper, "BOND"):
		return "Debt/Bonds"
	default:
		return "Other"
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

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Package kotak parses Kotak consolidated holding statements. Holdings sit
// under "Instrument Name" tables grouped by product category; first-purchase
// dates are printed on separate "Txn."/"Asset"/"Seg." lines below each
// instrument rather than in the table itself.
package kotak

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/pdfdoc"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/utils"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/validation"
)

const managerName = "Kotak"

// Summary pages run through page 4; detailed holdings follow.
const firstHoldingsPage = 4

var txnDateRe = regexp.MustCompile(`(?:Txn\.|Asset|Seg\.)\s*(\d{1,2}/\d{1,2}/\d{2,4})`)

var holdingsKeywords = []string{
	"HOLDING STATEMENT", "INSTRUMENT NAME", "MARKET VALUE",
	"HOLDING COST", "UNREALISED", "EQUITY", "FUND", "MUTUAL FUNDS",
}

var categoryNames = []string{
	"MUTUAL FUNDS", "DIRECT EQUITY", "OTHER PRODUCTS", "BONDS", "BANK ACCOUNTS",
}

var instrumentKeywords = []string{
	"FUND", "GROWTH", "LTD", "LIMITED", "NCD", "BD", "CORPORATION",
	"SERVICES", "BANK", "SCHEME",
}

type KotakParser struct{}

func NewParser() *KotakParser {
	return &KotakParser{}
}

func (p *KotakParser) Manager() string { return managerName }

func (p *KotakParser) FilePattern() string { return "kotak" }

func (p *KotakParser) Extract(path string, password string) ([]models.RawHolding, error) {
	if err := validation.RequireType(path, validation.StatementPDF); err != nil {
		return nil, &models.DocumentAccessError{Manager: managerName, Path: path, Err: err}
	}
	doc, err := pdfdoc.Open(path, password)
	if err != nil {
		return nil, &models.DocumentAccessError{Manager: managerName, Path: path, Err: err}
	}

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
		if !containsAny(strings.ToUpper(text), holdingsKeywords) {
			continue
		}
		if strings.Contains(strings.ToUpper(text), "PORTFOLIO ACTIVITY") ||
			strings.Contains(text, "Activity Date") ||
			strings.Contains(text, "Returns are based on XIRR") {
			continue
		}

		investmentDates := investmentDatesFromLines(page.Lines)

		headerSeen := false
		category := ""
		for rowIdx, row := range page.Rows {
			if len(row) == 0 {
				continue
			}
			if rowContains(row, "Instrument Name") {
				headerSeen = true
				continue
			}
			if !headerSeen {
				continue
			}

			name := strings.TrimSpace(row[0])
			if name == "" || name == "-" ||
				strings.Contains(name, "Bal. No. Of") ||
				strings.Contains(name, "Total") ||
				strings.Contains(name, "Category") {
				continue
			}
			if cat := matchCategory(name); cat != "" {
				category = cat
				continue
			}
			if !isValidInstrument(name) {
				continue
			}

			numericRow := findNumericRow(page.Rows, rowIdx)
			if numericRow == nil {
				continue
			}
			cost, market := pickAmounts(numericRow)
			if cost <= 0 || market <= 0 {
				continue
			}

			assetType := classifyAssetType(category, name)
			// Bonds are held at face value; the statement repeats the cost
			// as market value with accrued interest reported elsewhere.
			if assetType == "Bonds" {
				market = cost
			}
			if market <= 1000 {
				continue
			}

			holdings = append(holdings, models.RawHolding{
				SourceManager:   managerName,
				AssetType:       assetType,
				AssetName:       name,
				InvestmentValue: cost,
				MarketValue:     market,
				Currency:        "INR",
				ValueAsOfDate:   reportDate,
				InvestmentDate:  investmentDates[name],
				RawData: map[string]any{
					"category": category,
					"page":     pageNum + 1,
					"raw_row":  strings.Join(numericRow, " | "),
				},
			})
		}
	}
	return holdings
}

// investmentDatesFromLines pairs instrument name lines with the transaction
// date line that follows them, e.g. "Txn. 7/04/22" or "Asset 30/09/22".
func investmentDatesFromLines(lines []string) map[string]string {
	dates := make(map[string]string)
	current := ""
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if isPotentialInstrumentLine(line) {
			current = line
			continue
		}
		if current == "" {
			continue
		}
		if m := txnDateRe.FindStringSubmatch(line); m != nil {
			dates[current] = utils.NormalizeDate(m[1])
			current = ""
		}
	}
	return dates
}

func isPotentialInstrumentLine(line string) bool {
	if len(line) <= 8 {
		return false
	}
	if strings.HasPrefix(line, "Txn.") || strings.HasPrefix(line, "Asset") ||
		strings.HasPrefix(line, "Seg.") || strings.HasPrefix(line, "Total") {
		return false
	}
	head := line
	if len(head) > 10 {
		head = head[:10]
	}
	if strings.ContainsAny(head, "0123456789") {
		return false
	}
	return containsAny(strings.ToUpper(line), instrumentKeywords)
}

func matchCategory(name string) string {
	upper := strings.ToUpper(name)
	for _, cat := range categoryNames {
		if strings.Contains(upper, cat) {
			return name
		}
	}
	return ""
}

// isValidInstrument weeds out ISIN references and numeric fragments that the
// statement interleaves with real instrument rows.
func isValidInstrument(name string) bool {
	if utils.IsNumericCell(name) {
		return false
	}
	stripped := strings.NewReplacer(",", "", ".", "").Replace(name)
	if len(stripped) < 5 {
		return false
	}
	if strings.HasPrefix(strings.ToUpper(name), "INE") && len(name) < 15 {
		return false
	}
	return len(name) > 10
}

// findNumericRow picks the amounts row for an instrument: the instrument's
// own row when it carries amounts, otherwise the row directly below it.
func findNumericRow(rows [][]string, rowIdx int) []string {
	row := rows[rowIdx]
	for _, cell := range row[1:] {
		if utils.IsNumericCell(cell) {
			return row
		}
	}
	if rowIdx+1 < len(rows) {
		next := rows[rowIdx+1]
		for _, cell := range next {
			if utils.IsNumericCell(cell) {
				return next
			}
		}
	}
	return nil
}

// pickAmounts extracts holding cost and market value from an amounts row.
// The layout is Qty, Avg Price, Holding Cost, Price Per Unit, Market Value;
// amounts above 10000 in positional order disambiguate cost from the
// per-unit figures.
func pickAmounts(row []string) (cost, market float64) {
	for i, cell := range row {
		value := utils.CleanCurrencyValue(cell)
		if value <= 10000 {
			continue
		}
		if i >= 2 && cost == 0 {
			cost = value
		} else if i >= 4 && market == 0 {
			market = value
		}
	}
	if cost != 0 && market != 0 {
		return cost, market
	}

	var amounts []float64
	for _, cell := range row {
		if value := utils.CleanCurrencyValue(cell); value > 10000 {
			amounts = append(amounts, value)
		}
	}
	if len(amounts) >= 2 {
		return amounts[0], amounts[1]
	}
	return 0, 0
}

func classifyAssetType(category, name string) string {
	categoryUpper := strings.ToUpper(category)
	nameUpper := strings.ToUpper(name)
	switch {
	case strings.Contains(nameUpper, "AIF") || strings.Contains(nameUpper, "CLASS A1"):
		return "AIF"
	case strings.Contains(categoryUpper, "MUTUAL FUNDS") || strings.Contains(nameUpper, "FUND"):
		return "Mutual Funds"
	case strings.Contains(categoryUpper, "BONDS") || strings.Contains(nameUpper, "NCD") ||
		strings.Contains(nameUpper, "BD"):
		return "Bonds"
	case strings.Contains(categoryUpper, "DIRECT EQUITY") || strings.Contains(nameUpper, "LTD"):
		return "Direct Equity"
	case strings.Contains(categoryUpper, "BANK") || strings.Contains(categoryUpper, "CASH"):
		return "Cash/Bank"
	default:
		return "Other"
	}
}

func rowContains(row []string, substr string) bool {
	for _, cell := range row {
		if strings.Contains(cell, substr) {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Package indmoney parses IND Money US-stock monthly statements. Values are
// reported in USD; the parser tags rows with the currency and leaves
// conversion to the pipeline. Investment dates come from a sibling holdings
// report spreadsheet when one is present in the same month folder.
package indmoney

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/pdfdoc"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/utils"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/validation"
)

const managerName = "IND Money"

var (
	periodRe      = regexp.MustCompile(`Monthly Statement Period:\s*([A-Z]+\s*-\s*\d{4})`)
	holdingDateRe = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\s+(\d{4})`)
)

// Keywords that mark a page as carrying holdings rather than summaries.
var holdingsKeywords = []string{
	"HOLDINGS", "SYMBOL", "MARKET PRICE", "COST BASIS", "QUANTITY",
	"PORTFOLIO", "STOCK", "SHARES", "USD", "UNREALIZED",
}

type INDMoneyParser struct{}

func NewParser() *INDMoneyParser {
	return &INDMoneyParser{}
}

func (p *INDMoneyParser) Manager() string { return managerName }

func (p *INDMoneyParser) FilePattern() string { return "indmoney" }

func (p *INDMoneyParser) Extract(path string, password string) ([]models.RawHolding, error) {
	if err := validation.RequireType(path, validation.StatementPDF); err != nil {
		return nil, &models.DocumentAccessError{Manager: managerName, Path: path, Err: err}
	}
	doc, err := pdfdoc.Open(path, password)
	if err != nil {
		return nil, &models.DocumentAccessError{Manager: managerName, Path: path, Err: err}
	}

	holdingDates := holdingDatesFromExcel(findHoldingsReport(filepath.Dir(path)))
	return parseDocument(doc, holdingDates), nil
}

func parseDocument(doc *pdfdoc.Document, holdingDates map[string]string) []models.RawHolding {
	reportDate := ""
	if len(doc.Pages) > 0 {
		if m := periodRe.FindStringSubmatch(doc.Pages[0].Text()); m != nil {
			reportDate = utils.MonthEndFromPeriod(m[1])
		}
	}

	var holdings []models.RawHolding
	for pageNum, page := range doc.Pages {
		text := strings.ToUpper(page.Text())
		if !containsAny(text, holdingsKeywords) {
			continue
		}
		// Summary pages repeat totals but carry no per-stock rows.
		if strings.Contains(text, "SUMMARY") && !strings.Contains(text, "DETAILED") &&
			strings.Count(page.Text(), "Total") > 2 {
			continue
		}

		headerSeen := false
		for rowIdx, row := range page.Rows {
			if !headerSeen {
				headerSeen = rowContains(row, "Symbol")
				continue
			}
			if len(row) < 5 {
				continue
			}

			symbol := strings.TrimSpace(row[0])
			description := strings.TrimSpace(row[1])
			if symbol == "" || strings.HasPrefix(symbol, "*") ||
				symbol == "Symbol" || symbol == "Total" || symbol == "Grand Total" {
				continue
			}

			marketUSD, costUSD := pickValues(row)
			if marketUSD <= 0 {
				continue
			}

			name := symbol
			if description != "" {
				name = symbol + " - " + truncate(description, 30)
			}

			holdings = append(holdings, models.RawHolding{
				SourceManager:   managerName,
				AssetType:       "US Stocks",
				AssetName:       name,
				InvestmentValue: costUSD,
				MarketValue:     marketUSD,
				Currency:        "USD",
				ValueAsOfDate:   reportDate,
				InvestmentDate:  holdingDates[symbol],
				RawData: map[string]any{
					"symbol":           symbol,
					"market_value_usd": marketUSD,
					"cost_basis_usd":   costUSD,
					"page":             pageNum + 1,
					"row_index":        rowIdx,
				},
			})
		}
	}
	return holdings
}

// pickValues locates the USD market value and cost basis in a holdings row.
// Column positions drift between statement versions, so amounts are matched
// by magnitude and position: market value from column 4 onward (preferring
// column 5), cost basis from column 7 onward (preferring column 8).
func pickValues(row []string) (marketUSD, costUSD float64) {
	for colIdx, cell := range row {
		value := utils.CleanCurrencyValue(cell)
		if value <= 100 {
			continue
		}
		if colIdx >= 3 && (marketUSD == 0 || colIdx == 4) {
			marketUSD = value
		}
		if colIdx >= 6 && (costUSD == 0 || colIdx == 7) {
			costUSD = value
		}
	}
	return marketUSD, costUSD
}

// findHoldingsReport locates the holdings report spreadsheet that ships
// alongside the statement, or returns "" when the month folder has none.
func findHoldingsReport(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.Contains(strings.ToLower(entry.Name()), "holdings_report") {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

// holdingDatesFromExcel reads the "holding since" dates keyed by stock
// symbol. The sheet has a preamble; data starts after the "Stock Symbol"
// header row with the symbol in column A and the date in column B, printed
// like "14 Apr 2025, 09:22 PM".
func holdingDatesFromExcel(path string) map[string]string {
	dates := make(map[string]string)
	if path == "" {
		return dates
	}

	switch typ, err := validation.DetectStatementType(path); {
	case err != nil:
		logger.L.Warn("Skipping holdings report, unrecognized file format", "path", path, "error", err)
		return dates
	case typ == validation.StatementXLS:
		// The reader handles the zip-based format only.
		logger.L.Warn("Skipping holdings report in legacy xls format", "path", path)
		return dates
	case typ != validation.StatementXLSX:
		logger.L.Warn("Skipping holdings report, not a spreadsheet", "path", path, "format", string(typ))
		return dates
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		logger.L.Warn("Skipping holdings report, cannot open workbook", "path", path, "error", err)
		return dates
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dates
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		logger.L.Warn("Skipping holdings report, cannot read sheet", "path", path, "error", err)
		return dates
	}

	inData := false
	for _, row := range rows {
		if !inData {
			inData = rowContains(row, "Stock Symbol")
			continue
		}
		if len(row) < 2 {
			continue
		}
		symbol := strings.TrimSpace(row[0])
		holdingSince := strings.TrimSpace(row[1])
		if symbol == "" || symbol == "Disclaimer:-" || holdingSince == "" {
			continue
		}
		if m := holdingDateRe.FindString(holdingSince); m != "" {
			dates[symbol] = utils.NormalizeDate(m)
		}
	}
	return dates
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

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

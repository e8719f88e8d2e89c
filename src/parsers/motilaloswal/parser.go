// Package motilaloswal parses Motilal Oswal portfolio reports. The statement
// carries two table shapes: a direct equity table keyed by an ISIN header
// column and an AIF table keyed by an Instrument header column, with XIRR
// printed per AIF row.
package motilaloswal

import (
	"strings"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/pdfdoc"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/utils"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/validation"
)

const managerName = "Motilal Oswal"

// The first two pages are cover and summary.
const firstHoldingsPage = 2

var equityKeywords = []string{
	"DIRECT EQUITY", "EQUITY HOLDING", "ISIN", "SECTOR", "SECURITY",
	"MARKET VALUE", "INVESTMENT VALUE", "UNREALIZED",
}

var aifKeywords = []string{
	"AIF", "ALTERNATIVE INVESTMENT", "INSTRUMENT", "ASSET CLASS",
	"PORTFOLIO MANAGEMENT", "FUND MANAGER", "XIRR",
}

type MotilalOswalParser struct{}

func NewParser() *MotilalOswalParser {
	return &MotilalOswalParser{}
}

func (p *MotilalOswalParser) Manager() string { return managerName }

func (p *MotilalOswalParser) FilePattern() string { return "motilal oswal" }

func (p *MotilalOswalParser) Extract(path string, password string) ([]models.RawHolding, error) {
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
		hasEquity := containsAny(upper, equityKeywords)
		hasAIF := containsAny(upper, aifKeywords)
		if !hasEquity && !hasAIF {
			continue
		}
		if strings.Contains(upper, "SUMMARY") && !strings.Contains(upper, "DETAILED") &&
			strings.Count(page.Text(), "Total") > 3 {
			continue
		}

		if hasEquity {
			holdings = append(holdings, equityHoldings(page, reportDate, pageNum)...)
		}
		if hasAIF {
			holdings = append(holdings, aifHoldings(page, reportDate, pageNum)...)
		}
	}
	return holdings
}

// equityHoldings reads the direct equity table: sector, security and ISIN in
// the first three columns, investment value in column 12 and market value in
// column 14.
func equityHoldings(page pdfdoc.Page, reportDate string, pageNum int) []models.RawHolding {
	var holdings []models.RawHolding
	inTable := false
	for _, row := range page.Rows {
		if !inTable {
			inTable = rowContains(row, "ISIN")
			continue
		}
		if len(row) < 10 {
			continue
		}

		sector := strings.TrimSpace(row[0])
		security := strings.TrimSpace(row[1])
		isin := strings.TrimSpace(row[2])
		if security == "" || security == "-" || isin == "" || strings.Contains(security, "Total") {
			continue
		}

		var investment, market float64
		if len(row) > 11 {
			investment = utils.CleanCurrencyValue(row[11])
		}
		if len(row) > 13 {
			market = utils.CleanCurrencyValue(row[13])
		}
		if market <= 0 {
			continue
		}

		holdings = append(holdings, models.RawHolding{
			SourceManager:   managerName,
			AssetType:       "Direct Equity",
			AssetName:       security,
			InvestmentValue: investment,
			MarketValue:     market,
			Currency:        "INR",
			ValueAsOfDate:   reportDate,
			RawData: map[string]any{
				"sector": sector,
				"isin":   isin,
				"page":   pageNum + 1,
			},
		})
	}
	return holdings
}

// aifHoldings reads the AIF table: category, instrument and asset class up
// front, commitment figures in columns 6 and 7 and XIRR in column 12.
func aifHoldings(page pdfdoc.Page, reportDate string, pageNum int) []models.RawHolding {
	var holdings []models.RawHolding
	inTable := false
	for _, row := range page.Rows {
		if !inTable {
			inTable = rowContains(row, "Instrument")
			continue
		}
		if len(row) < 8 {
			continue
		}

		category := strings.TrimSpace(row[0])
		instrument := strings.TrimSpace(row[1])
		assetClass := strings.TrimSpace(row[3])
		if instrument == "" || instrument == "-" || assetClass == "" ||
			strings.Contains(category, "Total") {
			continue
		}

		investment := utils.CleanCurrencyValue(row[5])
		market := utils.CleanCurrencyValue(row[6])
		if market <= 0 {
			continue
		}

		h := models.RawHolding{
			SourceManager:   managerName,
			AssetType:       "AIF",
			AssetName:       instrument,
			InvestmentValue: investment,
			MarketValue:     market,
			Currency:        "INR",
			ValueAsOfDate:   reportDate,
			RawData: map[string]any{
				"category":    category,
				"asset_class": assetClass,
				"page":        pageNum + 1,
			},
		}
		if len(row) > 11 {
			if xirr := utils.CleanCurrencyValue(row[11]); xirr != 0 {
				h.IRRPercentage = &xirr
				h.RawData["xirr"] = xirr
			}
		}
		holdings = append(holdings, h)
	}
	return holdings
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

// Package clientassociates parses Client Associates AIF portfolio reports.
// The statement prints each fund as a name-and-date line; the ten numeric
// fields either trail the date on the same line or land on a separate
// numbers-only line shortly after, depending on how the fund name wraps.
package clientassociates

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/pdfdoc"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/utils"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/validation"
)

const managerName = "Client Associates"

var (
	reportDateRe  = regexp.MustCompile(`Report Date : (\d{2}/\d{2}/\d{4})`)
	dmyRe         = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	numericLineRe = regexp.MustCompile(`^[\d.,\s]+$`)
)

var holdingsKeywords = []string{
	"SECURITY", "AIF", "FUND", "EQUITY", "DEBT", "MARKET VALUE",
	"TOTAL COST", "UNIT COST", "QUANTITY", "IRR%", "G/L",
}

var fundNameKeywords = []string{"Fund", "AIF", "Alpha", "Growth"}

type ClientAssociatesParser struct{}

func NewParser() *ClientAssociatesParser {
	return &ClientAssociatesParser{}
}

func (p *ClientAssociatesParser) Manager() string { return managerName }

func (p *ClientAssociatesParser) FilePattern() string { return "client associates" }

func (p *ClientAssociatesParser) Extract(path string, password string) ([]models.RawHolding, error) {
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
		if m := reportDateRe.FindStringSubmatch(doc.Pages[0].Text()); m != nil {
			reportDate = utils.NormalizeDate(m[1])
		}
	}

	var holdings []models.RawHolding
	for pageNum, page := range doc.Pages {
		upper := strings.ToUpper(page.Text())
		if !containsAny(upper, holdingsKeywords) {
			continue
		}
		// XIRR summary pages list portfolio-level returns, not securities.
		if strings.Contains(page.Text(), "RETURN (XIRR)") && !strings.Contains(page.Text(), "SECURITY") {
			continue
		}

		category := ""
		for i, line := range page.Lines {
			line = strings.TrimSpace(line)
			switch line {
			case "Equity", "Debt":
				category = line
				continue
			case "", "-", "PRIVATE AND CONFIDENTIAL":
				continue
			}
			if strings.Contains(line, "Report Date") {
				continue
			}
			if !isFundLine(line) {
				continue
			}

			fundName, investmentDate, dateIdx := splitFundLine(line)
			if fundName == "" || dateIdx < 0 {
				continue
			}

			values := fundValues(strings.Fields(line)[dateIdx+1:], page.Lines, i)
			if len(values) < 5 {
				continue
			}

			// Field order after the date: Quantity, Unit Cost, Total Cost,
			// Market Price, Market Value, Income, Total G/L, % G/L, IRR%, % Assets.
			totalCost := values[2]
			marketValue := values[4]
			if totalCost <= 1000 || marketValue <= 1000 {
				continue
			}

			h := models.RawHolding{
				SourceManager:   managerName,
				AssetType:       "AIF",
				AssetName:       fundName,
				InvestmentValue: totalCost,
				MarketValue:     marketValue,
				Currency:        "INR",
				ValueAsOfDate:   reportDate,
				InvestmentDate:  investmentDate,
				RawData: map[string]any{
					"category":       category,
					"page":           pageNum + 1,
					"line_number":    i + 1,
					"numeric_values": values,
					"raw_line":       line,
				},
			}
			if len(values) > 8 {
				irr := values[8]
				h.IRRPercentage = &irr
			}
			holdings = append(holdings, h)
		}
	}
	return holdings
}

func isFundLine(line string) bool {
	if !strings.ContainsAny(line, "0123456789") {
		return false
	}
	for _, kw := range fundNameKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}

// splitFundLine separates "ASK Growth India Fund Series II 15/03/2023 ..."
// into the fund name and the normalized investment date, plus the date's
// token index so callers can read the trailing numbers.
func splitFundLine(line string) (name, date string, dateIdx int) {
	parts := strings.Fields(line)
	for i, part := range parts {
		if dmyRe.MatchString(part) {
			return strings.Join(parts[:i], " "), utils.NormalizeDate(part), i
		}
	}
	return "", "", -1
}

// fundValues resolves the ten numeric fields for a fund line. When the name
// wraps, the statement pushes all ten numbers to their own line within the
// next three lines; that line wins over whatever trails the date.
func fundValues(trailing []string, lines []string, lineIdx int) []float64 {
	for offset := 1; offset <= 3; offset++ {
		if lineIdx+offset >= len(lines) {
			break
		}
		candidate := strings.TrimSpace(lines[lineIdx+offset])
		if len(candidate) < 20 || !numericLineRe.MatchString(candidate) {
			continue
		}
		values := parseNumbers(strings.Fields(candidate))
		if len(values) == 10 {
			return values
		}
	}
	return parseNumbers(trailing)
}

func parseNumbers(tokens []string) []float64 {
	var values []float64
	for _, tok := range tokens {
		cleaned := strings.ReplaceAll(tok, ",", "")
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

package indmoney

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/pdfdoc"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func statementDoc() *pdfdoc.Document {
	return &pdfdoc.Document{
		Pages: []pdfdoc.Page{
			{Lines: []string{
				"Account Statement",
				"Monthly Statement Period: AUGUST - 2025",
			}},
			{
				Lines: []string{"DETAILED HOLDINGS", "Symbol Description"},
				Rows: [][]string{
					{"Symbol", "Description", "Qty", "Market Price", "Market Value", "Avg Price", "Unit Cost", "Cost Basis"},
					{"AAPL", "Apple Inc", "10", "150.00", "1,500.00", "95.00", "120.00", "1,200.00"},
					{"TSLA", "Tesla Inc", "5", "240.00", "1,200.00", "180.00", "170.00", "850.00"},
					{"Total", "", "", "", "2,700.00", "", "", "2,050.00"},
				},
			},
		},
	}
}

func TestParseDocument(t *testing.T) {
	dates := map[string]string{"AAPL": "2025-04-14"}
	holdings := parseDocument(statementDoc(), dates)

	require.Len(t, holdings, 2)

	aapl := holdings[0]
	require.Equal(t, "IND Money", aapl.SourceManager)
	require.Equal(t, "US Stocks", aapl.AssetType)
	require.Equal(t, "AAPL - Apple Inc", aapl.AssetName)
	require.Equal(t, "USD", aapl.Currency)
	require.Equal(t, 1500.0, aapl.MarketValue)
	require.Equal(t, 1200.0, aapl.InvestmentValue)
	require.Equal(t, "2025-08-31", aapl.ValueAsOfDate)
	require.Equal(t, "2025-04-14", aapl.InvestmentDate)

	tsla := holdings[1]
	require.Equal(t, "TSLA - Tesla Inc", tsla.AssetName)
	require.Equal(t, "", tsla.InvestmentDate)
}

func TestParseDocumentSkipsSummaryPages(t *testing.T) {
	doc := &pdfdoc.Document{
		Pages: []pdfdoc.Page{{
			Lines: []string{
				"PORTFOLIO SUMMARY",
				"Total 1,500.00",
				"Total 1,200.00",
				"Total 2,700.00",
			},
			Rows: [][]string{
				{"Symbol", "Value"},
				{"AAPL", "Apple", "10", "150.00", "1,500.00"},
			},
		}},
	}
	require.Empty(t, parseDocument(doc, nil))
}

func TestHoldingDatesFromExcel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holdings_report_sep.xlsx")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]any{"US Stocks holdings report"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A3", &[]any{"Stock Symbol", "Holding Since"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A4", &[]any{"AAPL", "14 Apr 2025, 09:22 PM"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A5", &[]any{"TSLA", "7 Jan 2024, 11:05 AM"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A6", &[]any{"Disclaimer:-", ""}))
	require.NoError(t, wb.SaveAs(path))

	require.Equal(t, path, findHoldingsReport(dir))

	dates := holdingDatesFromExcel(path)
	require.Equal(t, map[string]string{
		"AAPL": "2025-04-14",
		"TSLA": "2024-01-07",
	}, dates)
}

func TestHoldingDatesSkipLegacyXLS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holdings_report.xls")
	// Compound-file signature of the legacy format.
	content := append([]byte{0xD0, 0xCF, 0x11, 0xE0}, make([]byte, 16)...)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	require.Empty(t, holdingDatesFromExcel(path))
}

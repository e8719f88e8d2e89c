package kotak

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/pdfdoc"
)

func statementDoc() *pdfdoc.Document {
	holdingsPage := pdfdoc.Page{
		Lines: []string{
			"HOLDING STATEMENT",
			"KOTAK EMERGING EQUITY FUND GROWTH",
			"Txn. 7/04/22",
			"SOME INFRA CORPORATION NCD SERIES IV",
			"Asset 30/09/22",
		},
		Rows: [][]string{
			{"Instrument Name", "Bal. No. Of Units", "Avg. Price", "Holding Cost", "Price Per Unit", "Market Value"},
			{"MUTUAL FUNDS"},
			{"KOTAK EMERGING EQUITY FUND GROWTH", "1000", "500.00", "5,00,000.00", "800.00", "8,00,000.00"},
			{"INE0TLC12345", "100", "99.00", "9,900.00"},
			{"BONDS"},
			{"SOME INFRA CORPORATION NCD SERIES IV", "1000", "1,000.00", "10,00,000.00", "980.00", "9,80,000.00"},
			{"Total", "", "", "15,00,000.00"},
		},
	}

	return &pdfdoc.Document{
		Pages: []pdfdoc.Page{{}, {}, {}, {}, holdingsPage},
	}
}

func TestParseDocument(t *testing.T) {
	holdings := parseDocument(statementDoc(), "2025-08-31")
	require.Len(t, holdings, 2)

	fund := holdings[0]
	require.Equal(t, "Kotak", fund.SourceManager)
	require.Equal(t, "Mutual Funds", fund.AssetType)
	require.Equal(t, "KOTAK EMERGING EQUITY FUND GROWTH", fund.AssetName)
	require.Equal(t, 500000.0, fund.InvestmentValue)
	require.Equal(t, 800000.0, fund.MarketValue)
	require.Equal(t, "2022-04-07", fund.InvestmentDate)
	require.Equal(t, "2025-08-31", fund.ValueAsOfDate)

	bond := holdings[1]
	require.Equal(t, "Bonds", bond.AssetType)
	require.Equal(t, "2022-09-30", bond.InvestmentDate)

	// Bonds carry at face value, so cost doubles as market value.
	require.Equal(t, 1000000.0, bond.InvestmentValue)
	require.Equal(t, 1000000.0, bond.MarketValue)
}

func TestParseDocumentSkipsActivityPages(t *testing.T) {
	doc := &pdfdoc.Document{
		Pages: []pdfdoc.Page{{}, {}, {}, {}, {
			Lines: []string{"PORTFOLIO ACTIVITY", "HOLDING STATEMENT"},
			Rows: [][]string{
				{"Instrument Name"},
				{"KOTAK EMERGING EQUITY FUND GROWTH", "1000", "500.00", "5,00,000.00", "800.00", "8,00,000.00"},
			},
		}},
	}
	require.Empty(t, parseDocument(doc, "2025-08-31"))
}

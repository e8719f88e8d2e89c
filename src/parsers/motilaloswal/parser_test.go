package motilaloswal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/pdfdoc"
)

func statementDoc() *pdfdoc.Document {
	cover := pdfdoc.Page{Lines: []string{"Portfolio Report as on 26 Sep 2025"}}

	equityPage := pdfdoc.Page{
		Lines: []string{"DIRECT EQUITY HOLDING", "Sector Security ISIN"},
		Rows: [][]string{
			{"Sector", "Security", "ISIN", "Qty", "Rate", "Val", "Qty2", "Rate2", "Val2", "Pledge", "Free", "Investment Value", "Gain", "Market Value"},
			{"Banks", "HDFC Bank Ltd", "INE040A01034", "100", "1500", "-", "-", "-", "-", "-", "-", "5,00,000", "1,50,000", "6,50,000"},
			{"", "Equity - Total", "", "", "", "", "", "", "", "", "", "5,00,000", "", "6,50,000"},
		},
	}

	aifPage := pdfdoc.Page{
		Lines: []string{"AIF HOLDINGS", "Instrument Asset Class XIRR"},
		Rows: [][]string{
			{"Category", "Instrument", "Folio", "Asset Class", "Units", "Investment", "Market Value", "Gain", "G%", "Inc", "Dt", "XIRR"},
			{"AIF Cat III", "Motilal Oswal Founders Fund", "F123", "Equity", "1000", "1,00,00,000", "1,15,00,000", "15,00,000", "15.0", "0", "-", "18.5"},
			{"Total", "-", "", "", "", "1,00,00,000", "1,15,00,000"},
		},
	}

	return &pdfdoc.Document{Pages: []pdfdoc.Page{cover, {}, equityPage, aifPage}}
}

func TestParseDocument(t *testing.T) {
	holdings := parseDocument(statementDoc())
	require.Len(t, holdings, 2)

	equity := holdings[0]
	require.Equal(t, "Motilal Oswal", equity.SourceManager)
	require.Equal(t, "Direct Equity", equity.AssetType)
	require.Equal(t, "HDFC Bank Ltd", equity.AssetName)
	require.Equal(t, 500000.0, equity.InvestmentValue)
	require.Equal(t, 650000.0, equity.MarketValue)
	require.Equal(t, "2025-09-26", equity.ValueAsOfDate)
	require.Nil(t, equity.IRRPercentage)

	aif := holdings[1]
	require.Equal(t, "AIF", aif.AssetType)
	require.Equal(t, "Motilal Oswal Founders Fund", aif.AssetName)
	require.Equal(t, 10000000.0, aif.InvestmentValue)
	require.Equal(t, 11500000.0, aif.MarketValue)
	require.NotNil(t, aif.IRRPercentage)
	require.Equal(t, 18.5, *aif.IRRPercentage)
	require.Equal(t, 18.5, aif.RawData["xirr"])
}

func TestParseDocumentSkipsCoverPages(t *testing.T) {
	doc := &pdfdoc.Document{
		Pages: []pdfdoc.Page{{
			Lines: []string{"DIRECT EQUITY HOLDING", "ISIN"},
			Rows: [][]string{
				{"Sector", "Security", "ISIN"},
				{"Banks", "HDFC Bank Ltd", "INE040A01034", "", "", "", "", "", "", "", "", "5,00,000", "", "6,50,000"},
			},
		}},
	}
	require.Empty(t, parseDocument(doc))
}

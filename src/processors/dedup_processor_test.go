package processors

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
)

func holding(manager, assetType, name string, market float64) models.Holding {
	return models.Holding{
		ManagerName:            manager,
		AssetType:              assetType,
		AssetName:              name,
		CurrentInvestmentValue: market,
		CurrentMarketValue:     market,
		ValueAsOfDate:          "2025-08-31",
	}
}

func TestApplyDropsInvalidRows(t *testing.T) {
	p := NewDedupProcessor(0.5)

	out := p.Apply([]models.Holding{
		holding("Kotak", "Bonds", "Some NCD", 0),
		holding("Kotak", "Bonds", "Another NCD", -500),
		holding("IND Money", "US Stocks", "*Values are indicative", 90000),
		holding("IND Money", "US Stocks", "Disclaimer:- not advice", 90000),
		holding("IND Money", "US Stocks", "  ", 90000),
		holding("Yes Bank", "Equity Mutual Funds", "HDFC Flexi Cap Fund", 90000),
	})

	require.Len(t, out, 1)
	require.Equal(t, "HDFC Flexi Cap Fund", out[0].AssetName)
}

func TestApplyMergesSamePositionAcrossManagers(t *testing.T) {
	p := NewDedupProcessor(0.5)

	// Same fund reported by two managers with plan-suffix noise and a 50
	// rupee reporting difference on a 100,000 position.
	a := holding("Client Associates", "AIF", "ASK Growth India Fund Class A1", 100000)
	irr := 14.2
	a.IRRPercentage = &irr
	b := holding("Kotak", "AIF", "ASK GROWTH INDIA FUND - DIRECT PLAN", 100050)

	out := p.Apply([]models.Holding{a, b})
	require.Len(t, out, 1)
	require.Equal(t, "Client Associates", out[0].ManagerName)
	require.NotNil(t, out[0].IRRPercentage)
}

func TestApplyKeepsPositionsOutsideTolerance(t *testing.T) {
	p := NewDedupProcessor(0.5)

	a := holding("Client Associates", "AIF", "ASK Growth India Fund", 100000)
	b := holding("Kotak", "AIF", "ASK Growth India Fund", 102000) // 1.96% apart

	out := p.Apply([]models.Holding{a, b})
	require.Len(t, out, 2)
}

func TestApplyKeepsDistinctTranches(t *testing.T) {
	p := NewDedupProcessor(0.5)

	a := holding("Client Associates", "AIF", "Altacura AI Absolute Return Fund 25-Aug-23", 500000)
	b := holding("Kotak", "AIF", "Altacura AI Absolute Return Fund 23-Feb-23", 500000)

	out := p.Apply([]models.Holding{a, b})
	require.Len(t, out, 2)
}

func TestApplyDoesNotMergeAcrossAssetTypes(t *testing.T) {
	p := NewDedupProcessor(0.5)

	a := holding("Kotak", "Mutual Funds", "White Oak India Equity Fund", 250000)
	b := holding("Kotak", "AIF", "White Oak India Equity Fund", 250000)

	out := p.Apply([]models.Holding{a, b})
	require.Len(t, out, 2)
}

func TestApplyPrefersCompleteness(t *testing.T) {
	p := NewDedupProcessor(0.5)

	// Seen first but bare.
	a := holding("Kotak", "AIF", "Accuracap Alpha Fund", 300000)
	b := holding("Client Associates", "AIF", "Accuracap Alpha Fund", 300000)
	b.InvestmentDate = "2023-03-15"

	out := p.Apply([]models.Holding{a, b})
	require.Len(t, out, 1)
	require.Equal(t, "Client Associates", out[0].ManagerName)
	require.Equal(t, "2023-03-15", out[0].InvestmentDate)
}

func TestApplyTieBreaksOnLaterValueDate(t *testing.T) {
	p := NewDedupProcessor(0.5)

	a := holding("Kotak", "AIF", "White Space Alpha Fund", 300000)
	a.ValueAsOfDate = "2025-07-31"
	b := holding("IIFL 360 One", "AIF", "White Space Alpha Fund", 300000)
	b.ValueAsOfDate = "2025-08-31"

	out := p.Apply([]models.Holding{a, b})
	require.Len(t, out, 1)
	require.Equal(t, "IIFL 360 One", out[0].ManagerName)
}

func TestApplyOrdersDeterministically(t *testing.T) {
	p := NewDedupProcessor(0.5)

	out := p.Apply([]models.Holding{
		holding("Yes Bank", "Equity Mutual Funds", "Fund B", 200000),
		holding("Kotak", "Direct Equity", "Stock A", 100000),
		holding("Kotak", "Direct Equity", "Stock B", 500000),
		holding("Yes Bank", "Equity Mutual Funds", "Fund A", 200000),
	})

	require.Len(t, out, 4)
	require.Equal(t, "Stock B", out[0].AssetName) // Kotak, largest first
	require.Equal(t, "Stock A", out[1].AssetName)
	require.Equal(t, "Fund A", out[2].AssetName) // Yes Bank, name breaks the tie
	require.Equal(t, "Fund B", out[3].AssetName)
}

func TestAssetKeyNormalization(t *testing.T) {
	require.Equal(t,
		assetKey("ASK Growth India Fund Class A1"),
		assetKey("ASK GROWTH INDIA FUND - DIRECT PLAN"))
	require.Equal(t,
		assetKey("White Oak India Equity Fund Ltd"),
		assetKey("WHITE OAK INDIA EQUITY LIMITED"))
	require.NotEqual(t,
		assetKey("Altacura AI Fund 25-Aug-23"),
		assetKey("Altacura AI Fund 23-Feb-23"))
}

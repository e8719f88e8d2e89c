package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
)

func TestWriteAndReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "extracted_portfolio_data.json")
	w := NewDatasetWriter(path)

	irr := 14.2
	in := []models.Holding{{
		ManagerName:            "Client Associates",
		AssetType:              "AIF",
		AssetName:              "ASK Growth India Fund",
		CurrentInvestmentValue: 9999500,
		CurrentMarketValue:     10650000,
		ValueAsOfDate:          "2025-08-31",
		PLAmount:               650500,
		PLPercentage:           6.5053,
		IRRPercentage:          &irr,
		InvestmentDate:         "2023-03-15",
	}}

	require.NoError(t, w.Write(in))

	out, err := w.Read()
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestWriteUsesSnakeCaseContract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	w := NewDatasetWriter(path)

	require.NoError(t, w.Write([]models.Holding{{
		ManagerName:        "Kotak",
		AssetType:          "Bonds",
		AssetName:          "Some NCD",
		CurrentMarketValue: 500000,
		ValueAsOfDate:      "2025-08-31",
	}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))
	require.Len(t, rows, 1)
	require.Contains(t, rows[0], "manager_name")
	require.Contains(t, rows[0], "current_investment_value")
	require.Contains(t, rows[0], "value_as_of_date")
	require.Contains(t, rows[0], "irr_percentage")

	// Empty optional fields stay out of the payload.
	require.NotContains(t, rows[0], "investment_date")
	require.NotContains(t, rows[0], "raw_data")
}

func TestWriteRefusesEmptyDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	w := NewDatasetWriter(path)

	prior := []models.Holding{{
		ManagerName:        "Yes Bank",
		AssetType:          "Equity Mutual Funds",
		AssetName:          "HDFC Flexi Cap Fund",
		CurrentMarketValue: 1065893.41,
	}}
	require.NoError(t, w.Write(prior))

	err := w.Write(nil)
	require.ErrorIs(t, err, models.ErrPipelineEmpty)

	// The previous dataset survives the refused write.
	out, readErr := w.Read()
	require.NoError(t, readErr)
	require.Len(t, out, 1)
}

func TestWriteLeavesNoTempFilesBehind(t *testing.T) {
	dir := t.TempDir()
	w := NewDatasetWriter(filepath.Join(dir, "data.json"))

	require.NoError(t, w.Write([]models.Holding{{
		ManagerName:        "Kotak",
		AssetType:          "Bonds",
		AssetName:          "Some NCD",
		CurrentMarketValue: 500000,
	}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "data.json", entries[0].Name())
}

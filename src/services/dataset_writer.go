package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
)

// DatasetWriter persists the final holdings collection. Writes go to a temp
// file in the target directory followed by a rename, so readers either see
// the previous complete dataset or the new one, never a partial file.
type DatasetWriter struct {
	path string
}

func NewDatasetWriter(path string) *DatasetWriter {
	return &DatasetWriter{path: path}
}

func (w *DatasetWriter) Write(holdings []models.Holding) error {
	// Refuse to replace a previously good dataset with nothing.
	if len(holdings) == 0 {
		return models.ErrPipelineEmpty
	}

	data, err := json.MarshalIndent(holdings, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling holdings dataset: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".holdings-*.json")
	if err != nil {
		return fmt.Errorf("error creating temp dataset file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing temp dataset file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error setting dataset permissions: %w", err)
	}

	if err := os.Rename(tmpName, w.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing dataset %q: %w", w.path, err)
	}

	logger.L.Info("Dataset written", "path", w.path, "holdings", len(holdings))
	return nil
}

// Read loads a previously written dataset, primarily for verification.
func (w *DatasetWriter) Read() ([]models.Holding, error) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("error reading dataset %q: %w", w.path, err)
	}
	var holdings []models.Holding
	if err := json.Unmarshal(data, &holdings); err != nil {
		return nil, fmt.Errorf("error unmarshalling dataset %q: %w", w.path, err)
	}
	return holdings, nil
}

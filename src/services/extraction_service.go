package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/parsers"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/processors"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/utils"
)

// ExtractionService drives one pipeline run: locate the newest month folder,
// run every manager's parser over its statement, normalize and filter the
// rows, and persist the dataset. One manager failing never aborts the run;
// an entirely empty run never overwrites the previous dataset.
type ExtractionService struct {
	parsers []parsers.StatementParser
	creds   CredentialTable
	builder *processors.HoldingProcessor
	filter  *processors.DedupProcessor
	writer  *DatasetWriter
}

func NewExtractionService(
	statementParsers []parsers.StatementParser,
	creds CredentialTable,
	builder *processors.HoldingProcessor,
	filter *processors.DedupProcessor,
	writer *DatasetWriter,
) *ExtractionService {
	return &ExtractionService{
		parsers: statementParsers,
		creds:   creds,
		builder: builder,
		filter:  filter,
		writer:  writer,
	}
}

// Run executes the pipeline against the latest month folder under dataDir.
// The returned report is non-nil whenever extraction ran, even if some
// managers failed.
func (s *ExtractionService) Run(ctx context.Context, dataDir string) (*models.RunReport, error) {
	monthDir, err := LatestMonthDir(dataDir)
	if err != nil {
		return nil, err
	}
	logger.L.Info("Starting extraction run", "monthDir", monthDir)

	report := &models.RunReport{MonthDir: monthDir}
	var allRaw []models.RawHolding

	for _, parser := range s.parsers {
		summary := models.ManagerSummary{Manager: parser.Manager()}

		pattern := parser.FilePattern()
		cred := s.creds[parser.Manager()]
		if cred.FilePattern != "" {
			pattern = cred.FilePattern
		}

		path := findFileByPattern(monthDir, pattern)
		if path == "" {
			logger.L.Warn("No statement found for manager, skipping",
				"manager", parser.Manager(), "pattern", pattern, "monthDir", monthDir)
			report.Managers = append(report.Managers, summary)
			continue
		}
		summary.StatementPath = path

		raw, err := parser.Extract(path, cred.Password)
		if err != nil {
			summary.Err = err
			logger.L.Error("Manager extraction failed", "manager", parser.Manager(), "error", err)
			report.Managers = append(report.Managers, summary)
			continue
		}

		summary.RowsExtracted = len(raw)
		logger.L.Info("Manager extraction complete",
			"manager", parser.Manager(), "rows", len(raw), "statement", filepath.Base(path))
		report.Managers = append(report.Managers, summary)
		allRaw = append(allRaw, raw...)
	}

	holdings, stats := s.builder.Process(ctx, allRaw)
	for i := range report.Managers {
		report.Managers[i].RowsDropped = stats.Dropped[report.Managers[i].Manager]
		report.Managers[i].RowsUnconverted = stats.Unconverted[report.Managers[i].Manager]
	}
	report.Extracted = len(holdings)

	final := s.filter.Apply(holdings)
	report.Emitted = len(final)

	if len(final) == 0 {
		return report, models.ErrPipelineEmpty
	}
	if err := s.writer.Write(final); err != nil {
		return report, err
	}

	logger.L.Info("Extraction run finished",
		"extracted", report.Extracted, "emitted", report.Emitted,
		"failedManagers", len(report.Failed()))
	return report, nil
}

// LatestMonthDir picks the newest "January 2006"-named folder under dataDir.
// Folders that do not parse as a month are ignored with a warning.
func LatestMonthDir(dataDir string) (string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return "", fmt.Errorf("failed to read data directory %q: %w", dataDir, err)
	}

	var latest time.Time
	var latestName string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		month, err := utils.ParseMonthFolder(entry.Name())
		if err != nil {
			logger.L.Warn("Ignoring non-month folder in data directory", "name", entry.Name())
			continue
		}
		if latestName == "" || month.After(latest) {
			latest = month
			latestName = entry.Name()
		}
	}

	if latestName == "" {
		return "", fmt.Errorf("no month folders found in %q (expected names like \"August 2025\")", dataDir)
	}
	return filepath.Join(dataDir, latestName), nil
}

// findFileByPattern returns the first file in dir whose name contains
// pattern, compared case-insensitively. "" means no match.
func findFileByPattern(dir, pattern string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	lowered := strings.ToLower(pattern)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.Contains(strings.ToLower(entry.Name()), lowered) {
			return filepath.Join(dir, entry.Name())
		}
	}
	return ""
}

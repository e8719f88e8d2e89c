package main

import (
	"context"
	"errors"
	stdlog "log"
	"os"

	"github.com/anirudhhgupta/portfolio-investment-tracker/src/config"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/database"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/logger"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/models"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/parsers"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/processors"
	"github.com/anirudhhgupta/portfolio-investment-tracker/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)
	logger.L.Info("Portfolio extraction pipeline starting...")

	logger.L.Info("Initializing exchange rate store...", "path", config.Cfg.RateDBPath)
	database.InitDB(config.Cfg.RateDBPath)

	creds, err := services.LoadCredentials(config.Cfg.CredentialsPath)
	if err != nil {
		logger.L.Error("Failed to load credentials", "error", err)
		stdlog.Fatalf("Failed to load credentials: %v", err)
	}

	var rateSource services.RateSource
	if config.Cfg.RateTablePath != "" {
		logger.L.Info("Using offline exchange rate table", "path", config.Cfg.RateTablePath)
		rateSource, err = services.NewCSVRateSource(config.Cfg.RateTablePath)
		if err != nil {
			logger.L.Error("Failed to load exchange rate table", "error", err)
			stdlog.Fatalf("Failed to load exchange rate table: %v", err)
		}
	} else {
		rateSource = services.NewHTTPRateSource(config.Cfg.RateAPIBaseURL, config.Cfg.RateLookupTimeout)
	}

	currencyService := services.NewCurrencyService(
		config.Cfg.HomeCurrency, rateSource, config.Cfg.RateLookupTimeout)
	builder := processors.NewHoldingProcessor(currencyService)
	filter := processors.NewDedupProcessor(config.Cfg.DedupTolerancePct)
	writer := services.NewDatasetWriter(config.Cfg.OutputPath)

	// Arguments restrict the run to specific managers, e.g. "kotak iifl".
	statementParsers := parsers.All()
	if args := os.Args[1:]; len(args) > 0 {
		statementParsers = statementParsers[:0]
		for _, name := range args {
			parser, err := parsers.GetParser(name)
			if err != nil {
				logger.L.Error("Unknown manager argument", "manager", name)
				stdlog.Fatalf("Unknown manager %q", name)
			}
			statementParsers = append(statementParsers, parser)
		}
	}

	extractionService := services.NewExtractionService(
		statementParsers, creds, builder, filter, writer)

	report, err := extractionService.Run(context.Background(), config.Cfg.DataDir)
	if err != nil {
		if errors.Is(err, models.ErrPipelineEmpty) {
			logger.L.Error("Run aborted: no manager produced valid holdings, previous dataset preserved")
		} else {
			logger.L.Error("Extraction run failed", "error", err)
		}
		os.Exit(1)
	}

	for _, m := range report.Managers {
		if m.Err != nil {
			logger.L.Warn("Manager failed during run", "manager", m.Manager, "error", m.Err)
			continue
		}
		logger.L.Info("Manager summary",
			"manager", m.Manager,
			"rowsExtracted", m.RowsExtracted,
			"rowsDropped", m.RowsDropped,
			"rowsUnconverted", m.RowsUnconverted)
	}
	logger.L.Info("Dataset written",
		"path", config.Cfg.OutputPath,
		"monthDir", report.MonthDir,
		"holdings", report.Emitted)
}

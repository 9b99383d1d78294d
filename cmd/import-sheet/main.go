package main

import (
	"context"
	"fmt"
	"time"

	"github.com/greypaperclip/cffadb/internal/config"
	"github.com/greypaperclip/cffadb/internal/importer"
	"github.com/greypaperclip/cffadb/internal/infra/mongo"
	"github.com/greypaperclip/cffadb/internal/ledger"
	"github.com/greypaperclip/cffadb/internal/logger"
)

func main() {
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := mongo.New(ctx, cfg.Mongo, cfg.Tenant)
	if err != nil {
		log.Fatal().Err(err).Msg("Connecting to the document store failed")
	}
	defer store.Close(ctx)

	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Creating indexes failed")
	}

	source, err := importer.NewSheetSource(ctx, cfg.Sheet)
	if err != nil {
		log.Fatal().Err(err).Msg("Opening the spreadsheet failed")
	}

	imp := importer.New(source, store, importer.Worksheets{
		Transactions: cfg.Sheet.TransactionsWorksheet,
		Games:        cfg.Sheet.GamesWorksheet,
		Summary:      cfg.Sheet.SummaryWorksheet,
	})

	log.Info().Str("sheet", cfg.Sheet.SpreadsheetName).Msg("Starting import")
	report, err := imp.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Import failed")
	}

	// Imported history changes every balance; rebuild all stored summaries.
	if err := ledger.NewService(store).Recompute(ctx); err != nil {
		log.Fatal().Err(err).Msg("Recomputing summaries failed")
	}

	fmt.Printf("Imported %d transactions (%d skipped), %d games (%d skipped), %d summary rows (%d skipped)\n",
		report.Transactions.Imported, report.Transactions.Skipped,
		report.Games.Imported, report.Games.Skipped,
		report.Summary.Imported, report.Summary.Skipped)
}

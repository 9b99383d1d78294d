// Package importer loads the club's historical spreadsheet into the document
// store: three worksheets (transactions, games, summary) upserted by natural
// key so the import can be re-run safely.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/greypaperclip/cffadb/internal/domain"
	"github.com/greypaperclip/cffadb/internal/logger"
)

// ErrSourceUnavailable means the spreadsheet itself could not be opened or
// read. It aborts the whole import; per-row problems never do.
var ErrSourceUnavailable = errors.New("spreadsheet source unavailable")

// errSkipRow marks a row that is not data at all (blank spacers on the
// summary sheet). Skipped silently, not counted as a failure.
var errSkipRow = errors.New("skip row")

// Worksheets names the three tabs an import reads.
type Worksheets struct {
	Transactions string
	Games        string
	Summary      string
}

// WorksheetReport counts the outcome for one worksheet.
type WorksheetReport struct {
	Imported int
	Skipped  int
}

// Report is the per-worksheet outcome of one import run.
type Report struct {
	Transactions WorksheetReport
	Games        WorksheetReport
	Summary      WorksheetReport
}

// Importer reads worksheets from a RowSource and upserts them into a Target.
type Importer struct {
	source RowSource
	target Target
	sheets Worksheets
}

// New creates an Importer.
func New(source RowSource, target Target, sheets Worksheets) *Importer {
	return &Importer{source: source, target: target, sheets: sheets}
}

// Run performs one full import. The summary worksheet goes first because the
// games worksheet's player columns can only be interpreted against the player
// list it yields. Rows that fail validation are skipped, counted and logged;
// a worksheet that cannot be read aborts the run with ErrSourceUnavailable.
func (i *Importer) Run(ctx context.Context) (Report, error) {
	log := logger.FromContext(ctx)
	var report Report

	players, err := i.importSummary(ctx, &report.Summary)
	if err != nil {
		return report, err
	}
	if err := i.importTransactions(ctx, &report.Transactions); err != nil {
		return report, err
	}
	if err := i.importGames(ctx, players, &report.Games); err != nil {
		return report, err
	}

	log.Info().
		Int("transactions", report.Transactions.Imported).
		Int("games", report.Games.Imported).
		Int("summary", report.Summary.Imported).
		Int("skipped", report.Transactions.Skipped+report.Games.Skipped+report.Summary.Skipped).
		Msg("import complete")
	return report, nil
}

func (i *Importer) importSummary(ctx context.Context, rep *WorksheetReport) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, err := i.source.Rows(ctx, i.sheets.Summary)
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w: %v", i.sheets.Summary, ErrSourceUnavailable, err)
	}

	var players []string
	adjustments := make([]domain.Adjustment, 0, len(rows))
	for n, raw := range rows {
		adj, err := parseAdjustment(raw)
		if errors.Is(err, errSkipRow) {
			continue
		}
		if err != nil {
			rep.Skipped++
			log.Warn().Err(err).Int("row", n+2).Str("worksheet", i.sheets.Summary).Msg("skipping row")
			continue
		}
		// Keep the raw sheet name: the games worksheet's column headers
		// use it verbatim, normalized names only exist in the store.
		players = append(players, strings.TrimSpace(raw[headerNames]))
		adjustments = append(adjustments, adj)
	}

	count, err := i.target.UpsertAdjustments(ctx, adjustments)
	if err != nil {
		return nil, fmt.Errorf("storing adjustments: %w", err)
	}
	rep.Imported = count
	return players, nil
}

func (i *Importer) importTransactions(ctx context.Context, rep *WorksheetReport) error {
	log := logger.FromContext(ctx)

	rows, err := i.source.Rows(ctx, i.sheets.Transactions)
	if err != nil {
		return fmt.Errorf("reading worksheet %q: %w: %v", i.sheets.Transactions, ErrSourceUnavailable, err)
	}

	txs := make([]domain.Transaction, 0, len(rows))
	for n, raw := range rows {
		t, err := parseTransaction(raw)
		if err != nil {
			rep.Skipped++
			log.Warn().Err(err).Int("row", n+2).Str("worksheet", i.sheets.Transactions).Msg("skipping row")
			continue
		}
		txs = append(txs, t)
	}

	count, err := i.target.UpsertTransactions(ctx, txs)
	if err != nil {
		return fmt.Errorf("storing transactions: %w", err)
	}
	rep.Imported = count
	return nil
}

func (i *Importer) importGames(ctx context.Context, players []string, rep *WorksheetReport) error {
	log := logger.FromContext(ctx)

	rows, err := i.source.Rows(ctx, i.sheets.Games)
	if err != nil {
		return fmt.Errorf("reading worksheet %q: %w: %v", i.sheets.Games, ErrSourceUnavailable, err)
	}

	games := make([]domain.Game, 0, len(rows))
	for n, raw := range rows {
		g, err := parseGame(raw, players)
		if err != nil {
			rep.Skipped++
			log.Warn().Err(err).Int("row", n+2).Str("worksheet", i.sheets.Games).Msg("skipping row")
			continue
		}
		games = append(games, g)
	}

	count, err := i.target.UpsertGames(ctx, games)
	if err != nil {
		return fmt.Errorf("storing games: %w", err)
	}
	rep.Imported = count
	return nil
}

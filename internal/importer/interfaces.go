package importer

import (
	"context"

	"github.com/greypaperclip/cffadb/internal/domain"
)

// RowSource yields worksheet rows as header->value maps, one map per data
// row. The Google Sheets implementation lives in sheets.go; tests use fakes.
type RowSource interface {
	Rows(ctx context.Context, worksheet string) ([]map[string]string, error)
}

// Target is the slice of the data access layer the importer writes to.
type Target interface {
	UpsertTransactions(ctx context.Context, txs []domain.Transaction) (int, error)
	UpsertGames(ctx context.Context, games []domain.Game) (int, error)
	UpsertAdjustments(ctx context.Context, adjs []domain.Adjustment) (int, error)
}

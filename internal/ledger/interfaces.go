package ledger

import (
	"context"

	"github.com/greypaperclip/cffadb/internal/domain"
)

// Store is the slice of the data access layer the ledger service uses.
// *mongo.Store satisfies it; tests use an in-memory fake.
type Store interface {
	InsertTransaction(ctx context.Context, t domain.Transaction) (string, error)
	DeleteTransactionsForGame(ctx context.Context, gameID string) (int, error)
	TransactionsForPlayer(ctx context.Context, player string) ([]domain.Transaction, error)
	AllTransactions(ctx context.Context) ([]domain.Transaction, error)
	RecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error)

	InsertGame(ctx context.Context, g domain.Game) (string, error)
	GameByID(ctx context.Context, id string) (domain.Game, error)
	ReplaceGame(ctx context.Context, g domain.Game) error
	DeleteGame(ctx context.Context, id string) error
	AllGames(ctx context.Context) ([]domain.Game, error)
	RecentGames(ctx context.Context, limit int) ([]domain.Game, error)
	GamesForPlayer(ctx context.Context, player string) ([]domain.Game, error)

	UpsertSummaries(ctx context.Context, sums []domain.Summary) (int, error)
	AllSummaries(ctx context.Context) ([]domain.Summary, error)
	SummaryForPlayer(ctx context.Context, player string) (domain.Summary, error)

	AllAdjustments(ctx context.Context) ([]domain.Adjustment, error)
}

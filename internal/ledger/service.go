// Package ledger is the service layer over the data access layer: it applies
// the club's bookkeeping rules and keeps the stored per-player summaries in
// step with the transactions and games they derive from.
package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/greypaperclip/cffadb/internal/domain"
	"github.com/greypaperclip/cffadb/internal/logger"
)

// Service wraps a Store with the mutation and query operations the web layer
// calls. Every mutation recomputes the summaries of the players it touched,
// so stored aggregates are never stale.
type Service struct {
	store Store
}

// NewService creates a Service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// AddTransaction records one payment or charge and refreshes the payer's
// summary.
func (s *Service) AddTransaction(ctx context.Context, t domain.Transaction) (string, error) {
	id, err := s.store.InsertTransaction(ctx, t)
	if err != nil {
		return "", err
	}
	if err := s.Recompute(ctx, t.Player); err != nil {
		return "", fmt.Errorf("refreshing summary for %s: %w", t.Player, err)
	}
	return id, nil
}

// AddGame records a played game. The booker paid the pitch fee up front, so
// they get a credit transaction for the full cost alongside the game itself;
// everyone listed is charged their shares through the summary recompute.
func (s *Service) AddGame(ctx context.Context, g domain.Game) (string, error) {
	id, err := s.store.InsertGame(ctx, g)
	if err != nil {
		return "", err
	}
	if err := s.creditBooker(ctx, id, g); err != nil {
		return "", err
	}
	if err := s.Recompute(ctx, affected(g)...); err != nil {
		return "", fmt.Errorf("refreshing summaries: %w", err)
	}
	return id, nil
}

// EditGame replaces an existing game, reissues the booking credit against the
// edited cost and booker, and refreshes summaries for everyone on either the
// old or the new player list.
func (s *Service) EditGame(ctx context.Context, g domain.Game) error {
	old, err := s.store.GameByID(ctx, g.ID)
	if err != nil {
		return err
	}
	if err := s.store.ReplaceGame(ctx, g); err != nil {
		return err
	}
	// The old booking credit reflects the old cost and booker; drop it and
	// issue a fresh one so Payments never carry a stale credit.
	if _, err := s.store.DeleteTransactionsForGame(ctx, g.ID); err != nil {
		return err
	}
	if err := s.creditBooker(ctx, g.ID, g); err != nil {
		return err
	}
	players := append(affected(old), affected(g)...)
	if err := s.Recompute(ctx, players...); err != nil {
		return fmt.Errorf("refreshing summaries: %w", err)
	}
	return nil
}

// creditBooker records the transaction refunding the booker's up-front pitch
// fee for one game. Games without a booker or cost get no credit.
func (s *Service) creditBooker(ctx context.Context, gameID string, g domain.Game) error {
	if g.Booker == "" || !g.CostOfGame.IsPositive() {
		return nil
	}
	credit := domain.Transaction{
		Player:      g.Booker,
		Type:        "Game booking",
		Description: "Booking credit for game on " + g.Date.Format("02-Jan-2006"),
		Amount:      g.CostOfGame,
		Date:        g.Date,
		GameID:      gameID,
	}
	if _, err := s.store.InsertTransaction(ctx, credit); err != nil {
		return fmt.Errorf("crediting booker %s: %w", g.Booker, err)
	}
	return nil
}

// DeleteGame removes a game with the transactions it generated, then
// refreshes the summaries of everyone who was on it.
func (s *Service) DeleteGame(ctx context.Context, id string) error {
	g, err := s.store.GameByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteGame(ctx, id); err != nil {
		return err
	}
	if _, err := s.store.DeleteTransactionsForGame(ctx, id); err != nil {
		return err
	}
	if err := s.Recompute(ctx, affected(g)...); err != nil {
		return fmt.Errorf("refreshing summaries: %w", err)
	}
	return nil
}

// Recompute rebuilds and stores the summaries for the named players. With no
// names it rebuilds every player known to the history (used after imports).
func (s *Service) Recompute(ctx context.Context, players ...string) error {
	games, err := s.store.AllGames(ctx)
	if err != nil {
		return err
	}
	txs, err := s.store.AllTransactions(ctx)
	if err != nil {
		return err
	}
	adjs, err := s.store.AllAdjustments(ctx)
	if err != nil {
		return err
	}

	adjustments := make(map[string]decimal.Decimal, len(adjs))
	for _, adj := range adjs {
		adjustments[adj.Player] = adj.Amount
	}

	if len(players) == 0 {
		players = knownPlayers(games, txs, adjs)
	}

	sums := make([]domain.Summary, 0, len(players))
	seen := make(map[string]bool, len(players))
	for _, player := range players {
		if player == "" || seen[player] {
			continue
		}
		seen[player] = true
		adjustment := adjustments[player]
		sums = append(sums, computeSummary(player, games, txs, adjustment))
	}

	if _, err := s.store.UpsertSummaries(ctx, sums); err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Debug().Int("players", len(sums)).Msg("summaries recomputed")
	return nil
}

// LedgerForPlayer returns a player's chronological statement with a running
// balance.
func (s *Service) LedgerForPlayer(ctx context.Context, player string) ([]domain.LedgerLine, error) {
	games, err := s.store.GamesForPlayer(ctx, player)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.TransactionsForPlayer(ctx, player)
	if err != nil {
		return nil, err
	}
	adjs, err := s.store.AllAdjustments(ctx)
	if err != nil {
		return nil, err
	}
	adjustment := decimal.Zero
	for _, adj := range adjs {
		if adj.Player == player {
			adjustment = adj.Amount
			break
		}
	}
	return buildLedger(player, games, txs, adjustment), nil
}

// RecentTransactions returns the latest transactions, newest first.
func (s *Service) RecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	return s.store.RecentTransactions(ctx, limit)
}

// RecentGames returns the latest games, newest first.
func (s *Service) RecentGames(ctx context.Context, limit int) ([]domain.Game, error) {
	return s.store.RecentGames(ctx, limit)
}

// Summaries returns every stored per-player aggregate.
func (s *Service) Summaries(ctx context.Context) ([]domain.Summary, error) {
	return s.store.AllSummaries(ctx)
}

// SummaryForPlayer returns one player's stored aggregate.
func (s *Service) SummaryForPlayer(ctx context.Context, player string) (domain.Summary, error) {
	return s.store.SummaryForPlayer(ctx, player)
}

// affected lists the players whose summaries a game touches.
func affected(g domain.Game) []string {
	players := make([]string, 0, len(g.PlayerList)+1)
	players = append(players, g.PlayerList...)
	if g.Booker != "" {
		players = append(players, g.Booker)
	}
	return players
}

// knownPlayers collects every player name appearing anywhere in the history.
func knownPlayers(games []domain.Game, txs []domain.Transaction, adjs []domain.Adjustment) []string {
	seen := map[string]bool{}
	var players []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			players = append(players, name)
		}
	}
	for _, g := range games {
		for _, p := range g.PlayerList {
			add(p)
		}
		add(g.Booker)
	}
	for _, t := range txs {
		add(t.Player)
	}
	for _, adj := range adjs {
		add(adj.Player)
	}
	return players
}

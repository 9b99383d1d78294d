package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/greypaperclip/cffadb/internal/domain"
)

// computeSummary derives one player's aggregate from the full history.
// Balance is payments minus cost shares plus any carry-over adjustment. A
// player owes CostEach per share: one for themselves plus one per guest.
func computeSummary(player string, games []domain.Game, txs []domain.Transaction, adjustment decimal.Decimal) domain.Summary {
	sum := domain.Summary{
		Player:     player,
		GamesCost:  decimal.Zero,
		Payments:   decimal.Zero,
		Adjustment: adjustment,
	}

	for _, g := range games {
		shares := g.Shares(player)
		if shares == 0 {
			continue
		}
		sum.GamesPlayed++
		sum.GamesCost = sum.GamesCost.Add(g.CostEach.Mul(decimal.NewFromInt(int64(shares))))
		if g.Date.After(sum.LastPlayed) {
			sum.LastPlayed = g.Date
		}
	}

	for _, t := range txs {
		if t.Player == player {
			sum.Payments = sum.Payments.Add(t.Amount)
		}
	}

	sum.Balance = sum.Payments.Sub(sum.GamesCost).Add(sum.Adjustment)
	return sum
}

// buildLedger merges a player's game charges and payments into one
// chronological statement with a running balance, starting from the
// carry-over adjustment.
func buildLedger(player string, games []domain.Game, txs []domain.Transaction, adjustment decimal.Decimal) []domain.LedgerLine {
	lines := make([]domain.LedgerLine, 0, len(games)+len(txs))

	for _, g := range games {
		shares := g.Shares(player)
		if shares == 0 {
			continue
		}
		lines = append(lines, domain.LedgerLine{
			Date:        g.Date,
			Description: "Game on " + g.Date.Format("02-Jan-2006"),
			Amount:      g.CostEach.Mul(decimal.NewFromInt(int64(shares))).Neg(),
		})
	}
	for _, t := range txs {
		if t.Player != player {
			continue
		}
		desc := t.Description
		if desc == "" {
			desc = t.Type
		}
		lines = append(lines, domain.LedgerLine{
			Date:        t.Date,
			Description: desc,
			Amount:      t.Amount,
		})
	}

	sort.SliceStable(lines, func(a, b int) bool {
		return lines[a].Date.Before(lines[b].Date)
	})

	balance := adjustment
	for n := range lines {
		balance = balance.Add(lines[n].Amount)
		lines[n].Balance = balance
	}
	return lines
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the stored per-player aggregate. It is derived data: the ledger
// service recomputes it for affected players whenever transactions or games
// change, so readers never have to walk the full history.
type Summary struct {
	Player      string
	GamesPlayed int
	LastPlayed  time.Time
	GamesCost   decimal.Decimal // total cost shares across all games
	Payments    decimal.Decimal // total of the player's transactions
	Adjustment  decimal.Decimal // carry-over from before the records began
	Balance     decimal.Decimal // Payments - GamesCost + Adjustment
}

// Adjustment is a per-player carry-over amount imported from the summary
// worksheet, covering balances from before the spreadsheet era.
type Adjustment struct {
	Player string
	Amount decimal.Decimal
}

// LedgerLine is one row of a player's chronological statement.
type LedgerLine struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // signed, as in Transaction
	Balance     decimal.Decimal // running balance after this line
}

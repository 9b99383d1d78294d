package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one money movement against a player's account: a payment in,
// a charge, or an imported historical row. This is a domain struct, not a
// stored document; the mongo layer maps it onto the transactions collection.
type Transaction struct {
	ID     string
	Player string
	UserID string // internal user id, empty for imported history

	Type        string // e.g. "Transfer", "Cash", "Game charge"
	Description string
	Amount      decimal.Decimal // signed: payments positive, charges negative
	Date        time.Time

	GameID    string // set when the transaction was generated by a game
	ImportKey string // natural key, set only on imported rows
}

// NaturalKey returns the composite key used to make spreadsheet imports
// idempotent: same date, player and description means the same row.
func (t Transaction) NaturalKey() string {
	return t.Date.UTC().Format("2006-01-02") + "|" + t.Player + "|" + t.Description
}

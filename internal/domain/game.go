package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Game is one played fixture. CostOfGame is the pitch fee the booker paid up
// front; CostEach is the per-head share charged to everyone who played.
type Game struct {
	ID         string
	Date       time.Time
	CostOfGame decimal.Decimal
	CostEach   decimal.Decimal
	Booker     string
	PlayerList []string
	Guests     map[string]int // player name -> guests they brought
	ImportKey  string
}

// NaturalKey returns the import dedup key for a game. The club never plays
// twice on the same day, so the date alone is stable.
func (g Game) NaturalKey() string {
	return g.Date.UTC().Format("2006-01-02")
}

// Attendance returns the number of cost shares for the game: every listed
// player plus any guests they brought.
func (g Game) Attendance() int {
	n := len(g.PlayerList)
	for _, p := range g.PlayerList {
		n += g.Guests[p]
	}
	return n
}

// Shares returns how many cost shares a named player owes for this game, or
// zero if they did not play.
func (g Game) Shares(player string) int {
	for _, p := range g.PlayerList {
		if p == player {
			return 1 + g.Guests[player]
		}
	}
	return 0
}

// Played reports whether the named player appears in the game's player list.
func (g Game) Played(player string) bool {
	return g.Shares(player) > 0
}

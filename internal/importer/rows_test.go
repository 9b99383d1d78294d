package importer

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		cell    string
		want    string
		wantErr bool
	}{
		{cell: "£5.00", want: "5.00"},
		{cell: "£-3.50", want: "-3.50"},
		{cell: "12", want: "12"},
		{cell: "1,250.75", want: "1250.75"},
		{cell: "-£0.01", want: "-0.01"},
		{cell: "", wantErr: true},
		{cell: "n/a", wantErr: true},
		{cell: "£-.-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got, err := parseAmount(tt.cell)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseAmount(%q) = %s, want error", tt.cell, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseAmount(%q): %v", tt.cell, err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("parseAmount(%q) = %s, want %s", tt.cell, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := parseDate("07-Mar-2020")
	if err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if got.Year() != 2020 || got.Month() != 3 || got.Day() != 7 {
		t.Errorf("parseDate(07-Mar-2020) = %s", got)
	}

	if _, err := parseDate("2020-03-07"); err == nil {
		t.Error("expected error for ISO date, sheet uses dd-MON-YYYY")
	}
	if _, err := parseDate(""); err == nil {
		t.Error("expected error for empty date")
	}
}

func TestTitleName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"joe bloggs", "Joe Bloggs"},
		{"JOE BLOGGS", "Joe Bloggs"},
		{"  richard borrett ", "Richard Borrett"},
	}
	for _, tt := range tests {
		if got := titleName(tt.in); got != tt.want {
			t.Errorf("titleName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTransaction(t *testing.T) {
	raw := map[string]string{
		headerDate:   "14-Jan-2020",
		headerPlayer: "andy wilson",
		headerType:   "Transfer",
		headerAmount: "£25.00",
	}
	tx, err := parseTransaction(raw)
	if err != nil {
		t.Fatalf("parseTransaction: %v", err)
	}
	if tx.Player != "Andy Wilson" {
		t.Errorf("Player = %q, want titled name", tx.Player)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("Amount = %s", tx.Amount)
	}
	if tx.ImportKey == "" {
		t.Error("expected import key to be set")
	}
	if tx.ImportKey != tx.NaturalKey() {
		t.Errorf("ImportKey = %q, want %q", tx.ImportKey, tx.NaturalKey())
	}
}

func TestParseTransactionMissingFields(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
	}{
		{"no player", map[string]string{headerDate: "14-Jan-2020", headerAmount: "£5"}},
		{"no amount", map[string]string{headerDate: "14-Jan-2020", headerPlayer: "Andy"}},
		{"no date", map[string]string{headerPlayer: "Andy", headerAmount: "£5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseTransaction(tt.raw); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseGameDerivesPlayerList(t *testing.T) {
	players := []string{"Andy Wilson", "Dave Jones", "Joe Bloggs"}
	raw := map[string]string{
		headerGameDate:   "25-Feb-2020",
		headerCostOfGame: "£60.00",
		headerCostEach:   "£6.00",
		headerBooker:     "dave jones",
		"Andy Wilson":    "Win",
		"Dave Jones":     "no show",
		"Joe Bloggs":     "",
	}
	g, err := parseGame(raw, players)
	if err != nil {
		t.Fatalf("parseGame: %v", err)
	}
	if len(g.PlayerList) != 2 {
		t.Fatalf("PlayerList = %v, want Andy and Dave", g.PlayerList)
	}
	if g.PlayerList[0] != "Andy Wilson" || g.PlayerList[1] != "Dave Jones" {
		t.Errorf("PlayerList = %v", g.PlayerList)
	}
	if g.Booker != "Dave Jones" {
		t.Errorf("Booker = %q", g.Booker)
	}
	if g.ImportKey != "2020-02-25" {
		t.Errorf("ImportKey = %q, want the game date", g.ImportKey)
	}
}

func TestParseGameMatchesRawColumnHeaders(t *testing.T) {
	// Column headers are whatever the summary sheet's Names column holds;
	// lower-case entries still have to match, with only the stored list
	// normalized.
	players := []string{"joe bloggs", "Andy Wilson"}
	raw := map[string]string{
		headerGameDate:   "25-Feb-2020",
		headerCostOfGame: "£60.00",
		headerCostEach:   "£6.00",
		"joe bloggs":     "Draw",
		"Andy Wilson":    "Lose",
	}
	g, err := parseGame(raw, players)
	if err != nil {
		t.Fatalf("parseGame: %v", err)
	}
	if len(g.PlayerList) != 2 {
		t.Fatalf("PlayerList = %v, want both players", g.PlayerList)
	}
	if g.PlayerList[0] != "Joe Bloggs" || g.PlayerList[1] != "Andy Wilson" {
		t.Errorf("PlayerList = %v, want normalized names", g.PlayerList)
	}
}

func TestParseAdjustment(t *testing.T) {
	adj, err := parseAdjustment(map[string]string{
		headerNames:     "joe bloggs",
		headerCarryOver: "£-4.20",
	})
	if err != nil {
		t.Fatalf("parseAdjustment: %v", err)
	}
	if adj.Player != "Joe Bloggs" || !adj.Amount.Equal(decimal.RequireFromString("-4.20")) {
		t.Errorf("adjustment = %+v", adj)
	}

	// Named row without a carry-over cell means zero, not an error.
	adj, err = parseAdjustment(map[string]string{headerNames: "Andy Wilson"})
	if err != nil {
		t.Fatalf("parseAdjustment without carry over: %v", err)
	}
	if !adj.Amount.IsZero() {
		t.Errorf("Amount = %s, want 0", adj.Amount)
	}

	// Blank spacer rows are skipped silently.
	if _, err := parseAdjustment(map[string]string{headerNames: ""}); err != errSkipRow {
		t.Errorf("err = %v, want errSkipRow", err)
	}
}

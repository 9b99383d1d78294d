package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greypaperclip/cffadb/internal/domain"
)

// fakeSource serves canned worksheets.
type fakeSource struct {
	worksheets map[string][]map[string]string
	err        error
}

func (f *fakeSource) Rows(ctx context.Context, worksheet string) ([]map[string]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.worksheets[worksheet], nil
}

// fakeTarget records upserts and dedups by natural key like the store does.
type fakeTarget struct {
	transactions map[string]domain.Transaction
	games        map[string]domain.Game
	adjustments  map[string]domain.Adjustment
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		transactions: map[string]domain.Transaction{},
		games:        map[string]domain.Game{},
		adjustments:  map[string]domain.Adjustment{},
	}
}

func (f *fakeTarget) UpsertTransactions(ctx context.Context, txs []domain.Transaction) (int, error) {
	for _, t := range txs {
		f.transactions[t.ImportKey] = t
	}
	return len(txs), nil
}

func (f *fakeTarget) UpsertGames(ctx context.Context, games []domain.Game) (int, error) {
	for _, g := range games {
		f.games[g.ImportKey] = g
	}
	return len(games), nil
}

func (f *fakeTarget) UpsertAdjustments(ctx context.Context, adjs []domain.Adjustment) (int, error) {
	for _, a := range adjs {
		f.adjustments[a.Player] = a
	}
	return len(adjs), nil
}

var testSheets = Worksheets{Transactions: "Transactions", Games: "Games", Summary: "Summary"}

func clubWorksheets() map[string][]map[string]string {
	return map[string][]map[string]string{
		"Summary": {
			{headerNames: "Andy Wilson", headerCarryOver: "£2.00"},
			{headerNames: "Dave Jones", headerCarryOver: ""},
			{headerNames: ""}, // spacer
		},
		"Transactions": {
			{headerDate: "14-Jan-2020", headerPlayer: "Andy Wilson", headerType: "Transfer", headerAmount: "£25.00"},
			{headerDate: "15-Jan-2020", headerPlayer: "Dave Jones", headerType: "Cash", headerAmount: "£10.00"},
			{headerDate: "", headerPlayer: "Broken Row", headerAmount: "£1.00"}, // invalid
		},
		"Games": {
			{
				headerGameDate: "25-Feb-2020", headerCostOfGame: "£60.00", headerCostEach: "£6.00",
				headerBooker: "Dave Jones", "Andy Wilson": "Win", "Dave Jones": "Lose",
			},
			{headerGameDate: "bad-date", headerCostOfGame: "£60.00", headerCostEach: "£6.00"}, // invalid
		},
	}
}

func TestRunImportsAndCounts(t *testing.T) {
	target := newFakeTarget()
	imp := New(&fakeSource{worksheets: clubWorksheets()}, target, testSheets)

	report, err := imp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, WorksheetReport{Imported: 2, Skipped: 1}, report.Transactions)
	assert.Equal(t, WorksheetReport{Imported: 1, Skipped: 1}, report.Games)
	assert.Equal(t, WorksheetReport{Imported: 2, Skipped: 0}, report.Summary)

	// Malformed rows did not abort the valid ones around them.
	assert.Len(t, target.transactions, 2)
	assert.Len(t, target.games, 1)

	// The game's player list came from the summary sheet's player names.
	for _, g := range target.games {
		assert.ElementsMatch(t, []string{"Andy Wilson", "Dave Jones"}, g.PlayerList)
	}
}

func TestRunKeepsUncasedPlayersInGames(t *testing.T) {
	// Summary rows decide the game sheet's player columns; a name the sheet
	// holds in lower case must still land on the game's player list.
	target := newFakeTarget()
	worksheets := map[string][]map[string]string{
		"Summary": {
			{headerNames: "joe bloggs", headerCarryOver: "£1.00"},
			{headerNames: "Andy Wilson", headerCarryOver: ""},
		},
		"Transactions": {},
		"Games": {
			{
				headerGameDate: "25-Feb-2020", headerCostOfGame: "£60.00", headerCostEach: "£6.00",
				headerBooker: "joe bloggs", "joe bloggs": "Win", "Andy Wilson": "Lose",
			},
		},
	}
	imp := New(&fakeSource{worksheets: worksheets}, target, testSheets)

	_, err := imp.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, target.games, 1)
	for _, g := range target.games {
		assert.ElementsMatch(t, []string{"Joe Bloggs", "Andy Wilson"}, g.PlayerList)
		assert.Equal(t, "Joe Bloggs", g.Booker)
	}
	// The stored adjustment row is still keyed on the normalized name.
	assert.Contains(t, target.adjustments, "Joe Bloggs")
}

func TestRunIsIdempotent(t *testing.T) {
	target := newFakeTarget()
	imp := New(&fakeSource{worksheets: clubWorksheets()}, target, testSheets)

	_, err := imp.Run(context.Background())
	require.NoError(t, err)
	_, err = imp.Run(context.Background())
	require.NoError(t, err)

	// Same natural keys, so re-running stores nothing twice.
	assert.Len(t, target.transactions, 2)
	assert.Len(t, target.games, 1)
	assert.Len(t, target.adjustments, 2)
}

func TestRunSourceUnavailable(t *testing.T) {
	imp := New(&fakeSource{err: errors.New("credentials rejected")}, newFakeTarget(), testSheets)

	_, err := imp.Run(context.Background())
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

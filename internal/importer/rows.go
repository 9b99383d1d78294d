package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/greypaperclip/cffadb/internal/domain"
)

// Worksheet column headers. These match the club spreadsheet layout the
// backend was built around.
const (
	headerDate       = "Date"
	headerPlayer     = "Player"
	headerType       = "Type"
	headerAmount     = "Amount"
	headerGameDate   = "Date of Game dd-MON-YYYY"
	headerCostOfGame = "Cost of Game"
	headerCostEach   = "Cost Each"
	headerBooker     = "Booker"
	headerNames      = "Names"
	headerCarryOver  = "Carry Over"
)

// dateLayout is the dd-MON-YYYY format the sheet uses, e.g. "07-Mar-2020".
const dateLayout = "02-Jan-2006"

// currencyJunk strips currency symbols and separators, leaving digits, minus
// and the decimal point.
var currencyJunk = regexp.MustCompile(`[^\d\-.]`)

// gameResults are the cell values that mean a player took part in a game.
var gameResults = map[string]bool{
	"win": true, "lose": true, "draw": true, "no show": true,
}

var titler = cases.Title(language.English)

var validate = validator.New()

type transactionRow struct {
	Player string `validate:"required"`
	Type   string
	Amount string `validate:"required"`
	Date   string `validate:"required"`
}

type gameRow struct {
	Date       string `validate:"required"`
	CostOfGame string `validate:"required"`
	CostEach   string `validate:"required"`
}

// parseAmount turns a formatted currency cell like "£-3.50" into a decimal.
func parseAmount(cell string) (decimal.Decimal, error) {
	cleaned := currencyJunk.ReplaceAllString(cell, "")
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("no amount in %q", cell)
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("bad amount %q: %w", cell, err)
	}
	return amount, nil
}

// parseDate parses the sheet's dd-MON-YYYY dates as UTC midnight.
func parseDate(cell string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(cell))
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", cell, err)
	}
	return parsed.UTC(), nil
}

// titleName normalizes a player name so "joe bloggs" and "Joe Bloggs" land on
// the same summary row.
func titleName(name string) string {
	return titler.String(strings.TrimSpace(name))
}

// parseTransaction validates and converts one transactions-worksheet row.
func parseTransaction(raw map[string]string) (domain.Transaction, error) {
	row := transactionRow{
		Player: raw[headerPlayer],
		Type:   raw[headerType],
		Amount: raw[headerAmount],
		Date:   raw[headerDate],
	}
	if err := validate.Struct(row); err != nil {
		return domain.Transaction{}, fmt.Errorf("missing required fields: %w", err)
	}
	amount, err := parseAmount(row.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	date, err := parseDate(row.Date)
	if err != nil {
		return domain.Transaction{}, err
	}
	t := domain.Transaction{
		Player:      titleName(row.Player),
		Type:        row.Type,
		Description: row.Type,
		Amount:      amount,
		Date:        date,
	}
	t.ImportKey = t.NaturalKey()
	return t, nil
}

// parseGame validates and converts one games-worksheet row. The player list
// is derived from the per-player result columns: any known player whose cell
// holds a game result took part. players must be the raw summary-sheet names,
// since they double as column headers here; only the stored list is
// normalized.
func parseGame(raw map[string]string, players []string) (domain.Game, error) {
	row := gameRow{
		Date:       raw[headerGameDate],
		CostOfGame: raw[headerCostOfGame],
		CostEach:   raw[headerCostEach],
	}
	if err := validate.Struct(row); err != nil {
		return domain.Game{}, fmt.Errorf("missing required fields: %w", err)
	}
	date, err := parseDate(row.Date)
	if err != nil {
		return domain.Game{}, err
	}
	costOfGame, err := parseAmount(row.CostOfGame)
	if err != nil {
		return domain.Game{}, err
	}
	costEach, err := parseAmount(row.CostEach)
	if err != nil {
		return domain.Game{}, err
	}

	var playerList []string
	for _, player := range players {
		if gameResults[strings.ToLower(strings.TrimSpace(raw[player]))] {
			playerList = append(playerList, titleName(player))
		}
	}

	g := domain.Game{
		Date:       date,
		CostOfGame: costOfGame,
		CostEach:   costEach,
		Booker:     titleName(raw[headerBooker]),
		PlayerList: playerList,
	}
	g.ImportKey = g.NaturalKey()
	return g, nil
}

// parseAdjustment converts one summary-worksheet row into a carry-over
// adjustment. Rows without a name are blank spacer rows, signalled by
// errSkipRow; a named row with no carry-over cell means zero.
func parseAdjustment(raw map[string]string) (domain.Adjustment, error) {
	name := strings.TrimSpace(raw[headerNames])
	if name == "" {
		return domain.Adjustment{}, errSkipRow
	}
	carry := strings.TrimSpace(raw[headerCarryOver])
	if carry == "" {
		return domain.Adjustment{Player: titleName(name), Amount: decimal.Zero}, nil
	}
	amount, err := parseAmount(carry)
	if err != nil {
		return domain.Adjustment{}, err
	}
	return domain.Adjustment{Player: titleName(name), Amount: amount}, nil
}

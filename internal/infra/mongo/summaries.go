package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greypaperclip/cffadb/internal/domain"
)

type summaryDoc struct {
	Player      string               `bson:"player"`
	GamesPlayed int                  `bson:"games_played"`
	LastPlayed  time.Time            `bson:"last_played,omitempty"`
	GamesCost   primitive.Decimal128 `bson:"games_cost"`
	Payments    primitive.Decimal128 `bson:"payments"`
	Adjustment  primitive.Decimal128 `bson:"adjustment"`
	Balance     primitive.Decimal128 `bson:"balance"`
}

func encodeSummary(sum domain.Summary) (summaryDoc, error) {
	gamesCost, err := toDecimal128(sum.GamesCost)
	if err != nil {
		return summaryDoc{}, err
	}
	payments, err := toDecimal128(sum.Payments)
	if err != nil {
		return summaryDoc{}, err
	}
	adjustment, err := toDecimal128(sum.Adjustment)
	if err != nil {
		return summaryDoc{}, err
	}
	balance, err := toDecimal128(sum.Balance)
	if err != nil {
		return summaryDoc{}, err
	}
	return summaryDoc{
		Player:      sum.Player,
		GamesPlayed: sum.GamesPlayed,
		LastPlayed:  sum.LastPlayed.UTC(),
		GamesCost:   gamesCost,
		Payments:    payments,
		Adjustment:  adjustment,
		Balance:     balance,
	}, nil
}

func decodeSummary(doc summaryDoc) (domain.Summary, error) {
	gamesCost, err := fromDecimal128(doc.GamesCost)
	if err != nil {
		return domain.Summary{}, err
	}
	payments, err := fromDecimal128(doc.Payments)
	if err != nil {
		return domain.Summary{}, err
	}
	adjustment, err := fromDecimal128(doc.Adjustment)
	if err != nil {
		return domain.Summary{}, err
	}
	balance, err := fromDecimal128(doc.Balance)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{
		Player:      doc.Player,
		GamesPlayed: doc.GamesPlayed,
		LastPlayed:  doc.LastPlayed,
		GamesCost:   gamesCost,
		Payments:    payments,
		Adjustment:  adjustment,
		Balance:     balance,
	}, nil
}

// UpsertSummaries writes the recomputed per-player aggregates, keyed on the
// player name.
func (s *Store) UpsertSummaries(ctx context.Context, sums []domain.Summary) (int, error) {
	docs := make([]bson.M, 0, len(sums))
	for _, sum := range sums {
		doc, err := encodeSummary(sum)
		if err != nil {
			return 0, fmt.Errorf("encoding summary for %s: %w", sum.Player, err)
		}
		raw, err := toBSON(doc)
		if err != nil {
			return 0, fmt.Errorf("encoding summary for %s: %w", sum.Player, err)
		}
		docs = append(docs, raw)
	}
	return s.UpsertMany(ctx, CollSummaries, "player", docs)
}

// SummaryForPlayer fetches one player's stored aggregate. Returns ErrNotFound
// for an unknown player.
func (s *Store) SummaryForPlayer(ctx context.Context, player string) (domain.Summary, error) {
	var doc summaryDoc
	err := s.collection(CollSummaries).FindOne(ctx, bson.M{"player": player}).Decode(&doc)
	if err == mongodriver.ErrNoDocuments {
		return domain.Summary{}, fmt.Errorf("fetching summary for %s: %w", player, ErrNotFound)
	}
	if err != nil {
		return domain.Summary{}, fmt.Errorf("fetching summary for %s: %w", player, err)
	}
	return decodeSummary(doc)
}

// AllSummaries returns every stored summary, sorted by player name.
func (s *Store) AllSummaries(ctx context.Context) ([]domain.Summary, error) {
	cur, err := s.collection(CollSummaries).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "player", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("querying summaries: %w", err)
	}
	var docs []summaryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding summaries: %w", err)
	}
	out := make([]domain.Summary, 0, len(docs))
	for _, doc := range docs {
		sum, err := decodeSummary(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, nil
}

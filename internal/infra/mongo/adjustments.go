package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greypaperclip/cffadb/internal/domain"
)

type adjustmentDoc struct {
	Player string               `bson:"player"`
	Amount primitive.Decimal128 `bson:"amount"`
}

// UpsertAdjustments writes per-player carry-over amounts, keyed on the player
// name.
func (s *Store) UpsertAdjustments(ctx context.Context, adjs []domain.Adjustment) (int, error) {
	docs := make([]bson.M, 0, len(adjs))
	for _, adj := range adjs {
		amount, err := toDecimal128(adj.Amount)
		if err != nil {
			return 0, fmt.Errorf("encoding adjustment for %s: %w", adj.Player, err)
		}
		raw, err := toBSON(adjustmentDoc{Player: adj.Player, Amount: amount})
		if err != nil {
			return 0, fmt.Errorf("encoding adjustment for %s: %w", adj.Player, err)
		}
		docs = append(docs, raw)
	}
	return s.UpsertMany(ctx, CollAdjustments, "player", docs)
}

// AllAdjustments returns every carry-over adjustment.
func (s *Store) AllAdjustments(ctx context.Context) ([]domain.Adjustment, error) {
	cur, err := s.collection(CollAdjustments).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("querying adjustments: %w", err)
	}
	var docs []adjustmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding adjustments: %w", err)
	}
	out := make([]domain.Adjustment, 0, len(docs))
	for _, doc := range docs {
		amount, err := fromDecimal128(doc.Amount)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Adjustment{Player: doc.Player, Amount: amount})
	}
	return out, nil
}

package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greypaperclip/cffadb/internal/domain"
)

type transactionDoc struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Player      string               `bson:"player"`
	UserID      string               `bson:"user_id,omitempty"`
	Type        string               `bson:"type,omitempty"`
	Description string               `bson:"description"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Date        time.Time            `bson:"date"`
	GameID      string               `bson:"game_id,omitempty"`
	ImportKey   string               `bson:"import_key,omitempty"`
}

func encodeTransaction(t domain.Transaction) (transactionDoc, error) {
	amount, err := toDecimal128(t.Amount)
	if err != nil {
		return transactionDoc{}, err
	}
	doc := transactionDoc{
		Player:      t.Player,
		UserID:      t.UserID,
		Type:        t.Type,
		Description: t.Description,
		Amount:      amount,
		Date:        t.Date.UTC(),
		GameID:      t.GameID,
		ImportKey:   t.ImportKey,
	}
	if oid, err := primitive.ObjectIDFromHex(t.ID); err == nil {
		doc.ID = oid
	}
	return doc, nil
}

func decodeTransaction(doc transactionDoc) (domain.Transaction, error) {
	amount, err := fromDecimal128(doc.Amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	return domain.Transaction{
		ID:          doc.ID.Hex(),
		Player:      doc.Player,
		UserID:      doc.UserID,
		Type:        doc.Type,
		Description: doc.Description,
		Amount:      amount,
		Date:        doc.Date,
		GameID:      doc.GameID,
		ImportKey:   doc.ImportKey,
	}, nil
}

// InsertTransaction stores one transaction and returns its assigned id.
func (s *Store) InsertTransaction(ctx context.Context, t domain.Transaction) (string, error) {
	doc, err := encodeTransaction(t)
	if err != nil {
		return "", fmt.Errorf("encoding transaction for %s: %w", t.Player, err)
	}
	return s.Insert(ctx, CollTransactions, doc)
}

// UpsertTransactions bulk-upserts imported transactions keyed on their
// natural key, filling in missing import keys first.
func (s *Store) UpsertTransactions(ctx context.Context, txs []domain.Transaction) (int, error) {
	docs := make([]bson.M, 0, len(txs))
	for _, t := range txs {
		if t.ImportKey == "" {
			t.ImportKey = t.NaturalKey()
		}
		doc, err := encodeTransaction(t)
		if err != nil {
			return 0, fmt.Errorf("encoding transaction for %s: %w", t.Player, err)
		}
		raw, err := toBSON(doc)
		if err != nil {
			return 0, fmt.Errorf("encoding transaction for %s: %w", t.Player, err)
		}
		docs = append(docs, raw)
	}
	return s.UpsertMany(ctx, CollTransactions, "import_key", docs)
}

// DeleteTransactionsForGame removes the transactions a game generated, used
// when the game itself is deleted. Returns how many were removed.
func (s *Store) DeleteTransactionsForGame(ctx context.Context, gameID string) (int, error) {
	res, err := s.collection(CollTransactions).DeleteMany(ctx, bson.M{"game_id": gameID})
	if err != nil {
		return 0, fmt.Errorf("deleting transactions for game %s: %w", gameID, err)
	}
	return int(res.DeletedCount), nil
}

// TransactionsForPlayer returns the full transaction history for one player,
// oldest first.
func (s *Store) TransactionsForPlayer(ctx context.Context, player string) ([]domain.Transaction, error) {
	return s.findTransactions(ctx, bson.M{"player": player},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

// AllTransactions returns every transaction, oldest first.
func (s *Store) AllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return s.findTransactions(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

// RecentTransactions returns the latest transactions, newest first.
func (s *Store) RecentTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	return s.findTransactions(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit)))
}

func (s *Store) findTransactions(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Transaction, error) {
	cur, err := s.collection(CollTransactions).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	var docs []transactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}
	out := make([]domain.Transaction, 0, len(docs))
	for _, doc := range docs {
		t, err := decodeTransaction(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

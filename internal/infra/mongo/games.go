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

type gameDoc struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Date       time.Time            `bson:"date"`
	CostOfGame primitive.Decimal128 `bson:"cost_of_game"`
	CostEach   primitive.Decimal128 `bson:"cost_each"`
	Booker     string               `bson:"booker,omitempty"`
	PlayerList []string             `bson:"player_list"`
	Guests     map[string]int       `bson:"guests,omitempty"`
	ImportKey  string               `bson:"import_key,omitempty"`
}

func encodeGame(g domain.Game) (gameDoc, error) {
	costOfGame, err := toDecimal128(g.CostOfGame)
	if err != nil {
		return gameDoc{}, err
	}
	costEach, err := toDecimal128(g.CostEach)
	if err != nil {
		return gameDoc{}, err
	}
	doc := gameDoc{
		Date:       g.Date.UTC(),
		CostOfGame: costOfGame,
		CostEach:   costEach,
		Booker:     g.Booker,
		PlayerList: g.PlayerList,
		Guests:     g.Guests,
		ImportKey:  g.ImportKey,
	}
	if oid, err := primitive.ObjectIDFromHex(g.ID); err == nil {
		doc.ID = oid
	}
	return doc, nil
}

func decodeGame(doc gameDoc) (domain.Game, error) {
	costOfGame, err := fromDecimal128(doc.CostOfGame)
	if err != nil {
		return domain.Game{}, err
	}
	costEach, err := fromDecimal128(doc.CostEach)
	if err != nil {
		return domain.Game{}, err
	}
	return domain.Game{
		ID:         doc.ID.Hex(),
		Date:       doc.Date,
		CostOfGame: costOfGame,
		CostEach:   costEach,
		Booker:     doc.Booker,
		PlayerList: doc.PlayerList,
		Guests:     doc.Guests,
		ImportKey:  doc.ImportKey,
	}, nil
}

// InsertGame stores one game and returns its assigned id.
func (s *Store) InsertGame(ctx context.Context, g domain.Game) (string, error) {
	doc, err := encodeGame(g)
	if err != nil {
		return "", fmt.Errorf("encoding game %s: %w", g.Date.Format("2006-01-02"), err)
	}
	return s.Insert(ctx, CollGames, doc)
}

// GameByID fetches one game. Returns ErrNotFound when the id is unknown.
func (s *Store) GameByID(ctx context.Context, id string) (domain.Game, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.Game{}, fmt.Errorf("fetching game %s: %w", id, ErrNotFound)
	}
	var doc gameDoc
	err = s.collection(CollGames).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongodriver.ErrNoDocuments {
		return domain.Game{}, fmt.Errorf("fetching game %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("fetching game %s: %w", id, err)
	}
	return decodeGame(doc)
}

// ReplaceGame overwrites an existing game document in full. Returns
// ErrNotFound when the id is unknown.
func (s *Store) ReplaceGame(ctx context.Context, g domain.Game) error {
	oid, err := primitive.ObjectIDFromHex(g.ID)
	if err != nil {
		return fmt.Errorf("replacing game %s: %w", g.ID, ErrNotFound)
	}
	doc, err := encodeGame(g)
	if err != nil {
		return fmt.Errorf("replacing game %s: %w", g.ID, err)
	}
	doc.ID = oid
	res, err := s.collection(CollGames).ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return fmt.Errorf("replacing game %s: %w", g.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("replacing game %s: %w", g.ID, ErrNotFound)
	}
	return nil
}

// DeleteGame removes a game. Returns ErrNotFound when the id is unknown.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	return s.DeleteByID(ctx, CollGames, id)
}

// UpsertGames bulk-upserts imported games keyed on their natural key.
func (s *Store) UpsertGames(ctx context.Context, games []domain.Game) (int, error) {
	docs := make([]bson.M, 0, len(games))
	for _, g := range games {
		if g.ImportKey == "" {
			g.ImportKey = g.NaturalKey()
		}
		doc, err := encodeGame(g)
		if err != nil {
			return 0, fmt.Errorf("encoding game %s: %w", g.Date.Format("2006-01-02"), err)
		}
		raw, err := toBSON(doc)
		if err != nil {
			return 0, fmt.Errorf("encoding game %s: %w", g.Date.Format("2006-01-02"), err)
		}
		docs = append(docs, raw)
	}
	return s.UpsertMany(ctx, CollGames, "import_key", docs)
}

// AllGames returns every game, oldest first.
func (s *Store) AllGames(ctx context.Context) ([]domain.Game, error) {
	return s.findGames(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

// RecentGames returns the latest games, newest first.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]domain.Game, error) {
	return s.findGames(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(int64(limit)))
}

// GamesForPlayer returns every game the named player appears in, oldest first.
func (s *Store) GamesForPlayer(ctx context.Context, player string) ([]domain.Game, error) {
	return s.findGames(ctx, bson.M{"player_list": player},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (s *Store) findGames(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Game, error) {
	cur, err := s.collection(CollGames).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	var docs []gameDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding games: %w", err)
	}
	out := make([]domain.Game, 0, len(docs))
	for _, doc := range docs {
		g, err := decodeGame(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

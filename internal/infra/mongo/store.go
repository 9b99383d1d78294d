// Package mongo is the data access layer: it maps the club's logical
// collections (transactions, games, summaries, adjustments, users) onto a
// MongoDB database and is the only package that talks to the driver.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/greypaperclip/cffadb/internal/config"
)

// Collection base names. Entity collections are prefixed with the tenant id
// (e.g. "club_transactions"); the tenancy collection is shared across tenants
// and holds the user records.
const (
	CollTransactions = "transactions"
	CollGames        = "games"
	CollSummaries    = "teamSummary"
	CollAdjustments  = "adjustments"
	CollTenancy      = "tenancy"
)

// Store is the concrete data access layer. It holds one shared client; the
// driver's connection pool makes it safe for concurrent use.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	tenant string
}

// New connects to the configured MongoDB instance and pings it so that an
// unreachable store is reported at startup rather than on first use.
func New(ctx context.Context, cfg config.MongoConfig, tenant string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI()))
	if err != nil {
		return nil, unavailable("connecting to mongodb", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, unavailable(fmt.Sprintf("pinging %s:%d", cfg.Host, cfg.Port), err)
	}
	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
		tenant: tenant,
	}, nil
}

// Close releases the client connection pool.
func (s *Store) Close(ctx context.Context) error {
	if s.client != nil {
		return s.client.Disconnect(ctx)
	}
	return nil
}

// Tenant returns the tenant id this store is scoped to.
func (s *Store) Tenant() string {
	return s.tenant
}

// Collections lists the logical collection names this store manages, in the
// order the export utility serializes them.
func (s *Store) Collections() []string {
	return []string{CollTransactions, CollGames, CollSummaries, CollAdjustments, CollTenancy}
}

// collection resolves a logical name to the tenant-scoped mongo collection.
// The tenancy collection is shared and never prefixed.
func (s *Store) collection(name string) *mongo.Collection {
	if name == CollTenancy {
		return s.db.Collection(name)
	}
	return s.db.Collection(s.tenant + "_" + name)
}

// EnsureIndexes creates the indexes the upsert paths rely on: a unique index
// on the user subject (so lazy user creation cannot race into duplicates) and
// import_key indexes for the spreadsheet importer.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := s.collection(CollTenancy).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subject", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("creating tenancy subject index: %w", err)
	}

	for _, coll := range []string{CollTransactions, CollGames} {
		_, err := s.collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "import_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"import_key": bson.M{"$exists": true}}),
		})
		if err != nil {
			return fmt.Errorf("creating %s import_key index: %w", coll, err)
		}
	}

	_, err = s.collection(CollSummaries).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "player", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("creating summary player index: %w", err)
	}
	_, err = s.collection(CollAdjustments).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "player", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return fmt.Errorf("creating adjustments player index: %w", err)
	}
	return nil
}

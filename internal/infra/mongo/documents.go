package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Insert stores one document in the named logical collection and returns the
// assigned id as a hex string.
func (s *Store) Insert(ctx context.Context, coll string, doc interface{}) (string, error) {
	res, err := s.collection(coll).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("inserting into %s: %w", coll, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprintf("%v", res.InsertedID), nil
	}
	return oid.Hex(), nil
}

// Find returns all documents in the named collection matching the filter.
// An empty filter returns the whole collection.
func (s *Store) Find(ctx context.Context, coll string, filter bson.M) ([]bson.M, error) {
	if filter == nil {
		filter = bson.M{}
	}
	cur, err := s.collection(coll).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", coll, err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding %s results: %w", coll, err)
	}
	return docs, nil
}

// UpdateByID applies a patch ($set) to the document with the given hex id.
// Returns ErrNotFound when no document matches.
func (s *Store) UpdateByID(ctx context.Context, coll, id string, patch bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w", coll, id, ErrNotFound)
	}
	res, err := s.collection(coll).UpdateByID(ctx, oid, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w", coll, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("updating %s/%s: %w", coll, id, ErrNotFound)
	}
	return nil
}

// DeleteByID removes the document with the given hex id. Returns ErrNotFound
// when no document matches.
func (s *Store) DeleteByID(ctx context.Context, coll, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", coll, id, ErrNotFound)
	}
	res, err := s.collection(coll).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting %s/%s: %w", coll, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("deleting %s/%s: %w", coll, id, ErrNotFound)
	}
	return nil
}

// UpsertMany replaces-or-inserts every document keyed on keyField, in one
// bulk write. Existing documents with the same key are overwritten (the
// import conflict policy: the spreadsheet is the book of record). Returns the
// number of documents written.
func (s *Store) UpsertMany(ctx context.Context, coll, keyField string, docs []bson.M) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		key, ok := doc[keyField]
		if !ok {
			return 0, fmt.Errorf("upserting into %s: document missing key field %q", coll, keyField)
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{keyField: key}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	res, err := s.collection(coll).BulkWrite(ctx, models)
	if err != nil {
		return 0, fmt.Errorf("upserting into %s: %w", coll, err)
	}
	return int(res.UpsertedCount + res.MatchedCount), nil
}

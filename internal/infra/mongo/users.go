package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/greypaperclip/cffadb/internal/domain"
)

type userDoc struct {
	ID          string    `bson:"_id"`
	Subject     string    `bson:"subject"`
	DisplayName string    `bson:"display_name"`
	Role        string    `bson:"role"`
	Tenant      string    `bson:"tenant"`
	CreatedAt   time.Time `bson:"created_at"`
}

func decodeUser(doc userDoc) domain.User {
	return domain.User{
		ID:          doc.ID,
		Subject:     doc.Subject,
		DisplayName: doc.DisplayName,
		Role:        doc.Role,
		Tenant:      doc.Tenant,
		CreatedAt:   doc.CreatedAt,
	}
}

// ResolveUser returns the user for an identity-provider subject, creating one
// on first sight. The insert-if-absent is a FindOneAndUpdate with $setOnInsert
// against the unique subject index. Two concurrent first requests can still
// race: the loser's upsert hits the index and surfaces a duplicate-key error,
// in which case one retry lands on the winner's document.
func (s *Store) ResolveUser(ctx context.Context, subject, displayName string) (domain.User, error) {
	if displayName == "" {
		displayName = "New user"
	}
	filter := bson.M{"subject": subject}
	update := bson.M{"$setOnInsert": userDoc{
		ID:          uuid.NewString(),
		Subject:     subject,
		DisplayName: displayName,
		Role:        domain.RolePlayer,
		Tenant:      s.tenant,
		CreatedAt:   time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc userDoc
	err := s.collection(CollTenancy).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongodriver.IsDuplicateKeyError(err) {
		err = s.collection(CollTenancy).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("resolving user %s: %w", subject, err)
	}
	return decodeUser(doc), nil
}

// UserBySubject looks up an existing user without creating one. Returns
// ErrNotFound for an unseen subject.
func (s *Store) UserBySubject(ctx context.Context, subject string) (domain.User, error) {
	var doc userDoc
	err := s.collection(CollTenancy).FindOne(ctx, bson.M{"subject": subject}).Decode(&doc)
	if err == mongodriver.ErrNoDocuments {
		return domain.User{}, fmt.Errorf("looking up user %s: %w", subject, ErrNotFound)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("looking up user %s: %w", subject, err)
	}
	return decodeUser(doc), nil
}

// SetUserRole changes a user's role. Returns ErrNotFound for an unseen
// subject.
func (s *Store) SetUserRole(ctx context.Context, subject, role string) error {
	res, err := s.collection(CollTenancy).UpdateOne(ctx,
		bson.M{"subject": subject}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return fmt.Errorf("updating role for %s: %w", subject, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("updating role for %s: %w", subject, ErrNotFound)
	}
	return nil
}

// AllUsers returns every user in this store's tenant.
func (s *Store) AllUsers(ctx context.Context) ([]domain.User, error) {
	cur, err := s.collection(CollTenancy).Find(ctx, bson.M{"tenant": s.tenant})
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}
	out := make([]domain.User, 0, len(docs))
	for _, doc := range docs {
		out = append(out, decodeUser(doc))
	}
	return out, nil
}

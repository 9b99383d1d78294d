// Package identity maps authenticated identity-provider subjects onto
// internal user records.
package identity

import (
	"context"
	"fmt"

	"github.com/greypaperclip/cffadb/internal/domain"
	"github.com/greypaperclip/cffadb/internal/logger"
)

// UserStore is the slice of the data access layer the resolver needs.
type UserStore interface {
	ResolveUser(ctx context.Context, subject, displayName string) (domain.User, error)
}

// Resolver turns subjects into users, creating a record on first sight.
type Resolver struct {
	store UserStore
}

// NewResolver creates a Resolver over the given user store.
func NewResolver(store UserStore) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the internal user for a subject such as "auth0|5e12...".
// An unseen subject gets a new user with the Player role and the given
// display name (or a default). The store's upsert is atomic, so repeated and
// concurrent calls for one subject always yield the same user id.
func (r *Resolver) Resolve(ctx context.Context, subject, displayName string) (domain.User, error) {
	if subject == "" {
		return domain.User{}, fmt.Errorf("resolving user: empty subject")
	}
	user, err := r.store.ResolveUser(ctx, subject, displayName)
	if err != nil {
		return domain.User{}, err
	}
	log := logger.FromContext(ctx)
	log.Debug().
		Str("subject", subject).
		Str("user_id", user.ID).
		Msg("resolved identity subject")
	return user, nil
}

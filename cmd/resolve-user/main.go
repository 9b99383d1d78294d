package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/greypaperclip/cffadb/internal/config"
	"github.com/greypaperclip/cffadb/internal/identity"
	"github.com/greypaperclip/cffadb/internal/infra/mongo"
	"github.com/greypaperclip/cffadb/internal/logger"
)

// Operator smoke tool: verify an ID token, resolve (or create) its user, and
// print the record.
func main() {
	log := logger.New()

	token := flag.String("token", "", "raw ID token to verify and resolve")
	subject := flag.String("subject", "", "resolve a raw subject directly, skipping verification")
	flag.Parse()

	if *token == "" && *subject == "" {
		log.Fatal().Msg("Error: --token or --subject is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := mongo.New(ctx, cfg.Mongo, cfg.Tenant)
	if err != nil {
		log.Fatal().Err(err).Msg("Connecting to the document store failed")
	}
	defer store.Close(ctx)

	if err := store.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("Creating indexes failed")
	}

	sub, name := *subject, ""
	if *token != "" {
		claims, err := identity.NewVerifier(cfg.Auth0).Verify(*token)
		if err != nil {
			log.Fatal().Err(err).Msg("Token verification failed")
		}
		sub, name = claims.Subject, claims.Name
	}

	user, err := identity.NewResolver(store).Resolve(ctx, sub, name)
	if err != nil {
		log.Fatal().Err(err).Msg("Resolving user failed")
	}

	fmt.Printf("%s\t%s\t%s\t%s\n", user.ID, user.Subject, user.DisplayName, user.Role)
}

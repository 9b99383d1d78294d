package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/greypaperclip/cffadb/internal/config"
	"github.com/greypaperclip/cffadb/internal/export"
	"github.com/greypaperclip/cffadb/internal/infra/mongo"
	"github.com/greypaperclip/cffadb/internal/logger"
)

func main() {
	log := logger.New()

	dir := flag.String("dir", "", "target directory for the archive (default: EXPORT_DIRECTORY)")
	bucket := flag.String("bucket", os.Getenv("GCS_BUCKET"), "optional GCS bucket to offload the archive to (or set GCS_BUCKET env)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Loading configuration failed")
	}
	if *dir == "" {
		*dir = cfg.ExportDir
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	store, err := mongo.New(ctx, cfg.Mongo, cfg.Tenant)
	if err != nil {
		log.Fatal().Err(err).Msg("Connecting to the document store failed")
	}
	defer store.Close(ctx)

	path, err := export.New(store).Export(ctx, *dir)
	if err != nil {
		log.Fatal().Err(err).Msg("Export failed")
	}

	if *bucket != "" {
		if err := export.Offload(ctx, *bucket, path); err != nil {
			log.Fatal().Err(err).Str("bucket", *bucket).Msg("Offload failed")
		}
		log.Info().Str("bucket", *bucket).Msg("Archive offloaded")
	}

	fmt.Println(path)
}

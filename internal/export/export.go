// Package export serializes the club's collections to a local archive for
// backup, with optional offload to a storage bucket.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/greypaperclip/cffadb/internal/logger"
)

// Source is the slice of the data access layer the exporter reads. The
// generic Find with an empty filter dumps a whole collection.
type Source interface {
	Collections() []string
	Find(ctx context.Context, coll string, filter bson.M) ([]bson.M, error)
}

// Exporter writes backup archives.
type Exporter struct {
	source Source
	now    func() time.Time
}

// New creates an Exporter over the given source.
func New(source Source) *Exporter {
	return &Exporter{source: source, now: time.Now}
}

// Export writes every collection into one timestamped zip under dir and
// returns the archive path. Each collection becomes <name>.json holding a
// JSON array of documents in MongoDB extended JSON, so the archive restores
// cleanly with standard tooling. Unwritable directories surface the
// underlying I/O error.
func (e *Exporter) Export(ctx context.Context, dir string) (string, error) {
	log := logger.FromContext(ctx)

	stamp := e.now().UTC().Format("20060102T150405Z")
	path := filepath.Join(dir, fmt.Sprintf("cffa-backup-%s.zip", stamp))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating archive %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, coll := range e.source.Collections() {
		docs, err := e.source.Find(ctx, coll, bson.M{})
		if err != nil {
			return "", fmt.Errorf("dumping collection %s: %w", coll, err)
		}
		payload, err := encodeCollection(docs)
		if err != nil {
			return "", fmt.Errorf("encoding collection %s: %w", coll, err)
		}
		w, err := zw.Create(coll + ".json")
		if err != nil {
			return "", fmt.Errorf("adding %s.json to archive: %w", coll, err)
		}
		if _, err := w.Write(payload); err != nil {
			return "", fmt.Errorf("writing %s.json: %w", coll, err)
		}
		log.Debug().Str("collection", coll).Int("documents", len(docs)).Msg("collection archived")
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing archive %s: %w", path, err)
	}

	log.Info().Str("archive", path).Msg("export complete")
	return path, nil
}

// encodeCollection renders documents as a JSON array of relaxed extended
// JSON, one document per line.
func encodeCollection(docs []bson.M) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, doc := range docs {
		raw, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
		if i < len(docs)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

package export

import (
	"archive/zip"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeSource struct {
	data map[string][]bson.M
}

func (f *fakeSource) Collections() []string {
	out := make([]string, 0, len(f.data))
	for coll := range f.data {
		out = append(out, coll)
	}
	return out
}

func (f *fakeSource) Find(ctx context.Context, coll string, filter bson.M) ([]bson.M, error) {
	return f.data[coll], nil
}

func testDecimal(t *testing.T, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}

func TestExportRecoversEveryDocument(t *testing.T) {
	source := &fakeSource{data: map[string][]bson.M{
		"transactions": {
			{"player": "Andy Wilson", "amount": testDecimal(t, "25.00"), "description": "Transfer"},
			{"player": "Dave Jones", "amount": testDecimal(t, "-6.00"), "description": "Game charge"},
		},
		"games": {
			{"booker": "Dave Jones", "player_list": bson.A{"Andy Wilson", "Dave Jones"}},
		},
		"tenancy": {},
	}}

	e := New(source)
	e.now = func() time.Time { return time.Date(2020, 3, 7, 10, 0, 0, 0, time.UTC) }

	dir := t.TempDir()
	path, err := e.Export(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cffa-backup-20200307T100000Z.zip"), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	files := map[string]string{}
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		raw, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[zf.Name] = string(raw)
	}

	require.Len(t, files, 3)
	for _, doc := range []string{"Andy Wilson", "Dave Jones", "Transfer", "Game charge"} {
		assert.Contains(t, files["transactions.json"], doc)
	}
	assert.Contains(t, files["transactions.json"], "25.00")
	assert.Contains(t, files["games.json"], "player_list")

	// An empty collection is still a valid, parseable array. Relaxed
	// extended JSON is plain JSON, so encoding/json can check that.
	var empty []map[string]interface{}
	trimmed := strings.TrimSpace(files["tenancy.json"])
	require.NotEmpty(t, trimmed)
	require.NoError(t, json.Unmarshal([]byte(trimmed), &empty))
	assert.Empty(t, empty)
}

func TestExportUnwritableDirectory(t *testing.T) {
	e := New(&fakeSource{data: map[string][]bson.M{"transactions": {}}})

	_, err := e.Export(context.Background(), filepath.Join(t.TempDir(), "does", "not", "exist"))
	assert.Error(t, err)
}

package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LennartSch/hembygdsmuseum/internal/db"
	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

func fileDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "hembygdsmuseum.sqlite3")
	database, err := db.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(context.Background(), database))
	return database, path
}

func seedItems(t *testing.T, database *sql.DB, n int) {
	t.Helper()
	require.NoError(t, gofakeit.Seed(11))

	ctx := context.Background()
	_, err := store.SeedCategories(ctx, database, model.DefaultCategories)
	require.NoError(t, err)
	for i := 1; i <= n; i++ {
		_, err := store.CreateItem(ctx, database, model.NewItem{
			AccessionNumber: fmt.Sprintf("2024.%03d", i),
			Name:            gofakeit.ProductName(),
			Description:     gofakeit.Sentence(8),
			Material:        gofakeit.ProductMaterial(),
			RegisteredBy:    gofakeit.Name(),
		})
		require.NoError(t, err)
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, time.January, 31, 14, 25, 1, 0, time.Local)
	assert.Equal(t, "hembygdsmuseum_backup_20240131_142501.sqlite3", FileName("/data/hembygdsmuseum.sqlite3", now))
	assert.Equal(t, "katalog_backup_20240131_142501", FileName("katalog", now))
}

func TestCreateCopiesDatabase(t *testing.T) {
	database, path := fileDB(t)
	seedItems(t, database, 15)
	ctx := context.Background()

	dir := filepath.Join(t.TempDir(), "backup")
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.Local)

	b, err := Create(ctx, database, path, dir, now)
	require.NoError(t, err)
	assert.NotEqual(t, path, b.Path)
	assert.Equal(t, filepath.Join(dir, "hembygdsmuseum_backup_20240301_100000.sqlite3"), b.Path)
	assert.Len(t, b.Checksum, 64)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	dst, err := os.ReadFile(b.Path)
	require.NoError(t, err)
	assert.Equal(t, src, dst, "backup must be byte-identical to the live file")
	assert.Equal(t, int64(len(src)), b.Size)

	sum, err := Verify(b.Path)
	require.NoError(t, err)
	assert.Equal(t, b.Checksum, sum)

	// The copy is a working catalogue on its own.
	copyDB, err := db.Open(b.Path)
	require.NoError(t, err)
	defer copyDB.Close()

	want, err := store.SearchItems(ctx, database, store.ItemFilter{Term: "2024.01"})
	require.NoError(t, err)
	got, err := store.SearchItems(ctx, copyDB, store.ItemFilter{Term: "2024.01"})
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].AccessionNumber, got[i].AccessionNumber)
		assert.Equal(t, want[i].Name, got[i].Name)
	}

	wantStats, err := store.GetStats(ctx, database)
	require.NoError(t, err)
	gotStats, err := store.GetStats(ctx, copyDB)
	require.NoError(t, err)
	assert.Equal(t, wantStats.Total, gotStats.Total)
	assert.Equal(t, wantStats.Categories, gotStats.Categories)
}

func TestCreateRefusesToOverwrite(t *testing.T) {
	database, path := fileDB(t)
	ctx := context.Background()
	dir := t.TempDir()
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.Local)

	_, err := Create(ctx, database, path, dir, now)
	require.NoError(t, err)

	_, err = Create(ctx, database, path, dir, now)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestCreateMissingSource(t *testing.T) {
	database, _ := fileDB(t)
	dir := t.TempDir()

	_, err := Create(context.Background(), database, filepath.Join(dir, "missing.sqlite3"), dir, time.Now())
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListNewestFirst(t *testing.T) {
	database, path := fileDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	base := time.Date(2024, time.May, 5, 8, 0, 0, 0, time.Local)
	for _, offset := range []time.Duration{0, 2 * time.Hour, time.Hour} {
		_, err := Create(ctx, database, path, dir, base.Add(offset))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hembygdsmuseum_backup_garbage.sqlite3"), []byte("x"), 0o644))

	backups, err := List(dir, path)
	require.NoError(t, err)
	require.Len(t, backups, 3)
	assert.Equal(t, base.Add(2*time.Hour), backups[0].CreatedAt)
	assert.Equal(t, base.Add(time.Hour), backups[1].CreatedAt)
	assert.Equal(t, base, backups[2].CreatedAt)
	assert.Positive(t, backups[0].Size)
}

func TestListMissingDirectory(t *testing.T) {
	backups, err := List(filepath.Join(t.TempDir(), "nope"), "hembygdsmuseum.sqlite3")
	require.NoError(t, err)
	assert.Empty(t, backups)
}

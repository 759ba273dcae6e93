package accession

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LennartSch/hembygdsmuseum/internal/db"
	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "2024.001", Format(2024, 1))
	assert.Equal(t, "2024.042", Format(2024, 42))
	assert.Equal(t, "2024.999", Format(2024, 999))
	assert.Equal(t, "2024.1000", Format(2024, 1000))
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		year int
		seq  int
		ok   bool
	}{
		{"2024.001", 2024, 1, true},
		{"2024.1000", 2024, 1000, true},
		{"1998.07", 1998, 7, true},
		{"2024", 0, 0, false},
		{"2024.", 0, 0, false},
		{".001", 0, 0, false},
		{"2024.x", 0, 0, false},
		{"2024.-1", 0, 0, false},
		{"2024.001.2", 0, 0, false},
		{"ab.001", 0, 0, false},
	}

	for _, tt := range tests {
		year, seq, ok := Parse(tt.in)
		assert.Equal(t, tt.ok, ok, "Parse(%q) ok", tt.in)
		assert.Equal(t, tt.year, year, "Parse(%q) year", tt.in)
		assert.Equal(t, tt.seq, seq, "Parse(%q) seq", tt.in)
	}
}

func TestFormatParseAgree(t *testing.T) {
	require.NoError(t, gofakeit.Seed(42))
	for i := 0; i < 50; i++ {
		year := gofakeit.Number(1800, 2100)
		seq := gofakeit.Number(1, 5000)
		y, s, ok := Parse(Format(year, seq))
		require.True(t, ok)
		assert.Equal(t, year, y)
		assert.Equal(t, seq, s)
	}
}

func TestNextFrom(t *testing.T) {
	assert.Equal(t, "2024.001", NextFrom(2024, nil))
	assert.Equal(t, "2024.004", NextFrom(2024, []string{"2024.001", "2024.003", "2024.002"}))
	assert.Equal(t, "2024.002", NextFrom(2024, []string{"2024.001", "2024.abc", "2024.1a"}))
	assert.Equal(t, "2024.1000", NextFrom(2024, []string{"2024.999"}))
	assert.Equal(t, "2024.001", NextFrom(2024, []string{"2023.005", "2025.010"}))
}

func TestNextEmptyYear(t *testing.T) {
	database := db.NewTestDB(t)

	next, err := Next(context.Background(), database, 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024.001", next)
}

func TestNextAfterExisting(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, gofakeit.Seed(7))

	for k := 1; k <= 5; k++ {
		_, err := store.CreateItem(ctx, database, model.NewItem{
			AccessionNumber: Format(2024, k),
			Name:            gofakeit.ProductName(),
		})
		require.NoError(t, err)
	}

	next, err := Next(ctx, database, 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024.006", next)

	_, err = store.CreateItem(ctx, database, model.NewItem{AccessionNumber: next, Name: gofakeit.ProductName()})
	require.NoError(t, err)

	next, err = Next(ctx, database, 2024)
	require.NoError(t, err)
	assert.Equal(t, "2024.007", next)
}

func TestNextIsPerYear(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, n := range []string{"2023.001", "2023.002", "2023.003"} {
		_, err := store.CreateItem(ctx, database, model.NewItem{AccessionNumber: n, Name: fmt.Sprintf("Föremål %s", n)})
		require.NoError(t, err)
	}

	next, err := NextNow(ctx, database, time.Date(2024, time.January, 2, 9, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, "2024.001", next)

	next, err = Next(ctx, database, 2023)
	require.NoError(t, err)
	assert.Equal(t, "2023.004", next)
}

func TestNextDoesNotWrite(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := Next(ctx, database, 2024)
	require.NoError(t, err)
	second, err := Next(ctx, database, 2024)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	items, err := store.ListItems(ctx, database)
	require.NoError(t, err)
	assert.Empty(t, items)
}

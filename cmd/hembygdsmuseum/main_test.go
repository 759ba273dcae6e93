package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LennartSch/hembygdsmuseum/internal/db"
	"github.com/LennartSch/hembygdsmuseum/internal/model"
	"github.com/LennartSch/hembygdsmuseum/internal/store"
)

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)

	require.NoError(t, seedDefaults(ctx, database))

	categories, err := store.ListCategories(ctx, database)
	require.NoError(t, err)
	assert.Len(t, categories, len(model.DefaultCategories))
	locations, err := store.ListLocations(ctx, database)
	require.NoError(t, err)
	assert.Len(t, locations, len(model.DefaultLocations))

	// A deleted default stays deleted on the next start.
	require.NoError(t, store.DeleteCategory(ctx, database, categories[0].ID))
	require.NoError(t, seedDefaults(ctx, database))

	categories, err = store.ListCategories(ctx, database)
	require.NoError(t, err)
	assert.Len(t, categories, len(model.DefaultCategories)-1)
}

func TestLevelRouter(t *testing.T) {
	var out, errOut bytes.Buffer
	lr := &levelRouter{
		level:  slog.LevelWarn,
		stdout: slog.NewTextHandler(&out, nil),
		stderr: slog.NewTextHandler(&errOut, nil),
	}
	logger := slog.New(lr)

	logger.Info("hidden")
	logger.Warn("to stdout")
	logger.Error("to stderr")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "to stdout")
	assert.NotContains(t, out.String(), "to stderr")
	assert.Contains(t, errOut.String(), "to stderr")
}

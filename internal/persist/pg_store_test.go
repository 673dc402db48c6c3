package persist

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rlcore/dungeon/internal/config"
)

func TestPGStore(t *testing.T) {
	dsn := os.Getenv("DUNGEON_TEST_DSN")
	if dsn == "" {
		t.Skip("DUNGEON_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1}, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	store := NewPGStore(db, "test-"+t.Name(), zap.NewNop())
	require.NoError(t, store.Delete(ctx))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	s := buildScene()
	snap, err := testCodec().Save(s.w, s.level)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, snap))
	require.NoError(t, store.Save(ctx, snap), "saving twice replaces the slot")

	exists, err := store.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, snap.Entities, got.Entities)

	require.NoError(t, store.Delete(ctx))
	exists, err = store.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

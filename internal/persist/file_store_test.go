package persist

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStoreDetectsTampering(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "game.json")
	store := NewFileStore(path, zap.NewNop())

	s := buildScene()
	snap, err := testCodec().Save(s.w, s.level)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := bytes.Replace(data, []byte(`\"hp\":22`), []byte(`\"hp\":99`), 1)
	if bytes.Equal(tampered, data) {
		tampered = bytes.Replace(data, []byte(`"hp":22`), []byte(`"hp":99`), 1)
	}
	require.NotEqual(t, data, tampered)
	require.NoError(t, os.WriteFile(path, tampered, 0o644))

	_, _, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)

	require.NoError(t, os.WriteFile(path, data[:len(data)/2], 0o644))
	_, _, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrCorruptSnapshot)
}

func TestFileStoreOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "game.json"), zap.NewNop())
	s := buildScene()
	c := testCodec()

	first, err := c.Save(s.w, s.level)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, first))
	second, err := c.Save(s.w, s.level)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, second))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.ID, got.ID)

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dungeon.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[game]
seed = 42
map_width = 60

[snapshot]
backend = "postgres"
slot = "hardcore"

[database]
conn_max_lifetime = "5m"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, 60, cfg.Game.MapWidth)
	assert.Equal(t, 43, cfg.Game.MapHeight, "unset keys keep defaults")
	assert.Equal(t, "postgres", cfg.Snapshot.Backend)
	assert.Equal(t, "hardcore", cfg.Snapshot.Slot)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "data/prefabs.yaml", cfg.Data.PrefabPath)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, "[snapshot]\nbackend = \"s3\"\n"))
	assert.ErrorContains(t, err, "snapshot.backend")

	_, err = Load(writeConfig(t, "[game]\nmin_room_size = 8\nmax_room_size = 4\n"))
	assert.ErrorContains(t, err, "room size")

	_, err = Load(writeConfig(t, "[game\n"))
	assert.ErrorContains(t, err, "parse config")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().validate())
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "dungeon.toml"))
	require.NoError(t, err)
	assert.Equal(t, *Default(), *cfg)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
game:
  base_url: http://localhost:8000
  timeout: 5s
  move_mode: fly
explorer:
  max_rooms: 50
  hub_room: 7
snapshot:
  driver: sqlite
  sqlite_path: /tmp/walk.db
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	t.Setenv("MAPWALKER_GAME_TOKEN", "secret")
	t.Setenv("MAPWALKER_EXPLORER_MAX_ROOMS", "75")
	t.Setenv("MAPWALKER_SNAPSHOT_S3_BUCKET", "maps")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Game.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Game.Timeout)
	assert.Equal(t, "fly", cfg.Game.MoveMode)
	assert.Equal(t, "secret", cfg.Game.Token)
	assert.Equal(t, 75, cfg.Explorer.MaxRooms)
	assert.Equal(t, 7, cfg.Explorer.HubRoom)
	assert.Equal(t, 1, cfg.Explorer.CheckpointEvery, "untouched keys keep defaults")
	assert.Equal(t, "sqlite", cfg.Snapshot.Driver)
	assert.Equal(t, "/tmp/walk.db", cfg.Snapshot.SQLitePath)
	assert.Equal(t, "maps", cfg.Snapshot.S3Bucket)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game: [unterminated"), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing YAML")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	bad := cfg
	bad.Game.MoveMode = "teleport"
	assert.Error(t, Validate(bad))

	bad = cfg
	bad.Explorer.MaxRooms = 0
	assert.Error(t, Validate(bad))

	bad = cfg
	bad.Explorer.CheckpointEvery = -1
	assert.Error(t, Validate(bad))

	bad = cfg
	bad.Game.BaseURL = ""
	assert.Error(t, Validate(bad))
}

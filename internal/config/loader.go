package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"mapwalker/internal/core"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. MAPWALKER_GAME_TOKEN
const EnvPrefix = "mapwalker"

// Default returns the configuration used when no file or environment is given
func Default() core.Config {
	return core.Config{
		Game: core.GameConfig{
			BaseURL:  "https://lambda-treasure-hunt.herokuapp.com",
			Timeout:  30 * time.Second,
			MoveMode: "move",
		},
		Explorer: core.ExplorerConfig{
			MaxRooms:        500,
			HubRoom:         1,
			CheckpointEvery: 1,
			Pickup:          true,
			SellAtHub:       true,
		},
		Snapshot: core.SnapshotConfig{
			Driver:     "file",
			Name:       "graph",
			Path:       "data/graph.json",
			SQLitePath: "data/mapwalker.db",
			S3Region:   "us-east-1",
		},
		Log: core.LogConfig{
			Level:      "info",
			Format:     "console",
			Output:     "stderr",
			FilePath:   "logs/mapwalker.log",
			TimeFormat: "rfc3339",
		},
	}
}

// LoadConfig builds the configuration from defaults, then the YAML file at
// path (skipped when it does not exist), then MAPWALKER_* environment variables.
func LoadConfig(path string) (*core.Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("error reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &config); err != nil {
				return nil, fmt.Errorf("error parsing YAML: %w", err)
			}
		}
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("error processing environment configuration: %w", err)
	}

	if err := Validate(config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects configurations the engine cannot run with
func Validate(config core.Config) error {
	if config.Game.BaseURL == "" {
		return fmt.Errorf("game.base_url is required")
	}
	switch config.Game.MoveMode {
	case "move", "fly":
	default:
		return fmt.Errorf("game.move_mode must be move or fly, got %q", config.Game.MoveMode)
	}
	if config.Explorer.MaxRooms <= 0 {
		return fmt.Errorf("explorer.max_rooms must be positive, got %d", config.Explorer.MaxRooms)
	}
	if config.Explorer.CheckpointEvery <= 0 {
		return fmt.Errorf("explorer.checkpoint_every must be positive, got %d", config.Explorer.CheckpointEvery)
	}
	return nil
}

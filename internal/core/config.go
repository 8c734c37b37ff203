package core

import "time"

// Config holds all configuration for a mapwalker process
type Config struct {
	Game     GameConfig     `yaml:"game"`
	Explorer ExplorerConfig `yaml:"explorer"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// GameConfig describes how to reach the remote game server
type GameConfig struct {
	BaseURL string        `yaml:"base_url" split_words:"true"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
	// MoveMode selects the movement strategy: "move" or "fly"
	MoveMode string `yaml:"move_mode" split_words:"true"`
}

// ExplorerConfig bounds and shapes an exploration run
type ExplorerConfig struct {
	MaxRooms        int  `yaml:"max_rooms" split_words:"true"`
	HubRoom         int  `yaml:"hub_room" split_words:"true"`
	CheckpointEvery int  `yaml:"checkpoint_every" split_words:"true"`
	Pickup          bool `yaml:"pickup"`
	SellAtHub       bool `yaml:"sell_at_hub" split_words:"true"`
}

// SnapshotConfig selects and configures the graph snapshot store
type SnapshotConfig struct {
	Driver      string `yaml:"driver"`
	Name        string `yaml:"name"`
	Path        string `yaml:"path"`
	RedisURL    string `yaml:"redis_url" split_words:"true"`
	SQLitePath  string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	PostgresURL string `yaml:"postgres_url" split_words:"true"`
	S3Bucket    string `yaml:"s3_bucket" envconfig:"S3_BUCKET"`
	S3Region    string `yaml:"s3_region" envconfig:"S3_REGION"`
	S3Endpoint  string `yaml:"s3_endpoint" envconfig:"S3_ENDPOINT"`
	S3PathStyle bool   `yaml:"s3_path_style" envconfig:"S3_PATH_STYLE"`
}

// LogConfig configures the global logger
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	FilePath   string `yaml:"file_path" split_words:"true"`
	TimeFormat string `yaml:"time_format" split_words:"true"`
}

// MetricsConfig enables the prometheus endpoint when Addr is set
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

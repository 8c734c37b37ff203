// Package storage persists graph snapshots. Each adapter stores one opaque
// document per snapshot name; encoding is the graph package's concern.
package storage

import (
	"context"
	"errors"
	"fmt"

	"mapwalker/internal/core"
)

// ErrNoSnapshot is returned by Load when nothing was saved yet
var ErrNoSnapshot = errors.New("no snapshot")

// SnapshotStore loads and saves a single graph snapshot
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// Driver names accepted by Open
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

// Open builds the store selected by cfg.Driver
func Open(ctx context.Context, cfg core.SnapshotConfig) (SnapshotStore, error) {
	name := cfg.Name
	if name == "" {
		name = "graph"
	}

	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile, "":
		return NewFileStore(cfg.Path)
	case DriverRedis:
		return NewRedisStore(ctx, cfg.RedisURL, name)
	case DriverSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath, name)
	case DriverPostgres:
		return NewPostgresStore(ctx, cfg.PostgresURL, name)
	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			Key:       name + ".json",
		})
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", cfg.Driver)
	}
}

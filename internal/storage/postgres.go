package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps snapshots as JSONB rows keyed by snapshot name.
// Postgres normalises JSONB, so Load returns an equivalent document rather
// than the exact bytes passed to Save.
type PostgresStore struct {
	pool *pgxpool.Pool
	name string
}

// NewPostgresStore connects to dsn, falling back to DATABASE_URL
func NewPostgresStore(ctx context.Context, dsn, name string) (*PostgresStore, error) {
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		return nil, fmt.Errorf("postgres url is required for the postgres driver")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure snapshots table: %w", err)
	}
	return &PostgresStore{pool: pool, name: name}, nil
}

func (p *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var payload []byte
	err := p.pool.QueryRow(ctx, `SELECT payload FROM snapshots WHERE name = $1`, p.name).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	return payload, nil
}

func (p *PostgresStore) Save(ctx context.Context, data []byte) error {
	_, err := p.pool.Exec(ctx, `INSERT INTO snapshots (name, payload, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`,
		p.name, data)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

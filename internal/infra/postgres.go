package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect pgxpool: %w", err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS resources (
	id            BIGSERIAL PRIMARY KEY,
	title         TEXT NOT NULL CHECK (title <> ''),
	author        TEXT NOT NULL CHECK (author <> ''),
	category      TEXT NOT NULL CHECK (category IN ('books', 'video', 'audio')),
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	pdf_url       TEXT,
	file_path     TEXT,
	thumbnail_url TEXT,
	youtube_url   TEXT,
	twitter_url   TEXT,
	instagram_url TEXT,
	tiktok_url    TEXT
);
CREATE INDEX IF NOT EXISTS resources_created_at_idx ON resources (created_at DESC);
CREATE INDEX IF NOT EXISTS resources_category_idx ON resources (category);
`

// EnsureSchema creates the resources table when it does not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

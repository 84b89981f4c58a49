package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tickwire/dukas-data/internal/config"
)

// Schema for the tick archive. Timestamps are stored as microseconds since
// the Unix epoch; prices as NUMERIC to keep provider precision exact.
const ticksDDL = `
CREATE TABLE IF NOT EXISTS ticks (
	symbol     TEXT             NOT NULL,
	tick_ts    BIGINT           NOT NULL,
	bid        NUMERIC          NOT NULL,
	ask        NUMERIC          NOT NULL,
	bid_volume DOUBLE PRECISION NOT NULL,
	ask_volume DOUBLE PRECISION NOT NULL,
	PRIMARY KEY (symbol, tick_ts)
)`

// Archive holds the connection pool for the tick archive database.
type Archive struct {
	Pool *pgxpool.Pool
}

// Open creates the archive connection pool and verifies it with a ping.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Archive, error) {
	pool, err := Connect(ctx, cfg.Archive)
	if err != nil {
		return nil, fmt.Errorf("connect archive: %w", err)
	}
	return &Archive{Pool: pool}, nil
}

// Connect creates a single connection pool.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := BuildConnString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the ticks table if it does not exist.
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if _, err := a.Pool.Exec(ctx, ticksDDL); err != nil {
		return fmt.Errorf("ensure ticks table: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (a *Archive) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// Ping verifies the connection is healthy.
func (a *Archive) Ping(ctx context.Context) error {
	if err := a.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping archive: %w", err)
	}
	return nil
}

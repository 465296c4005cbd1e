package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spendlens/spendlens/pkg/config"
)

// Pool tuning shared by every pool the service opens. The reporting
// endpoints hold a connection for one or two statements at most, so idle
// connections are recycled rather than kept around.
const (
	defaultMaxConns = 25
	maxConnLifetime = time.Hour
	maxConnIdleTime = 30 * time.Minute
)

// DB is the pgx connection pool the repositories run against.
type DB struct {
	*pgxpool.Pool
}

// Connect opens a pool against the configured invoice database and
// verifies it with a ping.
func Connect(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	return ConnectDSN(ctx, cfg.ConnectionString(), cfg.MaxConnections)
}

// ConnectDSN opens a pool from a raw DSN. The optional read-only chat role
// and test setup connect this way, with credentials that never pass through
// the service configuration.
func ConnectDSN(ctx context.Context, dsn string, maxConns int32) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = maxConns
	if poolCfg.MaxConns <= 0 {
		poolCfg.MaxConns = defaultMaxConns
	}
	poolCfg.MaxConnLifetime = maxConnLifetime
	poolCfg.MaxConnIdleTime = maxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close releases the pool.
func (db *DB) Close() {
	db.Pool.Close()
}

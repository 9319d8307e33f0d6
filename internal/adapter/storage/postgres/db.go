package postgres

import (
	"context"
	"fmt"

	"hashlock-escrow/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Pool is the subset of pgxpool.Pool the stores use, narrow enough for
// pgxmock to stand in during tests.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// NewPool creates a PostgreSQL connection pool using pgx.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Int32("max_conns", cfg.MaxConns).
		Msg("PostgreSQL connection pool established")

	return pool, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS deposits (
	commitment  TEXT PRIMARY KEY,
	secret_hex  TEXT NOT NULL,
	amount      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	spent       BOOLEAN NOT NULL DEFAULT FALSE,
	spent_tx    TEXT,
	spent_at    TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS audit_events (
	id          UUID PRIMARY KEY,
	action      TEXT NOT NULL,
	commitment  TEXT,
	amount      TEXT,
	tx_hash     TEXT,
	outcome     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);`

// EnsureSchema creates the deposit and audit tables when they do not exist
// yet. The tool owns its schema; there is no external migration step.
func EnsureSchema(ctx context.Context, pool Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

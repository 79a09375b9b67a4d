package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// PgxBackend stores the snapshot document in a single-row table. It exists
// for deployments that already run Postgres; the semantics are identical to
// FileBackend (whole document, one writer).
type PgxBackend struct {
	pool *pgxpool.Pool
}

const snapshotTable = `CREATE TABLE IF NOT EXISTS snapshot_store (
	id INT PRIMARY KEY,
	doc TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// NewPgxBackend connects a tuned pool and ensures the snapshot table exists.
func NewPgxBackend(ctx context.Context, dsn string) (*PgxBackend, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 10 * time.Second

	connCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(connCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(connCtx, snapshotTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ensure snapshot table: %w", err)
	}

	stats := pool.Stat()
	logrus.Infof("📊 Snapshot pool ready - Total: %d, Idle: %d", stats.TotalConns(), stats.IdleConns())

	return &PgxBackend{pool: pool}, nil
}

func (p *PgxBackend) Read() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var doc string
	err := p.pool.QueryRow(ctx, `SELECT doc FROM snapshot_store WHERE id = 1`).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot row: %w", err)
	}
	return []byte(doc), nil
}

func (p *PgxBackend) Write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.pool.Exec(ctx,
		`INSERT INTO snapshot_store (id, doc, updated_at) VALUES (1, $1, NOW())
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`,
		string(data))
	if err != nil {
		return fmt.Errorf("failed to write snapshot row: %w", err)
	}
	return nil
}

func (p *PgxBackend) Close() {
	p.pool.Close()
}

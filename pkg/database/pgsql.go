// Package database builds the PostgreSQL connection pool backing the
// reference ResultSink (SPEC_FULL.md §1/§6 — the engine itself never
// touches SQL; this is cmd/'s wiring concern).
package database

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/fiscalsim/internal/apperrors"
)

// NewPgxPool parses databaseURL into a pool config and opens the pool.
// enableCheck gates the startup ping so a caller that only needs the
// in-memory PatternStore can build a pool without ever touching the
// network, but callers wiring no persistence at all should skip this
// function entirely (see cmd/fiscalsim/main.go's buildResultSink).
func NewPgxPool(ctx context.Context, databaseURL string, enableCheck bool) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, apperrors.NewValidationError("databaseURL", "must not be empty")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, &apperrors.InternalError{Op: "pgxpool.ParseConfig", Err: err}
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, &apperrors.InternalError{Op: "pgxpool.NewWithConfig", Err: err}
	}

	if enableCheck {
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, &apperrors.InternalError{Op: "pgxpool.Ping", Err: err}
		}
	}

	slog.Info("connected to postgresql", slog.String("host", config.ConnConfig.Host))
	return pool, nil
}

// ClosePgxPool closes pool, tolerating a nil pool so callers can defer it
// unconditionally after a failed buildResultSink.
func ClosePgxPool(pool *pgxpool.Pool) {
	if pool == nil {
		return
	}
	pool.Close()
	slog.Info("postgresql connection pool closed")
}

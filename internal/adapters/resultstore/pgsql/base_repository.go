// Package pgsql is the reference ResultSink backing SimulationResults with
// PostgreSQL (SPEC_FULL.md §1, §6). The engine has no dependency on this
// package; it is wired by cmd/ for callers that want a durable store.
package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/fiscalsim/internal/apperrors"
)

// BaseRepository provides the transaction helpers every resultstore
// repository embeds, grounded on the teacher's BaseRepository.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new transaction.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, &apperrors.InternalError{Op: "pgsql.Begin", Err: err}
	}
	return tx, nil
}

// Commit commits a transaction.
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return &apperrors.InternalError{Op: "pgsql.Commit", Err: err}
	}
	return nil
}

// Rollback rolls back a transaction, tolerating one already closed.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return &apperrors.InternalError{Op: "pgsql.Rollback", Err: err}
	}
	return nil
}

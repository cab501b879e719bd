// Package repo contains all database access logic for the Pureland travel API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here; only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/SumanKunwar1/Pureland-tours-and-travels--sub000/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, pgx.Tx and
// pgxmock pools. Accepting this interface instead of *pgxpool.Pool directly
// allows integration tests to pass a transaction that is rolled back after each
// test, and unit tests to pass a pgxmock pool.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// beginner is satisfied by *pgxpool.Pool and pgxmock pools.
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Transactor runs fn inside a single database transaction. Repos called with
// the ctx handed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// TxManager is the pgx implementation of Transactor.
type TxManager struct {
	pool beginner
}

// NewTxManager constructs a TxManager that begins transactions on pool.
func NewTxManager(pool beginner) *TxManager {
	return &TxManager{pool: pool}
}

// WithinTransaction begins a transaction, injects it into ctx and calls fn.
// The transaction commits when fn returns nil and rolls back otherwise,
// including when fn panics. A ctx that already carries a transaction is reused
// so nested calls join the outer unit of work.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TxManager.WithinTransaction: begin: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TxManager.WithinTransaction: commit: %w", err)
	}
	return nil
}

// executor returns the transaction carried by ctx, or fallback when there is none.
func executor(ctx context.Context, fallback db) db {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return fallback
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// mapWriteError converts driver errors raised by INSERT/UPDATE statements into
// domain sentinels. fields maps constraint names to the API field they guard.
func mapWriteError(err error, fields map[string]string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		field, ok := fields[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
		}
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, field)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

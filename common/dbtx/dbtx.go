// Package dbtx carries an in-flight *sql.Tx through context.Context so
// repository adapters issue the same query whether or not their caller
// opened a transaction around them (spec.md §9: explicit unit-of-work
// rather than ambient/container-managed transaction demarcation).
package dbtx

import (
	"context"
	"database/sql"
)

type ctxKey struct{}

// Executor is the subset of *sql.DB / *sql.Tx / dbresolver.DB that
// repository adapters issue queries through.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Beginner is the subset of dbresolver.DB able to open a transaction.
type Beginner interface {
	Begin() (*sql.Tx, error)
}

// ContextWithTx stores tx in ctx for downstream repository calls to pick up.
// A nil tx is a no-op, leaving ctx unchanged.
func ContextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}

	return context.WithValue(ctx, ctxKey{}, tx)
}

// TxFromContext retrieves the *sql.Tx stashed by ContextWithTx, or nil if
// ctx carries none.
func TxFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(ctxKey{}).(*sql.Tx)
	return tx
}

// GetExecutor returns the in-flight transaction if ctx carries one,
// otherwise falls back to db. Repository methods always call this instead
// of using db directly, so the same code runs standalone or as one leg of
// a larger UnitOfWork.Do closure.
func GetExecutor(ctx context.Context, db Executor) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}

	return db
}

// RunInTransaction opens a transaction on db, runs fn with the tx stashed in
// ctx, and commits on success or rolls back on error or panic. Every Ledger
// operation (spec.md §4.1) and every composite write that must commit
// atomically with it opens its work through this.
func RunInTransaction(ctx context.Context, db Beginner, fn func(ctx context.Context) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	txCtx := ContextWithTx(ctx, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

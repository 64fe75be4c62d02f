package postgres

import (
	"context"

	"github.com/fernbank/core/common/dbtx"
	"github.com/fernbank/core/common/mpostgres"
)

// UnitOfWork is the Postgres-backed ports.UnitOfWork: it opens one
// serializable-enough (READ COMMITTED default, row locks via FOR UPDATE)
// database transaction around fn, grounded on dbtx.RunInTransaction.
type UnitOfWork struct {
	connection *mpostgres.PostgresConnection
}

// NewUnitOfWork returns a new UnitOfWork.
func NewUnitOfWork(pc *mpostgres.PostgresConnection) *UnitOfWork {
	return &UnitOfWork{connection: pc}
}

// Do runs fn inside one transaction, committing on success and rolling back
// on any error fn returns (spec.md §4.1, §9).
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	db, err := u.connection.GetDB(ctx)
	if err != nil {
		return err
	}

	return dbtx.RunInTransaction(ctx, db, fn)
}

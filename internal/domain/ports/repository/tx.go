package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

// NoTX marks the non-transactional path; repositories fall back to the pool.
var NoTX Tx

// TransactionManager provides a thin abstraction to execute a function within a
// database transaction, passing the underlying transaction handle via `tx`.
//
// Use-case code stays free of storage types: the concrete tx value is
// infra-defined (pgx.Tx for Postgres) and repositories accept `nil` for the
// non-transactional path. The allocator relies on this to flip codes and
// append the matching ledger row as one all-or-nothing unit.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}

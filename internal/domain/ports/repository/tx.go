package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX Tx

// TransactionManager executes a function within a database transaction,
// passing the transaction handle through the opaque Tx argument.
//
// Use-case interfaces stay clean (no storage types leak out); repository
// methods accept a Tx and detect the concrete handle implementation-side.
// Repositories MUST gracefully accept NoTX (non-transactional path).
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}

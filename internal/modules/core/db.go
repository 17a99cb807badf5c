package core

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
)

type TransactionOption func(*sql.TxOptions)

func WithIsolationLevel(isolationLevel sql.IsolationLevel) TransactionOption {
	return func(opts *sql.TxOptions) {
		opts.Isolation = isolationLevel
	}
}

func ReadOnly() TransactionOption {
	return func(opts *sql.TxOptions) {
		opts.ReadOnly = true
	}
}

// Tx runs transaction inside a database transaction. The transaction is
// committed when the callback returns nil and rolled back otherwise,
// including when the callback panics.
func Tx(
	ctx context.Context,
	db *sql.DB,
	transaction func(context.Context, *sql.Tx) error,
	opts ...TransactionOption,
) (err error) {
	options := sql.TxOptions{}

	for _, opt := range opts {
		opt(&options)
	}

	tx, err := db.BeginTx(ctx, &options)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		err = fmt.Errorf("transaction panicked with: %v", r)
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			err = errors.Wrapf(rollbackErr, "%v", err)
		}
	}()

	if err = transaction(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%s: %w", rollbackErr.Error(), err)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}

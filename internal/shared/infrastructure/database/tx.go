package database

import (
	"context"
	"errors"
	"fmt"
)

type txKey struct{}

// ExecutorFromContext returns the transaction bound to ctx, if any, and the
// connection otherwise.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx, ok := ctx.Value(txKey{}).(Transaction); ok && tx != nil {
		return tx
	}
	return conn
}

// RunInTx runs fn inside a transaction. A transaction already bound to ctx is
// reused and left for its owner to finish.
func RunInTx(ctx context.Context, conn Connection, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(Transaction); ok {
		return fn(ctx)
	}

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

package database

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

// InTx runs fn inside a transaction. The transaction is rolled back when fn fails or
// panics and committed otherwise.
func (db *DB) InTx(ctx context.Context, logger *gecho.Logger, fn func(ctx context.Context, tx bun.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("Failed to begin transaction", gecho.Field("error", err))
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Error(fmt.Sprintf("PANIC RECOVERED: %v", p),
				gecho.Field("panic_value", p),
				gecho.Field("stack_trace", string(debug.Stack())))
			tx.Rollback()
			err = fmt.Errorf("panic recovered: %v", p)
		} else if err != nil {
			logger.Debug("Rolling back transaction due to error", gecho.Field("error", err))
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(ctx, tx)
	return err
}

package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// TxStarter begins transactions. *pgxpool.Pool, *pgx.Conn and pgx.Tx
// (for savepoints) satisfy it.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WithTx runs fn inside a transaction and commits when fn returns nil.
// The transaction is rolled back when fn fails or panics. Rollback uses a
// context detached from ctx cancellation so a cancelled request still
// releases its connection.
func WithTx(ctx context.Context, starter TxStarter, fn func(tx pgx.Tx) error) (err error) {
	tx, err := starter.Begin(ctx)
	if err != nil {
		return errors.Join(ErrBeginTx, err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && err != nil {
			err = errors.Join(err, ErrRollbackTx, rbErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Join(ErrCommitTx, err)
	}
	committed = true
	return nil
}

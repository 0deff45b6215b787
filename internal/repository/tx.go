package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TxFunc runs inside one database transaction.
type TxFunc func(ctx context.Context, tx *sqlx.Tx) error

// TxManager scopes a set of repository calls to a single atomic
// transaction. Every multi-row mutation of a series goes through RunInTx;
// there is no other concurrency control in the service.
type TxManager interface {
	RunInTx(ctx context.Context, fn TxFunc) error
}

type sqlxTxManager struct {
	db *sqlx.DB
}

func NewTxManager(db *sqlx.DB) TxManager {
	return &sqlxTxManager{db: db}
}

func (m *sqlxTxManager) RunInTx(ctx context.Context, fn TxFunc) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

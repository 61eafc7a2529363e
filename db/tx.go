package db

import (
	"context"
	"database/sql"
)

// Tx is a sql transaction with hooks that run once its outcome is settled
type Tx struct {
	*sql.Tx
	onCommit   []func()
	onRollback []func()
}

// NewTx opens a transaction on db
func NewTx(ctx context.Context, db DBer) (*Tx, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: tx}, nil
}

// OnCommit registers fn to run after a successful Commit
func (t *Tx) OnCommit(fn func()) {
	t.onCommit = append(t.onCommit, fn)
}

// OnRollback registers fn to run after a successful Rollback
func (t *Tx) OnRollback(fn func()) {
	t.onRollback = append(t.onRollback, fn)
}

// Commit commits and then runs the commit hooks in registration order
func (t *Tx) Commit() error {
	return settle(t.Tx.Commit, t.onCommit)
}

// Rollback rolls back and then runs the rollback hooks in registration order
func (t *Tx) Rollback() error {
	return settle(t.Tx.Rollback, t.onRollback)
}

func settle(finish func() error, hooks []func()) error {
	if err := finish(); err != nil {
		return err
	}
	for _, fn := range hooks {
		fn()
	}
	return nil
}

package repositories

import (
	"context"
)

// UnitOfWork commits the writes made through the mdp store repositories in the current request.
type UnitOfWork interface {
	Commit(ctx context.Context) error
}

// DualTransaction spans the mdp store and the member store.
type DualTransaction interface {
	// Commit commits both stores.
	Commit(ctx context.Context) error

	// Rollback rolls both stores back. Calling it without an open transaction on either store panics.
	Rollback(ctx context.Context) error
}

// DualTransactionManager opens transactions on both stores
type DualTransactionManager interface {
	// Begin returns a context that routes repository calls through the new transactions.
	Begin(ctx context.Context) (context.Context, DualTransaction, error)
}

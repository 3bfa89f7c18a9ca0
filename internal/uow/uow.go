package uow

import (
	"context"

	"github.com/jackc/pgx/v5"

	postgres "github.com/teejohn247/eth-project-backend-sub001/internal/repository/postgres"
)

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// UoW represents a unit of work. Every multi-document mutation in the
// platform (slot accounting, vote tallies, sequential numbering, sold-ticket
// counters) runs through it so that read-then-write sequences commit or roll
// back as one.
type UoW struct {
	store *postgres.Store
}

func NewUoW(store *postgres.Store) *UoW {
	return &UoW{store: store}
}

// Do runs fn inside the transaction. After a successful commit,
// it executes all after-commit hooks.
func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	return u.DoWithOpts(ctx, nil, fn)
}

// maxAttempts bounds retries of serialization failures and deadlocks.
const maxAttempts = 3

// DoWithOpts runs fn inside the transaction with the given options,
// retrying fn when the database reports a serialization conflict. After a
// successful commit, it executes all after-commit hooks.
func (u *UoW) DoWithOpts(
	ctx context.Context,
	opts *pgx.TxOptions,
	fn func(ctx context.Context, tx postgres.DB, after func(AfterCommit)) error,
) error {
	var err error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		var hooks []AfterCommit

		err = u.store.RunTx(ctx, opts, func(ctx context.Context, tx postgres.DB) error {
			return fn(ctx, tx, func(h AfterCommit) {
				hooks = append(hooks, h)
			})
		})
		if err == nil {
			for _, h := range hooks {
				h(ctx)
			}
			return nil
		}
		if !postgres.IsRetryable(err) {
			return err
		}
	}

	return err
}

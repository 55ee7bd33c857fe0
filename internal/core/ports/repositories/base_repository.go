package repositories

import "context"

// UnitOfWork runs fn inside one store transaction. Repositories called with the ctx passed
// to fn join that transaction; any error returned by fn rolls everything back.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

package interfaces

import "context"

// Transactor runs fn as one atomic unit: either every write inside fn
// commits, or none does. The Mongo implementation runs a session
// transaction; fn must pass the given context to every repository call
// so the writes join the session.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

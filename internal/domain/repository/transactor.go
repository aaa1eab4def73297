package repository

import "context"

// Transactor runs fn inside a single storage transaction. Repository calls made
// with the ctx passed to fn join that transaction; returning an error rolls it back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

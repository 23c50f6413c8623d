package app

import (
	"context"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
)

// Recovery is a decorator that turns panics of the wrapped handler into
// ErrPanic errors, so that a broken transition fails alone.
type Recovery struct{}

var _ trustvault.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator.
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors.
func (Recovery) Check(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx, next trustvault.Handler) (res *trustvault.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

// Deliver turns panics into normal errors.
func (Recovery) Deliver(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx, next trustvault.Handler) (res *trustvault.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

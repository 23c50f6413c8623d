package app

import (
	"context"
	"reflect"

	"github.com/iov-one/trustvault"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler.
type Decorators struct {
	chain []trustvault.Decorator
}

/*
ChainDecorators takes a chain of decorators, and upon adding a final Handler
(often a Router), returns a Handler that will execute this whole stack.

	app.ChainDecorators(
		app.NewRecovery(),
		app.NewLogging(),
	).WithHandler(router)
*/
func ChainDecorators(chain ...trustvault.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain.
func (d Decorators) Chain(chain ...trustvault.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := make([]trustvault.Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	return Decorators{append(newChain, chain...)}
}

// cutoffNil removes in place all nil values from given slice.
func cutoffNil(ds []trustvault.Decorator) []trustvault.Decorator {
	var cutoff int
	for i := 0; i < len(ds); i++ {
		ds[i-cutoff] = ds[i]
		if ds[i] == nil || (reflect.ValueOf(ds[i]).Kind() == reflect.Ptr && reflect.ValueOf(ds[i]).IsNil()) {
			cutoff++
		}
	}
	return ds[:len(ds)-cutoff]
}

// WithHandler resolves the stack and returns a Handler that passes through
// the chain of decorators before calling h. The first decorator of the
// chain is executed first.
func (d Decorators) WithHandler(h trustvault.Handler) trustvault.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step executes one decorator around the rest of the stack.
type step struct {
	d    trustvault.Decorator
	next trustvault.Handler
}

var _ trustvault.Handler = step{}

func (s step) Check(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.CheckResult, error) {
	return s.d.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx) (*trustvault.DeliverResult, error) {
	return s.d.Deliver(ctx, db, tx, s.next)
}

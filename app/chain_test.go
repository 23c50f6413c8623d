package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/trustvault"
	"github.com/iov-one/trustvault/errors"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

// countingDecorator counts calls on the way in and on the way out.
type countingDecorator struct {
	count int
}

func (c *countingDecorator) Check(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx, next trustvault.Handler) (*trustvault.CheckResult, error) {
	c.count++
	defer func() { c.count++ }()
	return next.Check(ctx, db, tx)
}

func (c *countingDecorator) Deliver(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx, next trustvault.Handler) (*trustvault.DeliverResult, error) {
	c.count++
	defer func() { c.count++ }()
	return next.Deliver(ctx, db, tx)
}

// panicDecorator panics on transactions of given path.
type panicDecorator struct {
	path string
}

func (p panicDecorator) Check(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx, next trustvault.Handler) (*trustvault.CheckResult, error) {
	if tx.MsgPath() == p.path {
		panic("boom")
	}
	return next.Check(ctx, db, tx)
}

func (p panicDecorator) Deliver(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx, next trustvault.Handler) (*trustvault.DeliverResult, error) {
	if tx.MsgPath() == p.path {
		panic("boom")
	}
	return next.Deliver(ctx, db, tx)
}

func TestChain(t *testing.T) {
	c1 := &countingDecorator{}
	c2 := &countingDecorator{}
	c3 := &countingDecorator{}
	h := &countingHandler{}
	var nilDecorator *countingDecorator

	stack := ChainDecorators(
		c1,
		NewLogging(),
		NewRecovery(),
		nilDecorator,
		c2,
		panicDecorator{path: "panic"},
		c3,
	).WithHandler(h)

	bg := context.Background()

	_, err := stack.Check(bg, nil, pathTx("ok"))
	assert.NoError(t, err)
	_, err = stack.Deliver(bg, nil, pathTx("ok"))
	assert.NoError(t, err)

	// Decorators are counted double, once in, once out.
	assert.Equal(t, 4, c1.count)
	assert.Equal(t, 4, c2.count)
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 2, h.calls)

	_, err = stack.Check(bg, nil, pathTx("panic"))
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(bg, nil, pathTx("panic"))
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Equal(t, 8, c1.count)
	// c2 is entered twice but left only by panicking.
	assert.Equal(t, 8, c2.count)
	assert.Equal(t, 4, c3.count)
	assert.Equal(t, 2, h.calls)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := trustvault.WithLogger(context.Background(), logger)

	stack := ChainDecorators(NewLogging()).WithHandler(NewRouter())
	_, err := stack.Deliver(ctx, nil, pathTx("missing"))
	assert.True(t, errors.ErrNotFound.Is(err))

	out := buf.String()
	assert.True(t, strings.Contains(out, "duration="), out)
	assert.True(t, strings.Contains(out, "not found"), out)
}

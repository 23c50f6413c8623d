package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/trustvault/tvtest"
	"github.com/iov-one/trustvault/x"
	"github.com/stretchr/testify/assert"
)

func TestChainAuth(t *testing.T) {
	a := tvtest.NewIdentity()
	b := tvtest.NewIdentity()
	c := tvtest.NewIdentity()

	ctx := context.Background()
	ctxAuth := &tvtest.CtxAuth{Key: "auth"}
	ctx = ctxAuth.SetSigners(ctx, b)

	auth := x.ChainAuth(&tvtest.Auth{Signer: a}, ctxAuth)

	assert.True(t, auth.HasIdentity(ctx, a))
	assert.True(t, auth.HasIdentity(ctx, b))
	assert.False(t, auth.HasIdentity(ctx, c))
	assert.Len(t, auth.GetSigners(ctx), 2)

	main, ok := x.MainSigner(ctx, auth)
	assert.True(t, ok)
	assert.Equal(t, a, main)

	_, ok = x.MainSigner(context.Background(), x.ChainAuth())
	assert.False(t, ok)
}

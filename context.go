package trustvault

import (
	"context"
	"regexp"

	"github.com/iov-one/trustvault/errors"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

type contextKey int

const (
	contextKeyBlockTime contextKey = iota
	contextKeyChainID
	contextKeyLogger
)

// WithBlockTime sets the time that all time dependent transitions executed
// with this context compare against. Setting it twice panics, so that a
// lower layer cannot move the clock under an upper one.
func WithBlockTime(ctx context.Context, t UnixTime) context.Context {
	if _, ok := BlockTime(ctx); ok {
		panic("block time already set")
	}
	return context.WithValue(ctx, contextKeyBlockTime, t)
}

// BlockTime returns the time set with WithBlockTime.
func BlockTime(ctx context.Context) (UnixTime, bool) {
	t, ok := ctx.Value(contextKeyBlockTime).(UnixTime)
	return t, ok
}

// IsExpired returns true if the block time of the context is strictly after
// given expiry. Equal times are not expired.
//
// This function panics if the block time is not present in the context. This
// must never happen and the panic prevents a broken setup from processing
// data incorrectly.
func IsExpired(ctx context.Context, expiry UnixTime) bool {
	now, ok := BlockTime(ctx)
	if !ok {
		panic("block time not present in context")
	}
	return now.After(expiry)
}

// WithChainID sets the chain id for the context. Transactions signed for
// another chain are rejected.
func WithChainID(ctx context.Context, chainID string) (context.Context, error) {
	if !IsValidChainID(chainID) {
		return ctx, errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	if _, ok := ctx.Value(contextKeyChainID).(string); ok {
		return ctx, errors.Wrap(errors.ErrInvalidState, "chain id already set")
	}
	return context.WithValue(ctx, contextKeyChainID, chainID), nil
}

// ChainID returns the chain id set with WithChainID or an empty string.
func ChainID(ctx context.Context) string {
	val, _ := ctx.Value(contextKeyChainID).(string)
	return val
}

// WithLogger sets the logger for this context.
func WithLogger(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another context like this,
// after passing all the keyvals to the Logger.
func WithLogInfo(ctx context.Context, keyvals ...interface{}) context.Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or DefaultLogger if none was
// set.
func GetLogger(ctx context.Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

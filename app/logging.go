package app

import (
	"context"
	"time"

	"github.com/iov-one/trustvault"
)

// Logging is a decorator to log transactions as they pass through. It uses
// the logger of the context.
type Logging struct{}

var _ trustvault.Decorator = Logging{}

// NewLogging creates a Logging decorator.
func NewLogging() Logging {
	return Logging{}
}

// Check logs both success and failure at debug level.
func (Logging) Check(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx, next trustvault.Handler) (*trustvault.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, true)
	return res, err
}

// Deliver logs failure at error level and success at info level.
func (Logging) Deliver(ctx context.Context, db trustvault.KVStore, tx trustvault.Tx, next trustvault.Handler) (*trustvault.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var resLog string
	if err == nil {
		resLog = res.Log
	}
	logDuration(ctx, start, resLog, err, false)
	return res, err
}

func logDuration(ctx context.Context, start time.Time, msg string, err error, lowPrio bool) {
	logger := trustvault.GetLogger(ctx).With("duration", time.Since(start)/time.Microsecond)

	// An entry is written even with an empty message, the key values are
	// what matters.
	switch {
	case lowPrio:
		if err != nil {
			logger = logger.With("err", err)
		}
		logger.Debug(msg)
	case err != nil:
		logger.With("err", err).Error(msg)
	default:
		logger.Info(msg)
	}
}

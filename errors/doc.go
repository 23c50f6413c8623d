/*
Package errors implements custom error interfaces for trustvault.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Every error kind has a
stable numeric code and a stable human readable message, so callers can tell
errors apart (AlreadyReleased, NotExpired, Unauthorized, InsufficientFunds,
IdentityMismatch and so on).

If you want to register a custom error - use Register(code, description).
For reusing errors - use Errxxx.New and Errxxx.Newf, or Wrap a root error.
Test for a kind with Errxxx.Is(err).

There is also support for stacktraces. Please ensure you create the custom error using
ErrXyz.New("...") or errors.Wrap(err, "...") at the point of creation to ensure we attach
a stacktrace. If you wrap multiple times, we only record the first wrap with the stacktrace.
(And don't do this as a global `var ErrFoo = errors.ErrInternal.New("foo")` or you will get a
useless stacktrace).

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context for the error

	%s is just the error message
	%+v is the full stack trace
*/
package errors

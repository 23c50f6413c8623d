// Package assert holds the few checks that nearly every test of this
// module needs. All of them stop the test on failure.
package assert

import (
	"reflect"
	"testing"

	"github.com/iov-one/trustvault/errors"
	testify "github.com/stretchr/testify/assert"
)

// Nil fails the test if value is not nil. A typed nil pointer, map, slice,
// channel or function counts as nil, so a nil *errors.Error passes.
func Nil(t testing.TB, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		if v.IsNil() {
			return
		}
	}
	// %+v prints the stack trace of errors that carry one.
	t.Fatalf("want nil, got %+v", value)
}

// Equal fails the test if want and got differ. Byte slices are compared by
// content; other values must have the same type and be deeply equal.
func Equal(t testing.TB, want, got interface{}) {
	t.Helper()
	if !testify.ObjectsAreEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails the test if fn returns without panicking.
func Panics(t testing.TB, fn func()) {
	t.Helper()
	if !panics(fn) {
		t.Fatal("panic expected")
	}
}

func panics(fn func()) (panicked bool) {
	defer func() {
		panicked = recover() != nil
	}()
	fn()
	return false
}

// IsErr fails the test unless got is of the want kind. A nil want expects
// no error at all.
func IsErr(t testing.TB, want *errors.Error, got error) {
	t.Helper()
	if want.Is(got) {
		return
	}
	if want == nil {
		t.Fatalf("unexpected error (code %d): %+v", errors.Code(got), got)
	}
	t.Fatalf("want %q (code %d), got code %d: %+v", want, errors.Code(want), errors.Code(got), got)
}

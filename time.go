package trustvault

import (
	"encoding/json"
	"time"

	"github.com/iov-one/trustvault/errors"
)

// UnixTime represents a point in time as POSIX time, in whole seconds.
// Unlike time.Time it carries no sub second precision and no location, which
// keeps the binary representation of a record stable. Values before the
// epoch are legal.
type UnixTime int64

// Time returns a time.Time structure that represents the same moment in time.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add modifies this UNIX time by given duration. This is compatible with
// time.Time.Add method.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// After returns true if t is strictly later than u.
func (t UnixTime) After(u UnixTime) bool {
	return t > u
}

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// UnmarshalJSON supports unmarshaling both as time.Time and from a number.
// Usually a number is used as a representation of this time in JSON but it is
// convenient to use a string format in configurations (ie genesis file).
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var unix int64
	if err := json.Unmarshal(raw, &unix); err == nil {
		*t = UnixTime(unix)
		return nil
	}

	var stdtime time.Time
	if err := json.Unmarshal(raw, &stdtime); err == nil {
		*t = AsUnixTime(stdtime)
		return nil
	}

	return errors.Wrap(errors.ErrInvalidInput, "invalid time format")
}

// String returns the usual string representation of this time as the time.Time
// structure would.
func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// Clock is the trusted source of the current time. Transitions that depend
// on time read it at most once.
type Clock interface {
	Now() UnixTime
}

// SystemClock reads the wall clock of the host.
type SystemClock struct{}

var _ Clock = SystemClock{}

// Now returns the current wall clock time.
func (SystemClock) Now() UnixTime {
	return AsUnixTime(time.Now())
}

// FixedClock always returns the same time. Use it when the time is decided
// elsewhere, for example by a block header.
type FixedClock UnixTime

var _ Clock = FixedClock(0)

// Now returns the fixed time.
func (c FixedClock) Now() UnixTime {
	return UnixTime(c)
}

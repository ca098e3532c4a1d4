package engine

import "time"

// Clock supplies "now" to callers that need one.
//
// The engine functions themselves take now as an argument; Clock is the
// seam where a caller (CLI, batch job) decides what now means. Production
// code uses SystemClock, tests use testutil.FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

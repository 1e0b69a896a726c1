package shared

import "time"

// Clock supplies the current time. Services take a Clock so that
// appointment dates and audit timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in a fixed location
type SystemClock struct {
	Location *time.Location
}

// Now returns the current time in the clock's location
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant
type FixedClock struct {
	At time.Time
}

// Now returns the fixed instant
func (c FixedClock) Now() time.Time {
	return c.At
}

// Today truncates t to a calendar date in t's location
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Package clock provides an injectable time source so lifecycle and
// recurrence logic stay deterministic under test.
package clock

import "time"

// Clock supplies the current time in UTC.
type Clock interface {
	Now() time.Time
}

// System is the wall clock.
type System struct{}

// Now returns the current time in UTC.
func (System) Now() time.Time { return time.Now().UTC() }

// Fixed returns a Clock pinned to the given instant.
func Fixed(t time.Time) Clock { return fixed{t.UTC()} }

type fixed struct{ t time.Time }

func (f fixed) Now() time.Time { return f.t }

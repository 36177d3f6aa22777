package clock

import "time"

// Clock abstracts time source for testability.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Default is the global clock. Overwrite in tests if needed.
var Default Clock = systemClock{}

// Now returns current time from the default clock.
func Now() time.Time { return Default.Now() }

// Set replaces the default clock and returns a restore function.
func Set(c Clock) (restore func()) {
	prev := Default
	Default = c
	return func() { Default = prev }
}

// NowUnixMilli returns the current time as epoch milliseconds, the unit lock
// records are stamped with.
func NowUnixMilli() int64 { return Now().UnixMilli() }

// Fixed returns a Clock pinned to t.
func Fixed(t time.Time) Clock { return fixed{t} }

type fixed struct{ t time.Time }

func (f fixed) Now() time.Time { return f.t }

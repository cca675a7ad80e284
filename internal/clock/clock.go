// Package clock abstracts the current time so that code stamping events
// (for example configuration snapshots) can be tested with a fixed instant.
package clock

import "time"

// Clock reports the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock frozen at one instant.
type Fixed struct {
	T time.Time
}

// Now returns the frozen instant.
func (f Fixed) Now() time.Time {
	return f.T
}

var (
	_ Clock = RealClock{}
	_ Clock = Fixed{}
)

package stores

import "time"

// Clock returns the current time for stamping items.
type Clock func() time.Time

// SystemClock is UTC wall time truncated to milliseconds, the resolution
// every persistence backend keeps.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

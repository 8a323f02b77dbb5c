package timing

import "time"

// Clock is the time source used by timers. It must be monotonically
// non-decreasing for the duration of a process run. The default clock wraps
// time.Now, whose wall readings carry a monotonic component on all supported
// platforms; a fixed manual clock is used in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the default Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

package timing

import "time"

// fakeClock is a manually-advanced Clock for deterministic tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

// set moves the clock to an absolute reading in seconds since its origin.
func (c *fakeClock) set(seconds float64) {
	c.now = time.Unix(0, 0).Add(time.Duration(seconds * float64(time.Second)))
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

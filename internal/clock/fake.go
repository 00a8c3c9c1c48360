package clock

import "time"

// FakeClock is a Clock pinned to an instant chosen by the test. Trend
// windows, forecast buckets, and row timestamps all read the same frozen
// now, so assertions can name exact periods.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock to t, normalized to UTC like the system clock.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the pinned instant forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

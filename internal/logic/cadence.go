package logic

import "time"

// Cadence decides when the next control cycle is due by comparing elapsed
// time against a fixed interval. It never sleeps.
type Cadence struct {
	interval time.Duration
	last     time.Time
}

// NewCadence creates a cadence whose first cycle is due one interval after start.
func NewCadence(interval time.Duration, start time.Time) *Cadence {
	return &Cadence{interval: interval, last: start}
}

// Due reports whether a cycle should run at now. When it returns true the
// cadence restarts from now.
func (c *Cadence) Due(now time.Time) bool {
	if now.Sub(c.last) < c.interval {
		return false
	}
	c.last = now
	return true
}

// Interval returns the configured interval.
func (c *Cadence) Interval() time.Duration {
	return c.interval
}

package logic

import "time"

// WarmupGate reports whether the gas sensor has been powered long enough for
// its output to be trusted. It is set once and never changes.
type WarmupGate struct {
	start    time.Time
	duration time.Duration
}

// NewWarmupGate starts the warm-up clock at start.
func NewWarmupGate(start time.Time, duration time.Duration) WarmupGate {
	return WarmupGate{start: start, duration: duration}
}

// IsWarmedUp is true once now - start >= duration.
func (w WarmupGate) IsWarmedUp(now time.Time) bool {
	return now.Sub(w.start) >= w.duration
}

// Remaining returns the time left until warm-up completes, or zero.
func (w WarmupGate) Remaining(now time.Time) time.Duration {
	left := w.duration - now.Sub(w.start)
	if left < 0 {
		return 0
	}
	return left
}

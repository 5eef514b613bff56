package connectivity

import (
	"context"
	"time"
)

// FakeLink is a Link with a settable state.
type FakeLink struct {
	// Ups, if non-empty, scripts successive Up results; the last repeats.
	Ups []bool
	// State is returned when Ups is empty.
	State bool
	Calls int
}

// Up implements Link.
func (f *FakeLink) Up() bool {
	f.Calls++
	if len(f.Ups) == 0 {
		return f.State
	}
	v := f.Ups[0]
	if len(f.Ups) > 1 {
		f.Ups = f.Ups[1:]
	}
	return v
}

// FakeSleeper records pauses without sleeping.
type FakeSleeper struct {
	Calls []time.Duration
}

// Sleep implements Sleeper.
func (s *FakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.Calls = append(s.Calls, d)
	return ctx.Err()
}

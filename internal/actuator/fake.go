package actuator

import "time"

// Write is one recorded Set call.
type Write struct {
	Output Output
	On     bool
}

// FakePort records writes for test assertions.
type FakePort struct {
	// Writes contains every Set call in order.
	Writes []Write

	// State holds the last value written to each output.
	State map[Output]bool

	// SetError, if set, is returned by Set for every output in FailOutputs
	// (or for all outputs when FailOutputs is empty).
	SetError    error
	FailOutputs []Output

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePort creates a FakePort with every output off.
func NewFakePort() *FakePort {
	return &FakePort{State: map[Output]bool{}}
}

// Set records the write.
func (f *FakePort) Set(out Output, on bool) error {
	if f.SetError != nil && f.fails(out) {
		return f.SetError
	}
	f.Writes = append(f.Writes, Write{Output: out, On: on})
	f.State[out] = on
	return nil
}

func (f *FakePort) fails(out Output) bool {
	if len(f.FailOutputs) == 0 {
		return true
	}
	for _, o := range f.FailOutputs {
		if o == out {
			return true
		}
	}
	return false
}

// WritesTo returns the recorded values for one output.
func (f *FakePort) WritesTo(out Output) []bool {
	var vals []bool
	for _, w := range f.Writes {
		if w.Output == out {
			vals = append(vals, w.On)
		}
	}
	return vals
}

// Close marks the port as closed.
func (f *FakePort) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded writes.
func (f *FakePort) Reset() {
	f.Writes = nil
	f.State = map[Output]bool{}
	f.SetError = nil
	f.FailOutputs = nil
	f.Closed = false
}

// FakeSleeper records requested pauses instead of sleeping.
type FakeSleeper struct {
	Calls []time.Duration
}

// Sleep records d.
func (s *FakeSleeper) Sleep(d time.Duration) {
	s.Calls = append(s.Calls, d)
}

// Total returns the sum of all recorded pauses.
func (s *FakeSleeper) Total() time.Duration {
	var total time.Duration
	for _, d := range s.Calls {
		total += d
	}
	return total
}

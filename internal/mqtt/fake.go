package mqtt

import (
	"time"

	"github.com/mftecnologia/air-monitor/internal/logic"
)

// Published is one recorded telemetry message.
type Published struct {
	Reading logic.Reading
	State   logic.State
}

// FakePublisher records published telemetry for test assertions.
type FakePublisher struct {
	// Messages contains everything that was published.
	Messages []Published

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// Attempts counts Publish calls, including failed ones.
	Attempts int

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// ConnectError, if set, will be returned by Connect.
	ConnectError error

	// ConnectCalls counts Connect calls.
	ConnectCalls int

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected. A successful
	// Connect sets it.
	Connected bool

	// Site and Uptime are used when formatting payloads.
	Site   string
	Uptime time.Duration
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Site: DefaultSite}
}

// Publish records the telemetry.
func (f *FakePublisher) Publish(r logic.Reading, s logic.State) error {
	f.Attempts++
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatPayload(r, s, f.Site, f.Uptime)
	if err != nil {
		return err
	}
	f.Messages = append(f.Messages, Published{Reading: r, State: s})
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// Connect simulates opening the broker session.
func (f *FakePublisher) Connect() error {
	f.ConnectCalls++
	if f.ConnectError != nil {
		return f.ConnectError
	}
	f.Connected = true
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake publisher is "connected".
func (f *FakePublisher) IsConnected() bool {
	return f.Connected
}

// Reset clears recorded messages.
func (f *FakePublisher) Reset() {
	f.Messages = nil
	f.Payloads = nil
	f.Attempts = 0
	f.ConnectCalls = 0
	f.Closed = false
	f.PublishError = nil
	f.ConnectError = nil
	f.Connected = false
}

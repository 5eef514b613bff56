// Package status provides a thread-safe status tracker for the air-monitor daemon.
// The control loop writes to it after every cycle; HTTP handlers read it.
package status

import (
	"sync"
	"time"

	"github.com/mftecnologia/air-monitor/internal/logic"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	IntervalMs int64
	PollMs     int64
	WarmupMs   int64
	Thresholds logic.Thresholds
	Site       string
	Broker     string
	Topic      string
	HTTPAddr   string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Reading         logic.Reading
	HasReading      bool
	State           logic.State
	Command         logic.Command
	WarmingUp       bool
	WarmupRemaining time.Duration
	Counts          logic.Counts
	Published       int
	PublishFailed   int
	LastPublishOK   bool
	StartTime       time.Time
	Now             time.Time
	MQTTConnected   bool
	Network         *NetworkInfo
	Config          Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			WarmingUp: true,
			Config:    cfg,
		},
	}
}

// Update records a classified cycle.
func (t *Tracker) Update(r logic.Reading, s logic.State, cmd logic.Command) {
	t.mu.Lock()
	t.snap.Reading = r
	t.snap.HasReading = true
	t.snap.State = s
	t.snap.Command = cmd
	t.snap.Counts.Add(s)
	t.mu.Unlock()
}

// RecordInvalid counts a cycle skipped because of an invalid reading.
func (t *Tracker) RecordInvalid() {
	t.mu.Lock()
	t.snap.Counts.Invalid++
	t.mu.Unlock()
}

// RecordPublish counts a publish attempt.
func (t *Tracker) RecordPublish(ok bool) {
	t.mu.Lock()
	if ok {
		t.snap.Published++
	} else {
		t.snap.PublishFailed++
	}
	t.snap.LastPublishOK = ok
	t.mu.Unlock()
}

// SetWarmup sets the gas sensor warm-up state.
func (t *Tracker) SetWarmup(warming bool, remaining time.Duration) {
	t.mu.Lock()
	t.snap.WarmingUp = warming
	t.snap.WarmupRemaining = remaining
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

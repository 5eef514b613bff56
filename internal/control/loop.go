// Package control sequences one monitoring cycle: read, classify, actuate,
// publish. It owns the cadence and is the only caller of the other parts.
package control

import (
	"errors"
	"log/slog"
	"time"

	"github.com/mftecnologia/air-monitor/internal/logic"
	"github.com/mftecnologia/air-monitor/internal/mqtt"
	"github.com/mftecnologia/air-monitor/internal/sensor"
	"github.com/mftecnologia/air-monitor/internal/status"
)

// Acquirer produces one reading per cycle.
type Acquirer interface {
	Read(now time.Time) (logic.Reading, error)
	WarmupRemaining(now time.Time) time.Duration
}

// Actuator drives outputs from a state.
type Actuator interface {
	Apply(state logic.State) error
	Current() (logic.Command, bool)
}

// Connectivity keeps the network and broker session up.
type Connectivity interface {
	EnsureConnected()
	IsConnected() bool
}

// Result describes what a Tick did.
type Result struct {
	Ran       bool
	Skipped   bool
	Reading   logic.Reading
	State     logic.State
	Published bool
}

// Loop runs monitoring cycles on a fixed cadence.
type Loop struct {
	Sensor     Acquirer
	Thresholds logic.Thresholds
	Actuators  Actuator
	Publisher  mqtt.Publisher
	Network    Connectivity
	Tracker    *status.Tracker
	Cadence    *logic.Cadence
	Log        *slog.Logger
}

// Tick is called on every poll tick. Connectivity is maintained on every
// call; a cycle only runs when the cadence is due.
func (l *Loop) Tick(now time.Time) Result {
	if l.Network != nil {
		l.Network.EnsureConnected()
	}
	if l.Tracker != nil && l.Network != nil {
		l.Tracker.SetMQTTConnected(l.Network.IsConnected())
	}

	if !l.Cadence.Due(now) {
		return Result{}
	}
	return l.Cycle(now)
}

// Cycle runs one monitoring cycle regardless of cadence.
func (l *Loop) Cycle(now time.Time) Result {
	res := Result{Ran: true}

	remaining := l.Sensor.WarmupRemaining(now)
	if l.Tracker != nil {
		l.Tracker.SetWarmup(remaining > 0, remaining)
	}

	r, err := l.Sensor.Read(now)
	if err != nil {
		switch {
		case errors.Is(err, sensor.ErrInvalidReading):
			l.Log.Warn("invalid sensor reading, skipping cycle", "err", err)
		default:
			l.Log.Error("sensor read failed, skipping cycle", "err", err)
		}
		if l.Tracker != nil {
			l.Tracker.RecordInvalid()
		}
		res.Skipped = true
		return res
	}
	res.Reading = r

	s := logic.Classify(r, l.Thresholds)
	res.State = s
	l.Log.Info("cycle",
		"temperature", r.Temperature,
		"humidity", r.Humidity,
		"co2", r.GasPPM,
		"state", s,
		"warming_up", r.WarmingUp)

	// Blocks for the blink pattern in CRITICAL.
	if err := l.Actuators.Apply(s); err != nil {
		l.Log.Error("actuator write failed", "state", s, "err", err)
	}
	if l.Tracker != nil {
		cmd, _ := l.Actuators.Current()
		l.Tracker.Update(r, s, cmd)
	}

	if err := l.Publisher.Publish(r, s); err != nil {
		l.Log.Warn("publish failed", "err", err)
	} else {
		res.Published = true
	}
	if l.Tracker != nil {
		l.Tracker.RecordPublish(res.Published)
	}
	return res
}

// Package mqtt provides telemetry publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/mftecnologia/air-monitor/internal/logic"
)

// Broker defaults.
const (
	DefaultBroker   = "tcp://broker.hivemq.com:1883"
	DefaultTopic    = "mftecnologia/escritorio/ar"
	DefaultClientID = "mf-dashboard-monitor"
	DefaultSite     = "escritorio_mf"
)

var (
	// ErrNotConnected is returned by Publish when there is no broker session.
	ErrNotConnected = errors.New("not connected to broker")

	// ErrPublish is returned when the broker did not accept a message.
	ErrPublish = errors.New("publish rejected")
)

// Publisher publishes telemetry to the broker.
type Publisher interface {
	// Publish sends one cycle's reading and state.
	// Returns error if publishing fails (should not crash the process).
	// Failures are not retried.
	Publish(r logic.Reading, s logic.State) error

	// Close disconnects from the broker.
	Close() error
}

// Payload is the telemetry record published each cycle.
type Payload struct {
	Temperature OneDecimal `json:"temperature"`
	Humidity    OneDecimal `json:"humidity"`
	CO2         int        `json:"co2"`
	Status      string     `json:"status"`
	Local       string     `json:"local"`
	UptimeMs    int64      `json:"uptime_ms"`
}

// OneDecimal is a number encoded in JSON with exactly one decimal place.
type OneDecimal float64

// MarshalJSON encodes the value rounded to one decimal.
func (d OneDecimal) MarshalJSON() ([]byte, error) {
	return strconv.AppendFloat(nil, float64(d), 'f', 1, 64), nil
}

// FormatPayload creates the JSON payload for one cycle.
func FormatPayload(r logic.Reading, s logic.State, site string, uptime time.Duration) ([]byte, error) {
	payload := Payload{
		Temperature: OneDecimal(r.Temperature),
		Humidity:    OneDecimal(r.Humidity),
		CO2:         r.GasPPM,
		Status:      s.String(),
		Local:       site,
		UptimeMs:    uptime.Milliseconds(),
	}
	return json.Marshal(payload)
}

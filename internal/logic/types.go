// Package logic contains the pure decision logic for the air quality monitor.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"fmt"
	"time"
)

// State is the environmental condition derived from one reading.
// Values are declared in evaluation priority order, highest first.
type State int

const (
	StateCritical State = iota
	StateWarning
	StateHeat
	StateDry
	StateNormal
)

// States lists every state in priority order.
var States = [...]State{StateCritical, StateWarning, StateHeat, StateDry, StateNormal}

var stateLabels = [...]string{
	StateCritical: "CRITICAL",
	StateWarning:  "WARNING",
	StateHeat:     "HEAT",
	StateDry:      "DRY",
	StateNormal:   "NORMAL",
}

// String returns the label published in telemetry.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateLabels) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateLabels[s]
}

// Reading is one sample of the environment. It is created fresh each cycle.
type Reading struct {
	Temperature float64 // °C
	Humidity    float64 // %RH
	GasPPM      int     // linear estimate, see GasScale
	Valid       bool
	// WarmingUp is set while the gas sensor has not reached its warm-up
	// time; the GasPPM estimate is not trusted for classification then.
	WarmingUp bool
	Time      time.Time
}

// Thresholds are the fixed classification limits. CO2Critical > CO2Warning.
type Thresholds struct {
	CO2Warning      int
	CO2Critical     int
	TempLimit       float64
	HumidityMinimum float64
}

// DefaultThresholds returns the limits shipped with the device.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CO2Warning:      1000,
		CO2Critical:     1500,
		TempLimit:       28.0,
		HumidityMinimum: 40.0,
	}
}

// Validate checks the threshold invariant.
func (t Thresholds) Validate() error {
	if t.CO2Critical <= t.CO2Warning {
		return fmt.Errorf("co2 critical (%d) must be greater than co2 warning (%d)", t.CO2Critical, t.CO2Warning)
	}
	return nil
}

// LEDMode selects how the status LED is driven.
type LEDMode int

const (
	LEDOff LEDMode = iota
	LEDOn
	LEDBlink
)

func (m LEDMode) String() string {
	switch m {
	case LEDOff:
		return "OFF"
	case LEDOn:
		return "ON"
	case LEDBlink:
		return "BLINK"
	}
	return fmt.Sprintf("LEDMode(%d)", int(m))
}

// LED is the LED part of a command. Count and Interval only apply to LEDBlink.
type LED struct {
	Mode     LEDMode
	Count    int
	Interval time.Duration
}

// Command is the complete actuator output for one state, in logical ON/OFF.
type Command struct {
	Relay1 bool
	Relay2 bool
	LED    LED
	Buzzer bool
}

// Blink pattern used by the CRITICAL state unless configured otherwise.
const (
	DefaultBlinkCount    = 3
	DefaultBlinkInterval = 200 * time.Millisecond
)

// BlinkDuration is how long a blink pattern holds the caller: each blink is
// one on phase and one off phase.
func (l LED) BlinkDuration() time.Duration {
	if l.Mode != LEDBlink {
		return 0
	}
	return time.Duration(2*l.Count) * l.Interval
}

// Counts tracks how many cycles ended in each state since startup.
type Counts struct {
	Critical int
	Warning  int
	Heat     int
	Dry      int
	Normal   int
	Invalid  int
}

// Add records one classified cycle.
func (c *Counts) Add(s State) {
	switch s {
	case StateCritical:
		c.Critical++
	case StateWarning:
		c.Warning++
	case StateHeat:
		c.Heat++
	case StateDry:
		c.Dry++
	case StateNormal:
		c.Normal++
	}
}

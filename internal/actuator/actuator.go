// Package actuator drives the relays, status LED and buzzer.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package actuator

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mftecnologia/air-monitor/internal/logic"
)

// Output identifies one digital output.
type Output int

const (
	Relay1 Output = iota // exhaust fan
	Relay2               // humidifier
	LED
	Buzzer
)

func (o Output) String() string {
	switch o {
	case Relay1:
		return "relay1"
	case Relay2:
		return "relay2"
	case LED:
		return "led"
	case Buzzer:
		return "buzzer"
	}
	return fmt.Sprintf("Output(%d)", int(o))
}

// Port sets outputs in logical form: true = energized. Any electrical
// inversion (active-low relay modules) is the port's concern.
type Port interface {
	Set(out Output, on bool) error
	Close() error
}

// Default pin numbers (BCM).
const (
	DefaultPinRelay1 = 26
	DefaultPinRelay2 = 27
	DefaultPinLED    = 17 // BCM 2 is I2C SDA on a Pi
	DefaultPinBuzzer = 25
)

// Controller turns a state into a command and applies it to a port.
type Controller struct {
	port    Port
	pattern logic.Pattern
	sleep   func(time.Duration)
	log     *slog.Logger
	current logic.Command
	applied bool
}

// NewController creates a controller. sleep is the blocking primitive used by
// the blink pattern; pass time.Sleep in production.
func NewController(port Port, pattern logic.Pattern, sleep func(time.Duration), log *slog.Logger) *Controller {
	return &Controller{port: port, pattern: pattern, sleep: sleep, log: log}
}

// Apply drives the outputs for state. For CRITICAL this blocks the caller for
// the whole blink pattern (2 × Count × Interval, 1.2s with defaults); it is
// the only blocking step in a cycle. All outputs are attempted even if one
// write fails.
func (c *Controller) Apply(state logic.State) error {
	cmd := logic.CommandFor(state, c.pattern)
	err := c.write(cmd)
	c.log.Info("actuators applied",
		"state", state,
		"relay1", onOff(cmd.Relay1),
		"relay2", onOff(cmd.Relay2),
		"led", cmd.LED.Mode,
		"buzzer", onOff(cmd.Buzzer))
	return err
}

// Safe switches everything off. Used at startup and shutdown.
func (c *Controller) Safe() error {
	return c.write(logic.SafeCommand())
}

// Current returns the last applied command and whether one was applied.
func (c *Controller) Current() (logic.Command, bool) {
	return c.current, c.applied
}

func (c *Controller) write(cmd logic.Command) error {
	var errs []error
	set := func(out Output, on bool) {
		if err := c.port.Set(out, on); err != nil {
			errs = append(errs, fmt.Errorf("set %s: %w", out, err))
		}
	}

	set(Relay1, cmd.Relay1)
	set(Relay2, cmd.Relay2)
	set(Buzzer, cmd.Buzzer)

	switch cmd.LED.Mode {
	case logic.LEDBlink:
		// The pattern ends with the LED off; a zero count still drives it off.
		if cmd.LED.Count < 1 {
			set(LED, false)
		}
		for i := 0; i < cmd.LED.Count; i++ {
			set(LED, true)
			c.sleep(cmd.LED.Interval)
			set(LED, false)
			c.sleep(cmd.LED.Interval)
		}
	case logic.LEDOn:
		set(LED, true)
	default:
		set(LED, false)
	}

	c.current = cmd
	c.applied = true
	return errors.Join(errs...)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

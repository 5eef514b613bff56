//go:build linux

package actuator

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPort drives outputs on actual hardware through the Linux GPIO
// character device.
type RealPort struct {
	chip  *gpiocdev.Chip
	lines map[Output]*gpiocdev.Line
}

// NewRealPort requests all four lines as outputs in the off state. With
// pins.RelaysActiveLow the relay lines are requested active-low, so a
// logical ON drives the pin low.
func NewRealPort(pins Pins) (*RealPort, error) {
	chip, err := gpiocdev.NewChip(pins.Chip, gpiocdev.WithConsumer("air-monitor"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip %s: %w", pins.Chip, err)
	}

	p := &RealPort{chip: chip, lines: make(map[Output]*gpiocdev.Line, 4)}
	for _, out := range []Output{Relay1, Relay2, LED, Buzzer} {
		opts := []gpiocdev.LineReqOption{gpiocdev.AsOutput(0)}
		if pins.RelaysActiveLow && (out == Relay1 || out == Relay2) {
			opts = append(opts, gpiocdev.AsActiveLow)
		}
		line, err := chip.RequestLine(pins.For(out), opts...)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", out, pins.For(out), err)
		}
		p.lines[out] = line
	}
	return p, nil
}

// Set writes the logical value of out.
func (p *RealPort) Set(out Output, on bool) error {
	line, ok := p.lines[out]
	if !ok {
		return fmt.Errorf("%s not configured", out)
	}
	v := 0
	if on {
		v = 1
	}
	return line.SetValue(v)
}

// Close releases GPIO resources.
// Lines are reconfigured as inputs before release so the pins return to their
// boot defaults. Relay lines get no pull-down: on active-low modules that
// would energize the relay.
func (p *RealPort) Close() error {
	var errs []error

	for out, line := range p.lines {
		var err error
		if out == Relay1 || out == Relay2 {
			err = line.Reconfigure(gpiocdev.AsInput)
		} else {
			err = line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", out, err))
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", out, err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %w", errors.Join(errs...))
	}
	return nil
}

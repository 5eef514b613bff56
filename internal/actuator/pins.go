package actuator

// Pins maps outputs to line offsets on one GPIO chip.
type Pins struct {
	Chip            string
	Relay1          int
	Relay2          int
	LED             int
	Buzzer          int
	RelaysActiveLow bool
}

// DefaultPins returns the wiring of the reference board.
func DefaultPins() Pins {
	return Pins{
		Chip:            "gpiochip0",
		Relay1:          DefaultPinRelay1,
		Relay2:          DefaultPinRelay2,
		LED:             DefaultPinLED,
		Buzzer:          DefaultPinBuzzer,
		RelaysActiveLow: true,
	}
}

// For returns the line offset of out.
func (p Pins) For(out Output) int {
	switch out {
	case Relay1:
		return p.Relay1
	case Relay2:
		return p.Relay2
	case LED:
		return p.LED
	case Buzzer:
		return p.Buzzer
	}
	return -1
}

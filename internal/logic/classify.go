package logic

import "time"

// Classify maps a reading to exactly one state. Tiers are evaluated in
// priority order and the first match wins; comparisons are strict, so a value
// equal to a threshold falls through to the next tier.
//
// While r.WarmingUp is set the CO2 tiers are skipped and only temperature and
// humidity are evaluated.
func Classify(r Reading, th Thresholds) State {
	if !r.WarmingUp {
		if r.GasPPM > th.CO2Critical {
			return StateCritical
		}
		if r.GasPPM > th.CO2Warning {
			return StateWarning
		}
	}
	if r.Temperature > th.TempLimit {
		return StateHeat
	}
	if r.Humidity < th.HumidityMinimum {
		return StateDry
	}
	return StateNormal
}

// Pattern describes the blink used for the CRITICAL state.
type Pattern struct {
	Count    int
	Interval time.Duration
}

// DefaultPattern is three blinks at 200ms.
func DefaultPattern() Pattern {
	return Pattern{Count: DefaultBlinkCount, Interval: DefaultBlinkInterval}
}

// CommandFor returns the actuator command for a state. The table is fixed;
// only the CRITICAL blink timing comes from p.
func CommandFor(s State, p Pattern) Command {
	switch s {
	case StateCritical:
		return Command{
			Relay1: true,
			Relay2: true,
			LED:    LED{Mode: LEDBlink, Count: p.Count, Interval: p.Interval},
			Buzzer: true,
		}
	case StateWarning, StateHeat:
		return Command{Relay1: true, LED: LED{Mode: LEDOn}}
	case StateDry:
		return Command{Relay2: true, LED: LED{Mode: LEDOn}}
	default:
		return Command{}
	}
}

// SafeCommand is the all-off output used at startup and shutdown.
func SafeCommand() Command {
	return Command{}
}

package logic

// GasScale linearly maps a bounded raw analog range onto a ppm range.
// The result is an estimate, not a calibrated measurement.
type GasScale struct {
	RawMin int
	RawMax int
	PPMMin int
	PPMMax int
}

// DefaultGasScale maps a 12-bit ADC (0..4095) onto 400..2000 ppm.
func DefaultGasScale() GasScale {
	return GasScale{RawMin: 0, RawMax: 4095, PPMMin: 400, PPMMax: 2000}
}

// PPM converts a raw value. Raw values outside [RawMin, RawMax] are clamped
// first. Division truncates toward zero.
func (g GasScale) PPM(raw int) int {
	if raw < g.RawMin {
		raw = g.RawMin
	}
	if raw > g.RawMax {
		raw = g.RawMax
	}
	span := g.RawMax - g.RawMin
	if span == 0 {
		return g.PPMMin
	}
	return (raw-g.RawMin)*(g.PPMMax-g.PPMMin)/span + g.PPMMin
}

// Package sensor reads the environment through a hardware abstraction.
// The real implementation uses I2C devices through periph.io.
// The fake implementation allows testing without hardware.
package sensor

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/mftecnologia/air-monitor/internal/logic"
)

var (
	// ErrInvalidReading is returned when temperature or humidity is undefined.
	// The cycle must be skipped; no default is substituted.
	ErrInvalidReading = errors.New("invalid temperature/humidity reading")

	// ErrGasChannel is returned when the analog channel could not be sampled.
	// A direct analog pin read cannot fail, but the ADC sits on I2C here and
	// its reads can; a failed gas read skips the cycle rather than guessing.
	ErrGasChannel = errors.New("gas channel unavailable")
)

// Port is raw access to the sensors.
type Port interface {
	// ReadTemperatureHumidity returns °C and %RH. Either value may be NaN
	// when the sensor could not produce it.
	ReadTemperatureHumidity() (float64, float64, error)

	// ReadGasRaw returns the raw analog value of the gas proxy channel.
	ReadGasRaw() (int, error)

	// Close releases sensor resources.
	Close() error
}

// Acquisition validates raw readings, converts the gas channel to ppm and
// owns the warm-up gate.
type Acquisition struct {
	port   Port
	scale  logic.GasScale
	warmup logic.WarmupGate
	log    *slog.Logger
}

// NewAcquisition starts the warm-up clock at start.
func NewAcquisition(port Port, scale logic.GasScale, warmup time.Duration, start time.Time, log *slog.Logger) *Acquisition {
	return &Acquisition{
		port:   port,
		scale:  scale,
		warmup: logic.NewWarmupGate(start, warmup),
		log:    log,
	}
}

// ReadTemperatureHumidity reads and validates the climate channel.
func (a *Acquisition) ReadTemperatureHumidity() (float64, float64, error) {
	temp, hum, err := a.port.ReadTemperatureHumidity()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidReading, err)
	}
	if undefined(temp) || undefined(hum) {
		return 0, 0, ErrInvalidReading
	}
	return temp, hum, nil
}

// ReadGasConcentration samples the gas channel and maps it to ppm. The raw
// value itself is never rejected.
func (a *Acquisition) ReadGasConcentration() (int, error) {
	raw, err := a.port.ReadGasRaw()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrGasChannel, err)
	}
	ppm := a.scale.PPM(raw)
	a.log.Debug("gas sample", "raw", raw, "ppm", ppm)
	return ppm, nil
}

// IsWarmedUp reports whether the gas estimate can be trusted at now.
func (a *Acquisition) IsWarmedUp(now time.Time) bool {
	return a.warmup.IsWarmedUp(now)
}

// WarmupRemaining returns how long until the gas estimate is trusted.
func (a *Acquisition) WarmupRemaining(now time.Time) time.Duration {
	return a.warmup.Remaining(now)
}

// Read takes a complete reading for one cycle.
func (a *Acquisition) Read(now time.Time) (logic.Reading, error) {
	temp, hum, err := a.ReadTemperatureHumidity()
	if err != nil {
		return logic.Reading{}, err
	}
	ppm, err := a.ReadGasConcentration()
	if err != nil {
		return logic.Reading{}, err
	}
	return logic.Reading{
		Temperature: temp,
		Humidity:    hum,
		GasPPM:      ppm,
		Valid:       true,
		WarmingUp:   !a.IsWarmedUp(now),
		Time:        now,
	}, nil
}

func undefined(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

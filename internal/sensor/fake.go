package sensor

import (
	"errors"
	"math"
)

// FakeSensor is a test double that returns scripted readings.
type FakeSensor struct {
	// Samples contains scripted values. Each ReadTemperatureHumidity call
	// consumes the next sample; ReadGasRaw returns the gas value of the
	// sample consumed last. Exhausted samples repeat the last one.
	Samples []Sample

	index   int
	current Sample

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, is returned by ReadTemperatureHumidity.
	ReadError error

	// GasError, if set, is returned by ReadGasRaw.
	GasError error

	// Reads counts ReadTemperatureHumidity calls.
	Reads int
}

// Sample is one scripted sensor state.
type Sample struct {
	Temperature float64
	Humidity    float64
	GasRaw      int
}

// Undefined is a sample whose climate channel reports no value.
var Undefined = Sample{Temperature: math.NaN(), Humidity: math.NaN()}

// NewFakeSensor creates a FakeSensor with the given samples.
func NewFakeSensor(samples []Sample) *FakeSensor {
	return &FakeSensor{Samples: samples}
}

// ReadTemperatureHumidity returns the next scripted sample.
func (f *FakeSensor) ReadTemperatureHumidity() (float64, float64, error) {
	f.Reads++
	if f.ReadError != nil {
		return 0, 0, f.ReadError
	}
	if len(f.Samples) == 0 {
		return 0, 0, errors.New("no samples configured")
	}

	f.current = f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return f.current.Temperature, f.current.Humidity, nil
}

// ReadGasRaw returns the gas value of the current sample.
func (f *FakeSensor) ReadGasRaw() (int, error) {
	if f.GasError != nil {
		return 0, f.GasError
	}
	return f.current.GasRaw, nil
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.Closed = true
	return nil
}

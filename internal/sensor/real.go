package sensor

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/devices/v3/bmxx80"
	"periph.io/x/host/v3"
)

// Default I2C addresses.
const (
	DefaultClimateAddr = 0x76 // BME280
	DefaultADCAddr     = 0x48 // ADS1115
)

// RealConfig selects the I2C bus and devices.
type RealConfig struct {
	Bus         string // empty = first available bus
	ClimateAddr uint16
	ADCAddr     uint16
	GasChannel  int // ADS1115 single-ended input 0-3
}

// RealPort reads a BME280 (temperature/humidity) and one ADS1115 input (gas
// proxy) over I2C.
type RealPort struct {
	bus     i2c.BusCloser
	climate *bmxx80.Dev
	adc     *ads1x15.Dev
	gas     ads1x15.PinADC
}

// NewRealPort initializes the host drivers and opens both devices.
func NewRealPort(cfg RealConfig) (*RealPort, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host drivers: %w", err)
	}

	channel, err := adcChannel(cfg.GasChannel)
	if err != nil {
		return nil, err
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", cfg.Bus, err)
	}

	climate, err := bmxx80.NewI2C(bus, cfg.ClimateAddr, &bmxx80.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("init bme280 at %#x: %w", cfg.ClimateAddr, err)
	}

	adc, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: cfg.ADCAddr})
	if err != nil {
		climate.Halt()
		bus.Close()
		return nil, fmt.Errorf("init ads1115 at %#x: %w", cfg.ADCAddr, err)
	}

	// 4.096V full scale; the gas module output stays below it on a 3.3V rail.
	gas, err := adc.PinForChannel(channel, 4096*physic.MilliVolt, 8*physic.Hertz, ads1x15.SaveEnergy)
	if err != nil {
		adc.Halt()
		climate.Halt()
		bus.Close()
		return nil, fmt.Errorf("open ads1115 channel %d: %w", cfg.GasChannel, err)
	}

	return &RealPort{bus: bus, climate: climate, adc: adc, gas: gas}, nil
}

// ReadTemperatureHumidity performs one forced measurement.
func (r *RealPort) ReadTemperatureHumidity() (float64, float64, error) {
	var env physic.Env
	if err := r.climate.Sense(&env); err != nil {
		return 0, 0, fmt.Errorf("sense: %w", err)
	}
	temp := env.Temperature.Celsius()
	hum := float64(env.Humidity) / float64(physic.PercentRH)
	return temp, hum, nil
}

// ReadGasRaw returns the gas channel scaled to 12 bits (0..4095) so it lines
// up with the default GasScale.
func (r *RealPort) ReadGasRaw() (int, error) {
	s, err := r.gas.Read()
	if err != nil {
		return 0, fmt.Errorf("read adc: %w", err)
	}
	raw := int(s.Raw)
	if raw < 0 {
		raw = 0
	}
	return raw >> 3, nil
}

// Close halts both devices and releases the bus.
func (r *RealPort) Close() error {
	var errs []error
	if r.gas != nil {
		if err := r.gas.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt adc channel: %w", err))
		}
	}
	if r.adc != nil {
		if err := r.adc.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt adc: %w", err))
		}
	}
	if r.climate != nil {
		if err := r.climate.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt bme280: %w", err))
		}
	}
	if r.bus != nil {
		if err := r.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bus: %w", err))
		}
	}
	return errors.Join(errs...)
}

func adcChannel(n int) (ads1x15.Channel, error) {
	switch n {
	case 0:
		return ads1x15.Channel0, nil
	case 1:
		return ads1x15.Channel1, nil
	case 2:
		return ads1x15.Channel2, nil
	case 3:
		return ads1x15.Channel3, nil
	}
	return 0, fmt.Errorf("ads1115 channel %d out of range 0-3", n)
}

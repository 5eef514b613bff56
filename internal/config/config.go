// Package config handles air-monitor configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mftecnologia/air-monitor/internal/actuator"
	"github.com/mftecnologia/air-monitor/internal/connectivity"
	"github.com/mftecnologia/air-monitor/internal/logic"
	"github.com/mftecnologia/air-monitor/internal/mqtt"
	"github.com/mftecnologia/air-monitor/internal/sensor"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from --config) is checked first.
// Then: ./air-monitor.yaml, ~/.config/air-monitor/config.yaml, /etc/air-monitor/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"air-monitor.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "air-monitor", "config.yaml"))
	}

	paths = append(paths, "/etc/air-monitor/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise it returns the first of DefaultSearchPaths that exists, or ""
// when none does (built-in defaults apply).
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

// Config holds all air-monitor configuration.
type Config struct {
	Site       string           `yaml:"site"`
	LogLevel   string           `yaml:"log_level"`
	LogFormat  string           `yaml:"log_format"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Timing     TimingConfig     `yaml:"timing"`
	Gas        GasConfig        `yaml:"gas"`
	Sensor     SensorConfig     `yaml:"sensor"`
	Pins       PinsConfig       `yaml:"pins"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	Network    NetworkConfig    `yaml:"network"`
	HTTP       HTTPConfig       `yaml:"http"`
}

// ThresholdsConfig defines the classification limits.
type ThresholdsConfig struct {
	CO2Warning      int     `yaml:"co2_warning"`  // ppm
	CO2Critical     int     `yaml:"co2_critical"` // ppm, must exceed co2_warning
	TempLimit       float64 `yaml:"temp_limit"`   // °C
	HumidityMinimum float64 `yaml:"humidity_min"` // %RH
}

// TimingConfig defines cadence and pattern timing.
type TimingConfig struct {
	Interval      time.Duration `yaml:"interval"`       // between control cycles
	Poll          time.Duration `yaml:"poll"`           // loop iteration (connectivity upkeep)
	Warmup        time.Duration `yaml:"warmup"`         // gas sensor warm-up
	BlinkCount    int           `yaml:"blink_count"`    // CRITICAL LED blinks
	BlinkInterval time.Duration `yaml:"blink_interval"` // on and off phase length
}

// GasConfig defines the raw-to-ppm mapping.
type GasConfig struct {
	RawMin int `yaml:"raw_min"`
	RawMax int `yaml:"raw_max"`
	PPMMin int `yaml:"ppm_min"`
	PPMMax int `yaml:"ppm_max"`
}

// SensorConfig selects the I2C devices.
type SensorConfig struct {
	I2CBus      string `yaml:"i2c_bus"` // empty = first available
	ClimateAddr uint16 `yaml:"climate_addr"`
	ADCAddr     uint16 `yaml:"adc_addr"`
	GasChannel  int    `yaml:"gas_channel"`
}

// PinsConfig maps outputs to GPIO lines.
type PinsConfig struct {
	Chip            string `yaml:"chip"`
	Relay1          int    `yaml:"relay1"`
	Relay2          int    `yaml:"relay2"`
	LED             int    `yaml:"led"`
	Buzzer          int    `yaml:"buzzer"`
	RelaysActiveLow bool   `yaml:"relays_active_low"`
}

// MQTTConfig defines the broker target. All static.
type MQTTConfig struct {
	Broker         string        `yaml:"broker"`
	Topic          string        `yaml:"topic"`
	ClientID       string        `yaml:"client_id"` // empty = generated
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

// NetworkConfig defines the initial connect policy.
type NetworkConfig struct {
	Interface       string        `yaml:"interface"` // empty = any non-loopback
	ConnectAttempts int           `yaml:"connect_attempts"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
}

// HTTPConfig defines the status server.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables
}

// Default returns the configuration shipped with the device.
func Default() *Config {
	th := logic.DefaultThresholds()
	gas := logic.DefaultGasScale()
	pins := actuator.DefaultPins()
	retry := connectivity.DefaultRetryPolicy()

	return &Config{
		Site:      mqtt.DefaultSite,
		LogLevel:  "info",
		LogFormat: "text",
		Thresholds: ThresholdsConfig{
			CO2Warning:      th.CO2Warning,
			CO2Critical:     th.CO2Critical,
			TempLimit:       th.TempLimit,
			HumidityMinimum: th.HumidityMinimum,
		},
		Timing: TimingConfig{
			Interval:      5 * time.Second,
			Poll:          time.Second,
			Warmup:        30 * time.Second,
			BlinkCount:    logic.DefaultBlinkCount,
			BlinkInterval: logic.DefaultBlinkInterval,
		},
		Gas: GasConfig{RawMin: gas.RawMin, RawMax: gas.RawMax, PPMMin: gas.PPMMin, PPMMax: gas.PPMMax},
		Sensor: SensorConfig{
			ClimateAddr: sensor.DefaultClimateAddr,
			ADCAddr:     sensor.DefaultADCAddr,
		},
		Pins: PinsConfig{
			Chip:            pins.Chip,
			Relay1:          pins.Relay1,
			Relay2:          pins.Relay2,
			LED:             pins.LED,
			Buzzer:          pins.Buzzer,
			RelaysActiveLow: pins.RelaysActiveLow,
		},
		MQTT: MQTTConfig{
			Broker:         mqtt.DefaultBroker,
			Topic:          mqtt.DefaultTopic,
			ClientID:       mqtt.DefaultClientID,
			ConnectTimeout: 5 * time.Second,
			PublishTimeout: 5 * time.Second,
		},
		Network: NetworkConfig{
			ConnectAttempts: retry.MaxAttempts,
			RetryDelay:      retry.Delay,
		},
		HTTP: HTTPConfig{Addr: ":8080"},
	}
}

// Load reads configuration from a YAML file on top of Default. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		// Expand environment variables
		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "air-monitor-" + uuid.NewString()[:8]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that the rest of the program relies on.
func (c *Config) Validate() error {
	var errs []error
	if err := c.ThresholdConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Gas.RawMax <= c.Gas.RawMin {
		errs = append(errs, fmt.Errorf("gas raw_max (%d) must be greater than raw_min (%d)", c.Gas.RawMax, c.Gas.RawMin))
	}
	if c.Gas.PPMMax <= c.Gas.PPMMin {
		errs = append(errs, fmt.Errorf("gas ppm_max (%d) must be greater than ppm_min (%d)", c.Gas.PPMMax, c.Gas.PPMMin))
	}
	if c.Timing.Interval <= 0 {
		errs = append(errs, errors.New("timing interval must be positive"))
	}
	if c.Timing.Poll <= 0 {
		errs = append(errs, errors.New("timing poll must be positive"))
	}
	if c.Timing.Warmup < 0 {
		errs = append(errs, errors.New("timing warmup must not be negative"))
	}
	if c.Timing.BlinkCount < 1 {
		errs = append(errs, errors.New("timing blink_count must be at least 1"))
	}
	if c.Timing.BlinkInterval <= 0 {
		errs = append(errs, errors.New("timing blink_interval must be positive"))
	}
	if c.Network.ConnectAttempts < 1 {
		errs = append(errs, errors.New("network connect_attempts must be at least 1"))
	}
	if c.MQTT.Broker == "" {
		errs = append(errs, errors.New("mqtt broker is required"))
	}
	if c.MQTT.Topic == "" {
		errs = append(errs, errors.New("mqtt topic is required"))
	}
	if c.Sensor.GasChannel < 0 || c.Sensor.GasChannel > 3 {
		errs = append(errs, fmt.Errorf("sensor gas_channel %d out of range 0-3", c.Sensor.GasChannel))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q (valid: text, json)", c.LogFormat))
	}
	return errors.Join(errs...)
}

// ThresholdConfig returns the immutable classification limits.
func (c *Config) ThresholdConfig() logic.Thresholds {
	return logic.Thresholds{
		CO2Warning:      c.Thresholds.CO2Warning,
		CO2Critical:     c.Thresholds.CO2Critical,
		TempLimit:       c.Thresholds.TempLimit,
		HumidityMinimum: c.Thresholds.HumidityMinimum,
	}
}

// GasScale returns the raw-to-ppm mapping.
func (c *Config) GasScale() logic.GasScale {
	return logic.GasScale{RawMin: c.Gas.RawMin, RawMax: c.Gas.RawMax, PPMMin: c.Gas.PPMMin, PPMMax: c.Gas.PPMMax}
}

// BlinkPattern returns the CRITICAL LED pattern.
func (c *Config) BlinkPattern() logic.Pattern {
	return logic.Pattern{Count: c.Timing.BlinkCount, Interval: c.Timing.BlinkInterval}
}

// ActuatorPins returns the GPIO wiring.
func (c *Config) ActuatorPins() actuator.Pins {
	return actuator.Pins{
		Chip:            c.Pins.Chip,
		Relay1:          c.Pins.Relay1,
		Relay2:          c.Pins.Relay2,
		LED:             c.Pins.LED,
		Buzzer:          c.Pins.Buzzer,
		RelaysActiveLow: c.Pins.RelaysActiveLow,
	}
}

// SensorPort returns the I2C sensor selection.
func (c *Config) SensorPort() sensor.RealConfig {
	return sensor.RealConfig{
		Bus:         c.Sensor.I2CBus,
		ClimateAddr: c.Sensor.ClimateAddr,
		ADCAddr:     c.Sensor.ADCAddr,
		GasChannel:  c.Sensor.GasChannel,
	}
}

// RetryPolicy returns the initial connect policy.
func (c *Config) RetryPolicy() connectivity.RetryPolicy {
	return connectivity.RetryPolicy{MaxAttempts: c.Network.ConnectAttempts, Delay: c.Network.RetryDelay}
}

// PublisherOptions returns broker options for a session started at start.
func (c *Config) PublisherOptions(start time.Time) mqtt.Options {
	return mqtt.Options{
		Broker:         c.MQTT.Broker,
		ClientID:       c.MQTT.ClientID,
		Username:       c.MQTT.Username,
		Password:       c.MQTT.Password,
		Topic:          c.MQTT.Topic,
		Site:           c.Site,
		ConnectTimeout: c.MQTT.ConnectTimeout,
		PublishTimeout: c.MQTT.PublishTimeout,
		Start:          start,
	}
}

package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "air-monitor.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	th := cfg.ThresholdConfig()
	if th.CO2Warning != 1000 || th.CO2Critical != 1500 || th.TempLimit != 28.0 || th.HumidityMinimum != 40.0 {
		t.Errorf("unexpected default thresholds %+v", th)
	}
	if cfg.Timing.Interval != 5*time.Second {
		t.Errorf("interval: got %v, want 5s", cfg.Timing.Interval)
	}
	if cfg.Timing.Warmup != 30*time.Second {
		t.Errorf("warmup: got %v, want 30s", cfg.Timing.Warmup)
	}
	if p := cfg.BlinkPattern(); p.Count != 3 || p.Interval != 200*time.Millisecond {
		t.Errorf("unexpected blink pattern %+v", p)
	}
	if rp := cfg.RetryPolicy(); rp.MaxAttempts != 20 || rp.Delay != 500*time.Millisecond {
		t.Errorf("unexpected retry policy %+v", rp)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MQTT.Topic != "mftecnologia/escritorio/ar" {
		t.Errorf("topic: got %q", cfg.MQTT.Topic)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
site: sala_reuniao
thresholds:
  co2_warning: 800
  co2_critical: 1200
timing:
  interval: 10s
  blink_interval: 100ms
mqtt:
  broker: tcp://10.0.0.5:1883
  password: ${AIRMON_TEST_PASSWORD}
sensor:
  adc_addr: 0x49
http:
  addr: ""
`)
	t.Setenv("AIRMON_TEST_PASSWORD", "s3cret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Site != "sala_reuniao" {
		t.Errorf("site: got %q", cfg.Site)
	}
	if cfg.Thresholds.CO2Warning != 800 || cfg.Thresholds.CO2Critical != 1200 {
		t.Errorf("thresholds: got %+v", cfg.Thresholds)
	}
	if cfg.Thresholds.TempLimit != 28.0 {
		t.Errorf("unset temp_limit should keep default, got %v", cfg.Thresholds.TempLimit)
	}
	if cfg.Timing.Interval != 10*time.Second {
		t.Errorf("interval: got %v", cfg.Timing.Interval)
	}
	if cfg.Timing.BlinkInterval != 100*time.Millisecond {
		t.Errorf("blink_interval: got %v", cfg.Timing.BlinkInterval)
	}
	if cfg.MQTT.Broker != "tcp://10.0.0.5:1883" {
		t.Errorf("broker: got %q", cfg.MQTT.Broker)
	}
	if cfg.MQTT.Password != "s3cret" {
		t.Errorf("password should be expanded from env, got %q", cfg.MQTT.Password)
	}
	if cfg.Sensor.ADCAddr != 0x49 {
		t.Errorf("adc_addr: got %#x", cfg.Sensor.ADCAddr)
	}
	if cfg.HTTP.Addr != "" {
		t.Errorf("http addr should be disabled, got %q", cfg.HTTP.Addr)
	}
	opts := cfg.PublisherOptions(time.Time{})
	if opts.Site != "sala_reuniao" || opts.Broker != cfg.MQTT.Broker {
		t.Errorf("unexpected publisher options %+v", opts)
	}
}

func TestLoadGeneratesClientID(t *testing.T) {
	path := writeConfig(t, "mqtt:\n  client_id: \"\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.HasPrefix(cfg.MQTT.ClientID, "air-monitor-") || len(cfg.MQTT.ClientID) != len("air-monitor-")+8 {
		t.Errorf("unexpected generated client id %q", cfg.MQTT.ClientID)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"critical not above warning", "thresholds:\n  co2_warning: 1500\n  co2_critical: 1500\n", "co2 critical"},
		{"raw range", "gas:\n  raw_min: 100\n  raw_max: 100\n", "raw_max"},
		{"ppm range", "gas:\n  ppm_min: 2000\n  ppm_max: 400\n", "ppm_max"},
		{"zero interval", "timing:\n  interval: 0s\n", "interval"},
		{"zero blink count", "timing:\n  blink_count: 0\n", "blink_count"},
		{"no attempts", "network:\n  connect_attempts: 0\n", "connect_attempts"},
		{"empty topic", "mqtt:\n  topic: \"\"\n", "topic"},
		{"bad log level", "log_level: loud\n", "log level"},
		{"bad log format", "log_format: xml\n", "log format"},
		{"bad gas channel", "sensor:\n  gas_channel: 5\n", "gas_channel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "thresholds: [1, 2\n")); err == nil {
		t.Error("expected parse error")
	}
}

func TestFindConfig(t *testing.T) {
	path := writeConfig(t, "site: x\n")
	got, err := FindConfig(path)
	if err != nil || got != path {
		t.Errorf("FindConfig(explicit): got (%q, %v)", got, err)
	}

	if _, err := FindConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit path")
	}
}

func TestFindConfigSearchesWorkingDir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
	t.Setenv("HOME", dir)

	got, err := FindConfig("")
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if got != "" && got != "/etc/air-monitor/config.yaml" {
		t.Errorf("expected no config in empty dir, got %q", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "air-monitor.yaml"), []byte("site: x\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err = FindConfig("")
	if err != nil || got != "air-monitor.yaml" {
		t.Errorf("FindConfig: got (%q, %v), want air-monitor.yaml", got, err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{" DEBUG ", slog.LevelDebug},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		if err != nil {
			t.Errorf("ParseLogLevel(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseLogLevel(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, slog.LevelInfo, "json").Info("hello", "state", "NORMAL")
	if !strings.Contains(buf.String(), `"state":"NORMAL"`) {
		t.Errorf("expected JSON output, got %s", buf.String())
	}

	buf.Reset()
	log := NewLogger(&buf, slog.LevelWarn, "text")
	log.Info("dropped")
	log.Warn("kept")
	if strings.Contains(buf.String(), "dropped") || !strings.Contains(buf.String(), "kept") {
		t.Errorf("unexpected text output %q", buf.String())
	}
}

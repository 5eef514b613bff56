package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	State            string        `json:"state"`
	Ready            bool          `json:"ready"`
	WarmingUp        bool          `json:"warming_up"`
	WarmupRemainingS int64         `json:"warmup_remaining_seconds"`
	Reading          *ReadingJSON  `json:"reading,omitempty"`
	Actuators        ActuatorsJSON `json:"actuators"`
	UptimeSeconds    int64         `json:"uptime_seconds"`
	StartTime        string        `json:"start_time"`
	Timestamp        string        `json:"timestamp"`
	MQTT             MQTTStatus    `json:"mqtt"`
	Counts           CountsJSON    `json:"cycle_counts"`
	Network          *NetworkJSON  `json:"network,omitempty"`
	Config           ConfigJSON    `json:"config"`
}

// ReadingJSON is the last valid reading.
type ReadingJSON struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	CO2         int     `json:"co2"`
	Timestamp   string  `json:"timestamp"`
}

// ActuatorsJSON is the current actuator command.
type ActuatorsJSON struct {
	Relay1 string `json:"relay1"`
	Relay2 string `json:"relay2"`
	LED    string `json:"led"`
	Buzzer string `json:"buzzer"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected     bool   `json:"connected"`
	Broker        string `json:"broker"`
	Topic         string `json:"topic"`
	Published     int    `json:"published"`
	PublishFailed int    `json:"publish_failed"`
}

// CountsJSON is the JSON representation of per-state cycle counts.
type CountsJSON struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Heat     int `json:"heat"`
	Dry      int `json:"dry"`
	Normal   int `json:"normal"`
	Invalid  int `json:"invalid"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	IntervalMs      int64   `json:"interval_ms"`
	PollMs          int64   `json:"poll_ms"`
	WarmupMs        int64   `json:"warmup_ms"`
	CO2Warning      int     `json:"co2_warning"`
	CO2Critical     int     `json:"co2_critical"`
	TempLimit       float64 `json:"temp_limit"`
	HumidityMinimum float64 `json:"humidity_min"`
	Site            string  `json:"site"`
	HTTPAddr        string  `json:"http_addr"`
}

// StateLabel returns the state label, or UNKNOWN before the first cycle.
func (s Snapshot) StateLabel() string {
	if !s.HasReading {
		return "UNKNOWN"
	}
	return s.State.String()
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		State:            snap.StateLabel(),
		Ready:            snap.HasReading && !snap.WarmingUp,
		WarmingUp:        snap.WarmingUp,
		WarmupRemainingS: int64(snap.WarmupRemaining.Round(time.Second).Seconds()),
		Actuators: ActuatorsJSON{
			Relay1: onOff(snap.Command.Relay1),
			Relay2: onOff(snap.Command.Relay2),
			LED:    snap.Command.LED.Mode.String(),
			Buzzer: onOff(snap.Command.Buzzer),
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT: MQTTStatus{
			Connected:     snap.MQTTConnected,
			Broker:        snap.Config.Broker,
			Topic:         snap.Config.Topic,
			Published:     snap.Published,
			PublishFailed: snap.PublishFailed,
		},
		Counts: CountsJSON{
			Critical: snap.Counts.Critical,
			Warning:  snap.Counts.Warning,
			Heat:     snap.Counts.Heat,
			Dry:      snap.Counts.Dry,
			Normal:   snap.Counts.Normal,
			Invalid:  snap.Counts.Invalid,
		},
		Config: ConfigJSON{
			IntervalMs:      snap.Config.IntervalMs,
			PollMs:          snap.Config.PollMs,
			WarmupMs:        snap.Config.WarmupMs,
			CO2Warning:      snap.Config.Thresholds.CO2Warning,
			CO2Critical:     snap.Config.Thresholds.CO2Critical,
			TempLimit:       snap.Config.Thresholds.TempLimit,
			HumidityMinimum: snap.Config.Thresholds.HumidityMinimum,
			Site:            snap.Config.Site,
			HTTPAddr:        snap.Config.HTTPAddr,
		},
	}

	if snap.HasReading {
		inner.Reading = &ReadingJSON{
			Temperature: snap.Reading.Temperature,
			Humidity:    snap.Reading.Humidity,
			CO2:         snap.Reading.GasPPM,
			Timestamp:   snap.Reading.Time.UTC().Format(time.RFC3339),
		}
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

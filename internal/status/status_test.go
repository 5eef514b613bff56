package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/mftecnologia/air-monitor/internal/logic"
)

func testConfig() Config {
	return Config{
		IntervalMs: 5000,
		PollMs:     1000,
		WarmupMs:   30000,
		Thresholds: logic.DefaultThresholds(),
		Site:       "escritorio_mf",
		Broker:     "tcp://broker.hivemq.com:1883",
		Topic:      "mftecnologia/escritorio/ar",
		HTTPAddr:   ":8080",
	}
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.IntervalMs != 5000 {
		t.Errorf("Config.IntervalMs: got %d, want 5000", snap.Config.IntervalMs)
	}
	if snap.HasReading {
		t.Error("expected HasReading=false initially")
	}
	if !snap.WarmingUp {
		t.Error("expected WarmingUp=true initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
	if snap.StateLabel() != "UNKNOWN" {
		t.Errorf("StateLabel: got %q, want UNKNOWN", snap.StateLabel())
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	r := logic.Reading{Temperature: 27.5, Humidity: 38.2, GasPPM: 1120, Valid: true}
	cmd := logic.CommandFor(logic.StateWarning, logic.DefaultPattern())

	tr.Update(r, logic.StateWarning, cmd)
	tr.Update(r, logic.StateWarning, cmd)
	tr.RecordInvalid()

	snap := tr.Snapshot()
	if snap.State != logic.StateWarning {
		t.Errorf("State: got %s, want WARNING", snap.State)
	}
	if snap.Reading != r {
		t.Errorf("Reading: got %+v", snap.Reading)
	}
	if snap.Command != cmd {
		t.Errorf("Command: got %+v", snap.Command)
	}
	if snap.Counts.Warning != 2 || snap.Counts.Invalid != 1 {
		t.Errorf("Counts: got %+v", snap.Counts)
	}
}

func TestRecordPublish(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.RecordPublish(true)
	tr.RecordPublish(true)
	tr.RecordPublish(false)

	snap := tr.Snapshot()
	if snap.Published != 2 || snap.PublishFailed != 1 {
		t.Errorf("got published=%d failed=%d", snap.Published, snap.PublishFailed)
	}
	if snap.LastPublishOK {
		t.Error("expected LastPublishOK=false after a failure")
	}
}

func TestSetWarmupAndMQTT(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.SetWarmup(true, 12*time.Second)
	tr.SetMQTTConnected(true)

	snap := tr.Snapshot()
	if !snap.WarmingUp || snap.WarmupRemaining != 12*time.Second {
		t.Errorf("warmup: got %v %v", snap.WarmingUp, snap.WarmupRemaining)
	}
	if !snap.MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetWarmup(false, 0)
	tr.SetMQTTConnected(false)
	snap = tr.Snapshot()
	if snap.WarmingUp || snap.MQTTConnected {
		t.Errorf("expected both cleared, got warming=%v mqtt=%v", snap.WarmingUp, snap.MQTTConnected)
	}
}

func TestSetNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	if tr.Snapshot().Network != nil {
		t.Error("expected nil Network initially")
	}

	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected"})
	snap := tr.Snapshot()
	if snap.Network == nil || snap.Network.IP != "192.168.1.42" {
		t.Errorf("Network: got %+v", snap.Network)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	tr := NewTracker(start, Config{})
	if up := tr.Snapshot().Uptime(); up < 90*time.Second || up > 95*time.Second {
		t.Errorf("Uptime: got %v, want ~90s", up)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Update(logic.Reading{GasPPM: j}, logic.StateNormal, logic.Command{})
				tr.RecordPublish(j%2 == 0)
				tr.SetMQTTConnected(j%2 == 0)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = FormatJSON(tr.Snapshot())
			}
		}()
	}
	wg.Wait()

	if got := tr.Snapshot().Counts.Normal; got != 1000 {
		t.Errorf("Counts.Normal: got %d, want 1000", got)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(start, testConfig())
	r := logic.Reading{Temperature: 25.0, Humidity: 50.0, GasPPM: 1600, Valid: true, Time: start.Add(time.Minute)}
	tr.Update(r, logic.StateCritical, logic.CommandFor(logic.StateCritical, logic.DefaultPattern()))
	tr.SetWarmup(false, 0)
	tr.SetMQTTConnected(true)
	tr.RecordPublish(true)
	tr.SetNetwork(&NetworkInfo{Type: "wifi", SSID: "office"})

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := sj.Status
	if s.State != "CRITICAL" {
		t.Errorf("State: got %q", s.State)
	}
	if !s.Ready || s.WarmingUp {
		t.Errorf("expected ready and warm, got ready=%v warming=%v", s.Ready, s.WarmingUp)
	}
	if s.Reading == nil || s.Reading.CO2 != 1600 || s.Reading.Timestamp != "2026-01-01T00:01:00Z" {
		t.Errorf("Reading: got %+v", s.Reading)
	}
	want := ActuatorsJSON{Relay1: "ON", Relay2: "ON", LED: "BLINK", Buzzer: "ON"}
	if s.Actuators != want {
		t.Errorf("Actuators: got %+v, want %+v", s.Actuators, want)
	}
	if !s.MQTT.Connected || s.MQTT.Published != 1 || s.MQTT.Topic != "mftecnologia/escritorio/ar" {
		t.Errorf("MQTT: got %+v", s.MQTT)
	}
	if s.Counts.Critical != 1 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Network == nil || s.Network.SSID != "office" {
		t.Errorf("Network: got %+v", s.Network)
	}
	if s.Config.CO2Critical != 1500 || s.Config.Site != "escritorio_mf" {
		t.Errorf("Config: got %+v", s.Config)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
}

func TestFormatJSONBeforeFirstCycle(t *testing.T) {
	tr := NewTracker(time.Now(), testConfig())
	tr.SetWarmup(true, 29600*time.Millisecond)

	var sj StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &sj); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sj.Status.State != "UNKNOWN" {
		t.Errorf("State: got %q, want UNKNOWN", sj.Status.State)
	}
	if sj.Status.Ready {
		t.Error("expected Ready=false before the first cycle")
	}
	if sj.Status.Reading != nil {
		t.Error("expected no reading before the first cycle")
	}
	if sj.Status.WarmupRemainingS != 30 {
		t.Errorf("WarmupRemainingS: got %d, want 30", sj.Status.WarmupRemainingS)
	}
	if sj.Status.Actuators.LED != "OFF" {
		t.Errorf("LED: got %q, want OFF", sj.Status.Actuators.LED)
	}
}

// Command air-monitor reads indoor climate and CO2 levels, drives relays, an
// LED and a buzzer from the derived state, and publishes telemetry to MQTT.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/mftecnologia/air-monitor/internal/actuator"
	"github.com/mftecnologia/air-monitor/internal/config"
	"github.com/mftecnologia/air-monitor/internal/connectivity"
	"github.com/mftecnologia/air-monitor/internal/control"
	"github.com/mftecnologia/air-monitor/internal/logic"
	"github.com/mftecnologia/air-monitor/internal/mqtt"
	"github.com/mftecnologia/air-monitor/internal/sensor"
	"github.com/mftecnologia/air-monitor/internal/status"
	"github.com/mftecnologia/air-monitor/internal/web"
)

// Options are the command line flags. Everything else lives in the config file.
type Options struct {
	Config       string `short:"c" long:"config" description:"Path to config file (default: search standard locations)"`
	LogLevel     string `long:"log-level" description:"Override log level (debug, info, warn, error)"`
	PrintReading bool   `long:"print-reading" description:"Take one reading, print it with its state and exit. The gas sensor is still warming up, so CO2 states are suppressed unless --wait-warmup is given"`
	WaitWarmup   bool   `long:"wait-warmup" description:"With --print-reading, wait for the gas sensor warm-up before reading"`
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	path, err := config.FindConfig(opts.Config)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	levelName := cfg.LogLevel
	if opts.LogLevel != "" {
		levelName = opts.LogLevel
	}
	level, err := config.ParseLogLevel(levelName)
	if err != nil {
		return err
	}
	log := config.NewLogger(os.Stderr, level, cfg.LogFormat)
	if path != "" {
		log.Info("config loaded", "path", path)
	} else {
		log.Info("no config file found, using defaults")
	}

	start := time.Now()

	// Initialize sensors
	sensorPort, err := sensor.NewRealPort(cfg.SensorPort())
	if err != nil {
		return fmt.Errorf("init sensors: %w", err)
	}
	defer sensorPort.Close()
	acq := sensor.NewAcquisition(sensorPort, cfg.GasScale(), cfg.Timing.Warmup, start, log)

	if opts.PrintReading {
		return printReading(os.Stdout, acq, cfg.ThresholdConfig(), opts.WaitWarmup, time.Now, time.Sleep)
	}

	// Initialize actuators, all off until the first cycle
	actPort, err := actuator.NewRealPort(cfg.ActuatorPins())
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer actPort.Close()
	controller := actuator.NewController(actPort, cfg.BlinkPattern(), time.Sleep, log)
	if err := controller.Safe(); err != nil {
		log.Error("failed to reset actuators", "err", err)
	}

	// Initialize status tracker
	tracker := status.NewTracker(start, status.Config{
		IntervalMs: cfg.Timing.Interval.Milliseconds(),
		PollMs:     cfg.Timing.Poll.Milliseconds(),
		WarmupMs:   cfg.Timing.Warmup.Milliseconds(),
		Thresholds: cfg.ThresholdConfig(),
		Site:       cfg.Site,
		Broker:     cfg.MQTT.Broker,
		Topic:      cfg.MQTT.Topic,
		HTTPAddr:   cfg.HTTP.Addr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, log)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("http server error", "err", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info("http status server listening", "addr", cfg.HTTP.Addr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Initial connect is bounded; the loop keeps retrying afterwards.
	publisher := mqtt.NewRealPublisher(cfg.PublisherOptions(start), log)
	link := connectivity.InterfaceLink{Name: cfg.Network.Interface}
	manager := connectivity.NewManager(link, publisher, cfg.RetryPolicy(), connectivity.SleepContext, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	if err := manager.Connect(ctx); err != nil {
		log.Warn("starting without connectivity", "err", err)
	}
	stop()
	tracker.SetMQTTConnected(manager.IsConnected())

	loop := &control.Loop{
		Sensor:     acq,
		Thresholds: cfg.ThresholdConfig(),
		Actuators:  controller,
		Publisher:  publisher,
		Network:    manager,
		Tracker:    tracker,
		Cadence:    logic.NewCadence(cfg.Timing.Interval, start),
		Log:        log,
	}

	log.Info("started",
		"site", cfg.Site,
		"interval", cfg.Timing.Interval,
		"warmup", cfg.Timing.Warmup,
		"broker", cfg.MQTT.Broker,
		"topic", cfg.MQTT.Topic,
		"client_id", cfg.MQTT.ClientID)

	ticker := time.NewTicker(cfg.Timing.Poll)
	defer ticker.Stop()

	return runLoop(loop, controller, publisher, time.Now, ticker.C, sigCh, log)
}

// safer switches every output off.
type safer interface {
	Safe() error
}

func runLoop(loop *control.Loop, outputs safer, publisher mqtt.Publisher, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal, log *slog.Logger) error {
	for {
		select {
		case s := <-sig:
			log.Info("shutting down", "signal", s.String())
			if err := outputs.Safe(); err != nil {
				log.Error("failed to reset actuators", "err", err)
			}
			if err := publisher.Close(); err != nil {
				log.Warn("failed to close mqtt session", "err", err)
			}
			return nil

		case <-tick:
			loop.Tick(now())
		}
	}
}

// printReading takes one reading. With wait it first sleeps out the gas
// sensor warm-up so the CO2 tiers can apply.
func printReading(w io.Writer, acq control.Acquirer, th logic.Thresholds, wait bool, now func() time.Time, sleep func(time.Duration)) error {
	if wait {
		if d := acq.WarmupRemaining(now()); d > 0 {
			fmt.Fprintf(w, "waiting %v for gas sensor warm-up\n", d.Round(time.Second))
			sleep(d)
		}
	}
	r, err := acq.Read(now())
	if err != nil {
		return fmt.Errorf("read sensors: %w", err)
	}
	fmt.Fprintln(w, formatReading(r, logic.Classify(r, th)))
	return nil
}

func formatReading(r logic.Reading, s logic.State) string {
	line := fmt.Sprintf("temperature=%.1f humidity=%.1f co2=%d state=%s", r.Temperature, r.Humidity, r.GasPPM, s)
	if r.WarmingUp {
		line += " (gas sensor warming up)"
	}
	return line
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

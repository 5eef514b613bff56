package mqtt

import (
	"fmt"
	"log/slog"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/mftecnologia/air-monitor/internal/logic"
)

// Options configures a RealPublisher. Everything is static configuration.
type Options struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	Topic          string
	Site           string
	ConnectTimeout time.Duration
	PublishTimeout time.Duration
	// Start is the process start time used for the uptime counter.
	Start time.Time
	// Now defaults to time.Now.
	Now func() time.Time
}

// RealPublisher publishes to an actual MQTT broker. It does not reconnect on
// its own; the connectivity manager calls Connect.
type RealPublisher struct {
	client paho.Client
	opts   Options
	log    *slog.Logger
}

// NewRealPublisher creates a publisher for the given broker. No connection is
// attempted until Connect.
func NewRealPublisher(o Options, log *slog.Logger) *RealPublisher {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 5 * time.Second
	}
	if o.PublishTimeout <= 0 {
		o.PublishTimeout = 5 * time.Second
	}

	opts := paho.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetUsername(o.Username).
		SetPassword(o.Password).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(o.ConnectTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Warn("mqtt connection lost", "err", err)
		})

	return &RealPublisher{
		client: paho.NewClient(opts),
		opts:   o,
		log:    log,
	}
}

// Connect opens the broker session once.
func (p *RealPublisher) Connect() error {
	token := p.client.Connect()
	if !token.WaitTimeout(p.opts.ConnectTimeout) {
		return fmt.Errorf("connect to %s: timeout", p.opts.Broker)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("connect to %s: %w", p.opts.Broker, err)
	}
	return nil
}

// IsConnected reports whether the broker session is open.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Publish sends the telemetry record to the configured topic.
func (p *RealPublisher) Publish(r logic.Reading, s logic.State) error {
	if !p.client.IsConnectionOpen() {
		return ErrNotConnected
	}

	payload, err := FormatPayload(r, s, p.opts.Site, p.opts.Now().Sub(p.opts.Start))
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	// QoS 0 (at-most-once), not retained
	token := p.client.Publish(p.opts.Topic, 0, false, payload)
	if !token.WaitTimeout(p.opts.PublishTimeout) {
		return fmt.Errorf("%w: timeout", ErrPublish)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.log.Debug("published", "topic", p.opts.Topic, "payload", string(payload))
	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	if p.client.IsConnected() {
		p.client.Disconnect(1000) // 1 second timeout
	}
	return nil
}

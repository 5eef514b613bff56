// Package connectivity keeps the network link and broker session alive.
// Nothing here is fatal: the control loop keeps driving actuators while the
// network is away.
package connectivity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var errLinkDown = errors.New("network link down")

// Link reports network association. Association itself is owned by the OS.
type Link interface {
	Up() bool
}

// Session is a broker session.
type Session interface {
	Connect() error
	IsConnected() bool
}

// Manager sequences link and session checks.
type Manager struct {
	link    Link
	session Session
	policy  RetryPolicy
	sleep   Sleeper
	log     *slog.Logger

	linkLost    bool
	sessionLost bool
}

// NewManager creates a manager. policy and sleep only apply to Connect.
func NewManager(link Link, session Session, policy RetryPolicy, sleep Sleeper, log *slog.Logger) *Manager {
	return &Manager{link: link, session: session, policy: policy, sleep: sleep, log: log}
}

// Connect is the bounded initial connect: it waits for the link with the
// retry policy, then makes one session attempt. The error is informational;
// callers continue without a network.
func (m *Manager) Connect(ctx context.Context) error {
	err := Retry(ctx, m.policy, m.sleep, func(attempt int) error {
		if m.link.Up() {
			return nil
		}
		m.log.Debug("waiting for network", "attempt", attempt, "max", m.policy.MaxAttempts)
		return errLinkDown
	})
	if err != nil {
		m.linkLost = true
		return fmt.Errorf("network: %w", err)
	}
	m.log.Info("network up")

	if err := m.session.Connect(); err != nil {
		m.sessionLost = true
		return fmt.Errorf("broker: %w", err)
	}
	m.log.Info("broker connected")
	return nil
}

// EnsureConnected checks the link, then the session, and makes at most one
// session connect attempt. It is safe to call every iteration.
func (m *Manager) EnsureConnected() {
	if !m.link.Up() {
		if !m.linkLost {
			m.log.Warn("network link lost")
			m.linkLost = true
		}
		return
	}
	if m.linkLost {
		m.log.Info("network link restored")
		m.linkLost = false
	}

	if m.session.IsConnected() {
		if m.sessionLost {
			m.log.Info("broker session restored")
			m.sessionLost = false
		}
		return
	}

	if !m.sessionLost {
		m.log.Warn("broker session lost, reconnecting")
		m.sessionLost = true
	}
	if err := m.session.Connect(); err != nil {
		m.log.Debug("broker reconnect failed", "err", err)
		return
	}
	m.log.Info("broker session restored")
	m.sessionLost = false
}

// IsConnected reports whether both link and session are up.
func (m *Manager) IsConnected() bool {
	return m.link.Up() && m.session.IsConnected()
}

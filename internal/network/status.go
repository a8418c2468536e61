// Package network tracks connectivity for offline-first milestone writes.
package network

import (
	"context"
	"net"
	"sync/atomic"
	"time"
)

const probeTimeout = 3 * time.Second

// Status reports whether the server currently has connectivity. With no
// probe address configured it always reports online; otherwise a background
// watch loop dials the address and flips the flag on transitions.
type Status struct {
	online    atomic.Bool
	probeAddr string
	interval  time.Duration
}

// NewStatus creates a connectivity tracker. probeAddr is a host:port to
// dial; empty disables probing.
func NewStatus(probeAddr string, interval time.Duration) *Status {
	s := &Status{probeAddr: probeAddr, interval: interval}
	s.online.Store(true)
	return s
}

// Online reports the last observed connectivity state.
func (s *Status) Online() bool {
	return s.online.Load()
}

// SetOnline overrides the connectivity state. Used by tests and manual
// failover.
func (s *Status) SetOnline(v bool) {
	s.online.Store(v)
}

// Watch probes connectivity until the context is canceled. It returns
// immediately when no probe address is configured.
func (s *Status) Watch(ctx context.Context) {
	if s.probeAddr == "" {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.online.Store(s.probe())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.online.Store(s.probe())
		}
	}
}

func (s *Status) probe() bool {
	conn, err := net.DialTimeout("tcp", s.probeAddr, probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Package health tracks whether the backing store is reachable.
//
// A single process-wide connectivity flag gates every data-touching route.
// The flag is written only by the monitor's lifecycle (initial connect outcome
// and the background ping loop) and read atomically by request handling.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/cityplay/activity-booking-api/internal/platform/logger"
)

// Pinger probes the backing store. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor owns the store-connectivity flag.
type Monitor struct {
	pinger   Pinger
	log      *logger.Logger
	interval time.Duration

	connected atomic.Bool
}

// NewMonitor creates a monitor probing the store every interval.
func NewMonitor(p Pinger, log *logger.Logger, interval time.Duration) *Monitor {
	return &Monitor{pinger: p, log: log, interval: interval}
}

// Connected reports the current connectivity flag.
func (m *Monitor) Connected() bool { return m.connected.Load() }

// SetConnected records the outcome of the initial connection attempt.
func (m *Monitor) SetConnected(ok bool) { m.connected.Store(ok) }

// Run probes the store until ctx is canceled, flipping the flag on
// failure/recovery. Connectivity loss never terminates the process; routes
// observe the flag and refuse work until the store comes back.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, m.interval)
		err := m.pinger.Ping(pingCtx)
		cancel()

		was := m.connected.Swap(err == nil)
		switch {
		case err != nil && was:
			m.log.Warn("store disconnected, waiting for it to come back", "error", err)
		case err == nil && !was:
			m.log.Info("store connection restored")
		}
	}
}

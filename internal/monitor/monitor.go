// Package monitor periodically refreshes the status of the bulbs shown in the widget.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/internal/errors"
)

// Entry is the widget's view of one bulb
type Entry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Reachable  bool      `json:"reachable"`
	VerifiedOn bool      `json:"verified_on"`
	Swatch     string    `json:"swatch,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// Monitor polls bulb status on an interval. It watches the widget bulbs, or every bulb
// when none are flagged for the widget.
type Monitor struct {
	logger     *slog.Logger
	controller *bulb.Controller
	interval   time.Duration

	mu      sync.RWMutex
	entries []Entry
}

// New creates a monitor polling every interval
func New(logger *slog.Logger, controller *bulb.Controller, interval time.Duration) *Monitor {
	return &Monitor{logger: logger, controller: controller, interval: interval}
}

// Run polls until ctx is done, starting with an immediate refresh
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info("monitor: started", "interval", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor: stopped")
			return
		case <-ticker.C:
			m.Refresh(ctx)
		}
	}
}

// Refresh queries every watched bulb concurrently and replaces the entry list.
// An unreachable bulb is recorded, not reported as a failure.
func (m *Monitor) Refresh(ctx context.Context) []Entry {
	targets := m.targets()
	entries := make([]Entry, len(targets))

	var wg sync.WaitGroup
	for i, b := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries[i] = m.check(ctx, b)
		}()
	}
	wg.Wait()

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
	return entries
}

// Entries returns the result of the last refresh
func (m *Monitor) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Entry(nil), m.entries...)
}

func (m *Monitor) targets() []bulb.Bulb {
	store := m.controller.Store()
	if widget := store.WidgetBulbs(); len(widget) > 0 {
		return widget
	}
	return store.List()
}

func (m *Monitor) check(ctx context.Context, b bulb.Bulb) Entry {
	entry := Entry{ID: b.ID, Name: b.Name, CheckedAt: time.Now()}
	if b.IP == "" {
		return entry
	}

	state, err := m.controller.Sync(ctx, b.ID)
	switch {
	case err == nil:
		entry.Reachable = state.Reachable
		entry.VerifiedOn = state.VerifiedOn()
		entry.Swatch = state.Swatch
	case errors.IsUnreachable(err):
		m.logger.Debug("monitor: bulb unreachable", "id", b.ID, "ip", b.IP)
	default:
		m.logger.Warn("monitor: status check failed", "id", b.ID, "error", err)
	}
	return entry
}

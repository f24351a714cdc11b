package bulb

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wizlightd/internal/config"
	"github.com/jmylchreest/wizlightd/internal/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func testConfig(t *testing.T, bulbs ...config.BulbConfig) *config.Config {
	t.Helper()
	cfg, err := config.Load("wizd.yaml", filepath.Join(t.TempDir(), "wizd.yaml"))
	require.NoError(t, err)
	cfg.Bulbs = bulbs
	return cfg
}

// recorder collects published events
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) last(t *testing.T, typ events.EventType, v any) {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == typ {
			require.NoError(t, r.events[i].Decode(v))
			return
		}
	}
	t.Fatalf("no %s event published", typ)
}

// fakeTransport answers getPilot with reply and records every payload it is given
type fakeTransport struct {
	mu    sync.Mutex
	sent  []string
	hosts []string
	reply []byte
	err   error
}

func (f *fakeTransport) Send(_ context.Context, host string, payload []byte, wait bool, _ time.Duration) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, string(payload))
	f.hosts = append(f.hosts, host)
	if f.err != nil {
		return nil, f.err
	}
	if !wait {
		return nil, nil
	}
	return f.reply, nil
}

func (f *fakeTransport) payloads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func (f *fakeTransport) setReply(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply = []byte(s)
}

package wiz

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentColor struct {
	host    string
	color   RGB8
	percent float64
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentColor
	err  error
}

func (f *fakeSender) SetColor(_ context.Context, host string, r, g, b int, percent float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentColor{host: host, color: RGB8{R: r, G: g, B: b}, percent: percent})
	return f.err
}

func (f *fakeSender) calls() []sentColor {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentColor(nil), f.sent...)
}

const testQuiet = 30 * time.Millisecond

func TestDispatcherCoalescesBurst(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, testLogger(), WithQuietPeriod(testQuiet))
	defer d.Stop()

	d.Schedule("desk", "10.0.0.5", RGB8{R: 255})
	d.Schedule("desk", "10.0.0.5", RGB8{G: 255})
	d.Schedule("desk", "10.0.0.5", RGB8{B: 255})

	pending, ok := d.Pending("desk")
	require.True(t, ok)
	assert.Equal(t, RGB8{B: 255}, pending)

	require.Eventually(t, func() bool { return len(sender.calls()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testQuiet)

	calls := sender.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, sentColor{host: "10.0.0.5", color: RGB8{B: 255}, percent: DefaultBrightness}, calls[0])

	_, ok = d.Pending("desk")
	assert.False(t, ok)
}

func TestDispatcherTargetsAreIndependent(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, testLogger(), WithQuietPeriod(testQuiet))
	defer d.Stop()

	d.Schedule("a", "10.0.0.1", RGB8{R: 1})
	d.Schedule("b", "10.0.0.2", RGB8{R: 2})

	require.Eventually(t, func() bool { return len(sender.calls()) == 2 }, time.Second, 5*time.Millisecond)
	hosts := []string{sender.calls()[0].host, sender.calls()[1].host}
	assert.ElementsMatch(t, []string{"10.0.0.1", "10.0.0.2"}, hosts)
}

func TestDispatcherCancel(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, testLogger(), WithQuietPeriod(testQuiet))
	defer d.Stop()

	d.Schedule("desk", "10.0.0.5", RGB8{R: 255})
	assert.True(t, d.Cancel("desk"))
	assert.False(t, d.Cancel("desk"))

	time.Sleep(3 * testQuiet)
	assert.Empty(t, sender.calls())
}

func TestDispatcherReadsBrightnessAtFireTime(t *testing.T) {
	sender := &fakeSender{}
	var level atomic.Int64
	level.Store(20)

	d := NewDispatcher(sender, testLogger(),
		WithQuietPeriod(testQuiet),
		WithBrightness(func(string) float64 { return float64(level.Load()) }),
	)
	defer d.Stop()

	d.Schedule("desk", "10.0.0.5", RGB8{R: 10, G: 20, B: 30})
	level.Store(75)

	require.Eventually(t, func() bool { return len(sender.calls()) == 1 }, time.Second, 5*time.Millisecond)
	got := sender.calls()[0]
	assert.Equal(t, RGB8{R: 10, G: 20, B: 30}, got.color)
	assert.Equal(t, 75.0, got.percent)
}

func TestDispatcherClampsScheduledColor(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, testLogger(), WithQuietPeriod(testQuiet))
	defer d.Stop()

	d.Schedule("desk", "10.0.0.5", RGB8{R: 400, G: -3, B: 12})
	pending, ok := d.Pending("desk")
	require.True(t, ok)
	assert.Equal(t, RGB8{R: 255, G: 0, B: 12}, pending)
}

func TestDispatcherOnFire(t *testing.T) {
	sender := &fakeSender{err: assert.AnError}
	fired := make(chan error, 1)
	d := NewDispatcher(sender, testLogger(),
		WithQuietPeriod(testQuiet),
		WithOnFire(func(target string, color RGB8, percent float64, err error) {
			assert.Equal(t, "desk", target)
			assert.Equal(t, RGB8{G: 9}, color)
			fired <- err
		}),
	)
	defer d.Stop()

	d.Schedule("desk", "10.0.0.5", RGB8{G: 9})
	select {
	case err := <-fired:
		assert.ErrorIs(t, err, assert.AnError)
	case <-time.After(time.Second):
		t.Fatal("command never fired")
	}
}

func TestDispatcherStop(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, testLogger(), WithQuietPeriod(testQuiet))

	d.Schedule("desk", "10.0.0.5", RGB8{R: 255})
	d.Stop()
	d.Schedule("desk", "10.0.0.5", RGB8{G: 255})

	time.Sleep(3 * testQuiet)
	assert.Empty(t, sender.calls())
	_, ok := d.Pending("desk")
	assert.False(t, ok)
}

func TestColorSyncSuppressesProgrammaticChanges(t *testing.T) {
	sender := &fakeSender{}
	d := NewDispatcher(sender, testLogger(), WithQuietPeriod(testQuiet))
	defer d.Stop()
	cs := NewColorSync(d)
	assert.Same(t, d, cs.Dispatcher())

	cs.Programmatic("desk", func() {
		// A UI observer reacting to the mirrored state
		assert.False(t, cs.UserChanged("desk", "10.0.0.5", RGB8{R: 1}))
		// Other targets are unaffected
		assert.True(t, cs.UserChanged("hall", "10.0.0.6", RGB8{R: 2}))
	})
	assert.True(t, cs.UserChanged("desk", "10.0.0.5", RGB8{R: 3}))

	require.Eventually(t, func() bool { return len(sender.calls()) == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testQuiet)
	calls := sender.calls()
	require.Len(t, calls, 2)
	assert.ElementsMatch(t, []RGB8{{R: 2}, {R: 3}}, []RGB8{calls[0].color, calls[1].color})
}

func TestColorSyncNested(t *testing.T) {
	d := NewDispatcher(&fakeSender{}, testLogger(), WithQuietPeriod(testQuiet))
	defer d.Stop()
	cs := NewColorSync(d)

	cs.Programmatic("desk", func() {
		cs.Programmatic("desk", func() {})
		assert.False(t, cs.UserChanged("desk", "10.0.0.5", RGB8{R: 1}))
	})
	assert.True(t, cs.UserChanged("desk", "10.0.0.5", RGB8{R: 1}))
}

package wiz

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ColorSender is the part of Client the dispatcher needs
type ColorSender interface {
	SetColor(ctx context.Context, host string, r, g, b int, percent float64) error
}

// BrightnessFunc returns the brightness to send for target at the moment a command fires
type BrightnessFunc func(target string) float64

// FireFunc is called after a debounced command has been sent (or failed to send)
type FireFunc func(target string, color RGB8, percent float64, err error)

// Dispatcher coalesces bursts of color changes into a single SetColor per target.
// Each target has at most one pending command; scheduling a new one supersedes it.
type Dispatcher struct {
	sender     ColorSender
	brightness BrightnessFunc
	quiet      time.Duration
	onFire     FireFunc
	logger     *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	seq   uint64
	slots map[string]*pendingColor
}

type pendingColor struct {
	gen   uint64
	timer *time.Timer
	color RGB8
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithQuietPeriod sets how long a target must see no new color before the last one is sent
func WithQuietPeriod(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.quiet = d
		}
	}
}

// WithBrightness sets the source of the brightness sent alongside the color
func WithBrightness(fn BrightnessFunc) DispatcherOption {
	return func(disp *Dispatcher) { disp.brightness = fn }
}

// WithOnFire registers a callback run after every fired command
func WithOnFire(fn FireFunc) DispatcherOption {
	return func(disp *Dispatcher) { disp.onFire = fn }
}

// NewDispatcher creates a dispatcher sending through sender. Without WithBrightness
// every command is sent at full brightness.
func NewDispatcher(sender ColorSender, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		sender: sender,
		quiet:  DefaultQuietPeriod,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		slots:  make(map[string]*pendingColor),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.brightness == nil {
		d.brightness = func(string) float64 { return DefaultBrightness }
	}
	return d
}

// Schedule replaces any pending color for target with color and restarts the quiet period.
// The color is captured now; the brightness is read when the command fires.
func (d *Dispatcher) Schedule(target, host string, color RGB8) {
	color = color.Clamp()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx.Err() != nil {
		return
	}
	if prev, ok := d.slots[target]; ok {
		prev.timer.Stop()
	}
	d.seq++
	gen := d.seq
	d.slots[target] = &pendingColor{
		gen:   gen,
		color: color,
		timer: time.AfterFunc(d.quiet, func() { d.fire(target, host, gen) }),
	}
	d.logger.Debug("wiz: color scheduled", "target", target, "color", color.Hex(), "quiet", d.quiet)
}

// Cancel drops the pending color for target. It reports whether one was pending.
func (d *Dispatcher) Cancel(target string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.slots[target]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(d.slots, target)
	d.logger.Debug("wiz: color cancelled", "target", target)
	return true
}

// Pending returns the color waiting to be sent for target, if any
func (d *Dispatcher) Pending(target string) (RGB8, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.slots[target]
	if !ok {
		return RGB8{}, false
	}
	return p.color, true
}

// Stop cancels every pending command. Later calls to Schedule are ignored.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancel()
	for target, p := range d.slots {
		p.timer.Stop()
		delete(d.slots, target)
	}
}

func (d *Dispatcher) fire(target, host string, gen uint64) {
	d.mu.Lock()
	p, ok := d.slots[target]
	// A superseded or cancelled command no longer owns the slot
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.slots, target)
	color := p.color
	d.mu.Unlock()

	percent := d.brightness(target)
	err := d.sender.SetColor(d.ctx, host, color.R, color.G, color.B, percent)
	if err != nil {
		d.logger.Warn("wiz: debounced color failed", "target", target, "host", host, "error", err)
	} else {
		d.logger.Debug("wiz: debounced color sent", "target", target, "host", host, "color", color.Hex(), "brightness", percent)
	}
	if d.onFire != nil {
		d.onFire(target, color, percent, err)
	}
}

// ColorSync separates color changes made by a user from those made by the program while
// mirroring a bulb's state. Only user changes reach the dispatcher.
type ColorSync struct {
	dispatcher *Dispatcher

	mu         sync.Mutex
	suppressed map[string]int
}

// NewColorSync wraps a dispatcher
func NewColorSync(d *Dispatcher) *ColorSync {
	return &ColorSync{dispatcher: d, suppressed: make(map[string]int)}
}

// Programmatic runs fn with color changes for target suppressed. The suppression is
// lifted only after fn returns, so every observer fn notifies has already run.
func (s *ColorSync) Programmatic(target string, fn func()) {
	s.mu.Lock()
	s.suppressed[target]++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.suppressed[target]--; s.suppressed[target] <= 0 {
			delete(s.suppressed, target)
		}
		s.mu.Unlock()
	}()
	fn()
}

// UserChanged schedules color for target unless a programmatic update for that target is
// in progress. It reports whether the change was scheduled.
func (s *ColorSync) UserChanged(target, host string, color RGB8) bool {
	s.mu.Lock()
	suppressed := s.suppressed[target] > 0
	s.mu.Unlock()

	if suppressed {
		return false
	}
	s.dispatcher.Schedule(target, host, color)
	return true
}

// Dispatcher returns the wrapped dispatcher
func (s *ColorSync) Dispatcher() *Dispatcher {
	return s.dispatcher
}

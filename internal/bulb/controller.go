package bulb

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/wizlightd/internal/errors"
	"github.com/jmylchreest/wizlightd/internal/events"
	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

// State is what the daemon last knew about a bulb. Verified is set when the values came
// from a status reply rather than from commands the daemon sent.
type State struct {
	Reachable bool             `json:"reachable"`
	Verified  bool             `json:"verified"`
	Status    wiz.DeviceStatus `json:"status"`
	Swatch    string           `json:"swatch"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// VerifiedOn reports whether a status reply confirmed the bulb is on
func (s State) VerifiedOn() bool {
	return s.Reachable && s.Verified && s.Status.On
}

// Controller resolves bulb ids to addresses and sends commands through the wiz client
type Controller struct {
	logger *slog.Logger
	store  *Store
	client *wiz.Client
	bus    events.Publisher
	colors *wiz.ColorSync

	mu    sync.RWMutex
	state map[string]State
}

// NewController creates a controller whose color changes are debounced by quiet
func NewController(logger *slog.Logger, store *Store, client *wiz.Client, bus events.Publisher, quiet time.Duration) *Controller {
	c := &Controller{
		logger: logger,
		store:  store,
		client: client,
		bus:    bus,
		state:  make(map[string]State),
	}
	d := wiz.NewDispatcher(client, logger,
		wiz.WithQuietPeriod(quiet),
		wiz.WithBrightness(c.brightnessFor),
		wiz.WithOnFire(c.colorFired),
	)
	c.colors = wiz.NewColorSync(d)
	return c
}

// Store returns the bulb list the controller resolves against
func (c *Controller) Store() *Store {
	return c.store
}

// Close drops every pending color change
func (c *Controller) Close() {
	c.colors.Dispatcher().Stop()
}

func (c *Controller) resolve(id string) (Bulb, error) {
	b, err := c.store.Get(id)
	if err != nil {
		return Bulb{}, err
	}
	if b.IP == "" {
		return Bulb{}, errors.InvalidInputf("bulb %q has no ip address", b.Name)
	}
	return b, nil
}

// SetPower switches a bulb on or off
func (c *Controller) SetPower(ctx context.Context, id string, on bool) error {
	b, err := c.resolve(id)
	if err != nil {
		return err
	}
	if err := c.client.SetPower(ctx, b.IP, on); err != nil {
		return err
	}
	c.apply(id, func(s *State) { s.Status.On = on })
	return nil
}

// TurnOn switches a bulb on
func (c *Controller) TurnOn(ctx context.Context, id string) error {
	return c.SetPower(ctx, id, true)
}

// TurnOff switches a bulb off
func (c *Controller) TurnOff(ctx context.Context, id string) error {
	return c.SetPower(ctx, id, false)
}

// SetBrightness dims a bulb, switching it on
func (c *Controller) SetBrightness(ctx context.Context, id string, percent float64) error {
	b, err := c.resolve(id)
	if err != nil {
		return err
	}
	if err := c.client.SetBrightness(ctx, b.IP, percent); err != nil {
		return err
	}
	c.apply(id, func(s *State) {
		s.Status.On = true
		s.Status.Brightness = wiz.ClampBrightness(percent)
	})
	return nil
}

// SetTemperature sets a bulb's white temperature
func (c *Controller) SetTemperature(ctx context.Context, id string, kelvin float64) error {
	b, err := c.resolve(id)
	if err != nil {
		return err
	}
	if err := c.client.SetTemperature(ctx, b.IP, kelvin); err != nil {
		return err
	}
	c.apply(id, func(s *State) { s.Status.Temperature = wiz.ClampTemperature(kelvin) })
	return nil
}

// SetColor sends color immediately at the bulb's last known brightness
func (c *Controller) SetColor(ctx context.Context, id string, color wiz.RGB8) error {
	b, err := c.resolve(id)
	if err != nil {
		return err
	}
	color = color.Clamp()
	if err := c.client.SetColor(ctx, b.IP, color.R, color.G, color.B, c.brightnessFor(id)); err != nil {
		return err
	}
	c.apply(id, func(s *State) { s.Swatch = color.Hex() })
	return nil
}

// ScheduleColor queues a user color change for the bulb. Changes made while the bulb's
// state is being mirrored are dropped; the result reports whether the change was queued.
func (c *Controller) ScheduleColor(id string, color wiz.RGB8) (bool, error) {
	b, err := c.resolve(id)
	if err != nil {
		return false, err
	}
	return c.colors.UserChanged(id, b.IP, color), nil
}

// CancelColor drops a queued color change. It reports whether one was queued.
func (c *Controller) CancelColor(id string) bool {
	return c.colors.Dispatcher().Cancel(id)
}

// PendingColor returns the queued color for a bulb, if any
func (c *Controller) PendingColor(id string) (wiz.RGB8, bool) {
	return c.colors.Dispatcher().Pending(id)
}

// Sync reads a bulb's status and records it. Observers notified of the new state cannot
// echo it back as a color change. An unreachable bulb is recorded as such and the
// returned error wraps errors.ErrUnreachable.
func (c *Controller) Sync(ctx context.Context, id string) (State, error) {
	b, err := c.resolve(id)
	if err != nil {
		return State{}, err
	}

	status, err := c.client.GetStatus(ctx, b.IP)
	var next State
	c.colors.Programmatic(id, func() {
		next = c.apply(id, func(s *State) {
			if err != nil {
				s.Reachable = false
				return
			}
			s.Reachable = true
			s.Verified = true
			s.Status = *status
			s.Swatch = Swatch(*status)
		})
	})
	return next, err
}

// State returns what is known about a bulb without talking to it
func (c *Controller) State(id string) (State, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.state[id]
	return s, ok
}

// Forget drops the recorded state and any queued color for a bulb
func (c *Controller) Forget(id string) {
	c.CancelColor(id)
	c.mu.Lock()
	delete(c.state, id)
	c.mu.Unlock()
}

// Discover runs a discovery window. With assign set, new addresses are added to the bulb
// list and the list is saved when anything was added.
func (c *Controller) Discover(ctx context.Context, timeout time.Duration, assign bool) ([]string, int, error) {
	ips := c.client.Discover(ctx, timeout)
	added := 0
	if assign && len(ips) > 0 {
		added = c.store.AssignDiscovered(ips)
	}
	c.bus.Publish(events.NewEvent(events.BulbDiscovered, events.DiscoveredPayload{IPs: ips, Added: added}))
	if added > 0 {
		if err := c.store.Save(); err != nil {
			return ips, added, err
		}
	}
	return ips, added, nil
}

// apply mutates the recorded state for id and publishes it when it changed
func (c *Controller) apply(id string, fn func(*State)) State {
	c.mu.Lock()
	prev, ok := c.state[id]
	if !ok {
		prev = State{Status: wiz.DeviceStatus{Brightness: wiz.DefaultBrightness, Temperature: wiz.DefaultTemperature}}
	}
	next := prev
	fn(&next)
	changed := !ok || next.Reachable != prev.Reachable || next.Status != prev.Status || next.Swatch != prev.Swatch
	next.UpdatedAt = time.Now()
	c.state[id] = next
	c.mu.Unlock()

	if changed {
		c.bus.Publish(events.NewEvent(events.BulbStateChanged, events.StatePayload{
			ID:          id,
			Reachable:   next.Reachable,
			On:          next.Status.On,
			Brightness:  next.Status.Brightness,
			Temperature: next.Status.Temperature,
			Swatch:      next.Swatch,
		}))
	}
	return next
}

func (c *Controller) brightnessFor(id string) float64 {
	if s, ok := c.State(id); ok {
		return float64(s.Status.Brightness)
	}
	return wiz.DefaultBrightness
}

func (c *Controller) colorFired(id string, color wiz.RGB8, _ float64, err error) {
	if err != nil {
		return
	}
	c.apply(id, func(s *State) { s.Swatch = color.Hex() })
}

// Swatch renders the white setting of a bulb as a display color; off bulbs are black
func Swatch(s wiz.DeviceStatus) string {
	brightness := float64(s.Brightness)
	if !s.On {
		brightness = 0
	}
	return wiz.KelvinToRGB(float64(s.Temperature), brightness).Hex()
}

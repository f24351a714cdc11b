package wiz

import (
	"context"
	"log/slog"
	"time"

	"github.com/jmylchreest/wizlightd/internal/errors"
)

// Observer receives the outcome of every client call. It is used for metrics.
type Observer interface {
	ObserveCall(op string, ok bool, elapsed time.Duration)
}

// Client is the entry point for controlling bulbs. It holds no per-bulb state and is
// safe for concurrent use.
type Client struct {
	transport   Transport
	timeout     time.Duration
	acknowledge bool
	logger      *slog.Logger
	observer    Observer
	discoverer  *Discoverer
}

// Option configures a Client
type Option func(*Client)

// WithTransport replaces the UDP transport
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithTimeout sets the reply timeout for unicast calls
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithAcknowledge makes control commands wait for the bulb's reply and report
// a missing reply as unreachable. By default control commands are fire-and-forget.
func WithAcknowledge(ack bool) Option {
	return func(c *Client) { c.acknowledge = ack }
}

// WithObserver attaches a call observer
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithDiscoverer replaces the broadcast discoverer
func WithDiscoverer(d *Discoverer) Option {
	return func(c *Client) { c.discoverer = d }
}

// NewClient creates a client. Without options it talks UDP on DefaultPort with DefaultTimeout.
func NewClient(logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		timeout: DefaultTimeout,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewUDPTransport(DefaultPort, logger)
	}
	if c.discoverer == nil {
		c.discoverer = NewDiscoverer(logger)
	}
	return c
}

// TurnOn switches the bulb at host on
func (c *Client) TurnOn(ctx context.Context, host string) error {
	return c.command(ctx, "on", host, PowerOn{})
}

// TurnOff switches the bulb at host off
func (c *Client) TurnOff(ctx context.Context, host string) error {
	return c.command(ctx, "off", host, PowerOff{})
}

// SetPower switches the bulb on or off
func (c *Client) SetPower(ctx context.Context, host string, on bool) error {
	if on {
		return c.TurnOn(ctx, host)
	}
	return c.TurnOff(ctx, host)
}

// SetBrightness sets the dimming level. The bulb is switched on as part of the same request.
func (c *Client) SetBrightness(ctx context.Context, host string, percent float64) error {
	return c.command(ctx, "brightness", host, SetBrightness{Percent: percent})
}

// SetTemperature sets the white color temperature in Kelvin
func (c *Client) SetTemperature(ctx context.Context, host string, kelvin float64) error {
	return c.command(ctx, "temperature", host, SetTemperature{Kelvin: kelvin})
}

// SetColor sets an explicit RGB color at the given dimming level
func (c *Client) SetColor(ctx context.Context, host string, r, g, b int, percent float64) error {
	return c.command(ctx, "color", host, SetColor{Color: RGB8{R: r, G: g, B: b}, Percent: percent})
}

// Send delivers an arbitrary command
func (c *Client) Send(ctx context.Context, host string, cmd Command) error {
	return c.command(ctx, "command", host, cmd)
}

// GetStatus queries the bulb's pilot. A timeout, a socket failure and an undecodable
// reply all return an error wrapping errors.ErrUnreachable.
func (c *Client) GetStatus(ctx context.Context, host string) (*DeviceStatus, error) {
	start := time.Now()
	status, err := c.getStatus(ctx, host)
	c.observe("status", err == nil, start)
	if err != nil {
		c.logger.Debug("wiz: status unavailable", "host", host, "error", err)
		return nil, err
	}
	return status, nil
}

func (c *Client) getStatus(ctx context.Context, host string) (*DeviceStatus, error) {
	payload, err := Encode(QueryStatus{})
	if err != nil {
		return nil, errors.Internalf("wiz: encode getPilot: %v", err)
	}
	data, err := c.transport.Send(ctx, host, payload, true, c.timeout)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.Unreachablef("wiz: no reply from %s", host)
	}
	status, ok := DecodeStatus(data)
	if !ok {
		return nil, errors.Unreachablef("wiz: malformed reply from %s", host)
	}
	return &status, nil
}

// Discover broadcasts a status query and returns the sorted, deduplicated responder
// addresses collected within timeout. It never fails; a broadcast socket that cannot be
// opened yields an empty result.
func (c *Client) Discover(ctx context.Context, timeout time.Duration) []string {
	start := time.Now()
	found := c.discoverer.Discover(ctx, timeout)
	c.observe("discover", true, start)
	return found
}

func (c *Client) command(ctx context.Context, op, host string, cmd Command) error {
	start := time.Now()
	err := c.send(ctx, host, cmd)
	c.observe(op, err == nil, start)
	if err != nil {
		return errors.LogErrorAndReturn(c.logger, err, "wiz: command failed", "op", op, "host", host)
	}
	return nil
}

func (c *Client) send(ctx context.Context, host string, cmd Command) error {
	payload, err := Encode(cmd)
	if err != nil {
		return errors.Internalf("wiz: encode: %v", err)
	}
	reply, err := c.transport.Send(ctx, host, payload, c.acknowledge, c.timeout)
	if err != nil {
		return err
	}
	if c.acknowledge && reply == nil {
		return errors.Unreachablef("wiz: no acknowledgement from %s", host)
	}
	return nil
}

func (c *Client) observe(op string, ok bool, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveCall(op, ok, time.Since(start))
	}
}

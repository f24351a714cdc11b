package wiz

import (
	"cmp"
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/netip"
	"slices"
	"strconv"
	"time"
)

// defaultReadWait bounds each individual read inside the discovery window
const defaultReadWait = 250 * time.Millisecond

// Discoverer finds bulbs by broadcasting a getPilot request and collecting the
// addresses that answer within a fixed window.
type Discoverer struct {
	targets  []string
	readWait time.Duration
	logger   *slog.Logger
}

// DiscoverOption configures a Discoverer
type DiscoverOption func(*Discoverer)

// WithTargets replaces the broadcast destination with explicit host:port addresses
func WithTargets(addrs ...string) DiscoverOption {
	return func(d *Discoverer) {
		if len(addrs) > 0 {
			d.targets = addrs
		}
	}
}

// WithBroadcastPort sends the broadcast to port instead of DefaultPort
func WithBroadcastPort(port int) DiscoverOption {
	return func(d *Discoverer) {
		if port > 0 {
			d.targets = []string{net.JoinHostPort(BroadcastAddress, strconv.Itoa(port))}
		}
	}
}

// WithReadWait sets the per-read deadline used while collecting replies
func WithReadWait(wait time.Duration) DiscoverOption {
	return func(d *Discoverer) {
		if wait > 0 {
			d.readWait = wait
		}
	}
}

// NewDiscoverer creates a discoverer that broadcasts to 255.255.255.255:38899
func NewDiscoverer(logger *slog.Logger, opts ...DiscoverOption) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Discoverer{
		targets:  []string{net.JoinHostPort(BroadcastAddress, strconv.Itoa(DefaultPort))},
		readWait: defaultReadWait,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover runs one discovery window of length timeout (DefaultDiscoveryTimeout when zero)
// and returns the distinct responder IPs in sorted order. Discovery is advisory: any
// socket failure is logged and produces an empty result.
func (d *Discoverer) Discover(ctx context.Context, timeout time.Duration) []string {
	if timeout <= 0 {
		timeout = DefaultDiscoveryTimeout
	}
	found := []string{}

	// Go enables SO_BROADCAST on every UDP socket it creates
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		d.logger.Warn("wiz: discovery socket unavailable", "error", err)
		return found
	}
	defer conn.Close()

	payload, err := Encode(QueryStatus{})
	if err != nil {
		d.logger.Error("wiz: encode discovery request", "error", err)
		return found
	}

	sent := 0
	for _, target := range d.targets {
		addr, err := net.ResolveUDPAddr("udp4", target)
		if err != nil {
			d.logger.Warn("wiz: invalid discovery target", "target", target, "error", err)
			continue
		}
		if _, err := conn.WriteToUDP(payload, addr); err != nil {
			d.logger.Warn("wiz: discovery broadcast failed", "target", target, "error", err)
			continue
		}
		sent++
	}
	if sent == 0 {
		return found
	}

	deadline := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	seen := make(map[string]struct{})
	buf := make([]byte, maxDatagram)
	for ctx.Err() == nil {
		now := time.Now()
		if !now.Before(deadline) {
			break
		}
		readDeadline := now.Add(d.readWait)
		if readDeadline.After(deadline) {
			readDeadline = deadline
		}
		if err := conn.SetReadDeadline(readDeadline); err != nil {
			d.logger.Warn("wiz: discovery read deadline", "error", err)
			break
		}

		_, from, err := conn.ReadFromUDP(buf)
		if err != nil {
			var netErr net.Error
			if stderrors.As(err, &netErr) && netErr.Timeout() {
				// Quiet gap between replies; the outer deadline decides when to stop
				continue
			}
			d.logger.Warn("wiz: discovery read failed", "error", err)
			break
		}

		ip := from.IP.String()
		if _, ok := seen[ip]; !ok {
			d.logger.Debug("wiz: discovered bulb", "ip", ip)
			seen[ip] = struct{}{}
		}
	}

	for ip := range seen {
		found = append(found, ip)
	}
	SortAddresses(found)
	d.logger.Info("wiz: discovery finished", "found", len(found), "window", timeout)
	return found
}

// SortAddresses orders IP addresses numerically; anything that does not parse as an IP
// sorts after them in lexical order.
func SortAddresses(addrs []string) {
	slices.SortFunc(addrs, func(a, b string) int {
		ipA, errA := netip.ParseAddr(a)
		ipB, errB := netip.ParseAddr(b)
		switch {
		case errA == nil && errB == nil:
			return ipA.Compare(ipB)
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		default:
			return cmp.Compare(a, b)
		}
	})
}

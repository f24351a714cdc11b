package wiz

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/jmylchreest/wizlightd/internal/errors"
)

// Transport delivers one request datagram to a bulb and optionally waits for one reply.
// A read timeout is not an error: it is reported as a nil reply with a nil error.
type Transport interface {
	Send(ctx context.Context, host string, payload []byte, waitForReply bool, timeout time.Duration) ([]byte, error)
}

// UDPTransport opens a fresh UDP socket for every call and closes it before returning.
// Nothing is pooled, so concurrent calls never share a socket.
type UDPTransport struct {
	port   int
	logger *slog.Logger
	dialer net.Dialer
}

// NewUDPTransport creates a transport targeting the given port (DefaultPort when zero)
func NewUDPTransport(port int, logger *slog.Logger) *UDPTransport {
	if port <= 0 {
		port = DefaultPort
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UDPTransport{port: port, logger: logger}
}

// Port returns the destination port used for every call
func (t *UDPTransport) Port() int {
	return t.port
}

// Send writes payload to host and, when waitForReply is set, reads a single datagram
// bounded by timeout (DefaultTimeout when zero) and by ctx.
func (t *UDPTransport) Send(ctx context.Context, host string, payload []byte, waitForReply bool, timeout time.Duration) ([]byte, error) {
	if host == "" {
		return nil, errors.InvalidInputf("wiz: empty host")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	addr := net.JoinHostPort(host, strconv.Itoa(t.port))
	conn, err := t.dialer.DialContext(ctx, "udp4", addr)
	if err != nil {
		return nil, errors.Unreachablef("wiz: open socket to %s: %w", addr, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, errors.Unreachablef("wiz: set deadline on %s: %w", addr, err)
	}

	// Cancelling ctx expires the deadline so a blocked read returns immediately
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	t.logger.Debug("wiz: send", "addr", addr, "payload", string(payload), "wait", waitForReply)
	if _, err := conn.Write(payload); err != nil {
		return nil, errors.Unreachablef("wiz: write to %s: %w", addr, err)
	}
	if !waitForReply {
		return nil, nil
	}

	buf := make([]byte, maxDatagram)
	n, err := conn.Read(buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Unreachablef("wiz: read from %s: %w", addr, ctx.Err())
		}
		var netErr net.Error
		if stderrors.As(err, &netErr) && netErr.Timeout() {
			t.logger.Debug("wiz: no reply", "addr", addr, "timeout", timeout)
			return nil, nil
		}
		return nil, errors.Unreachablef("wiz: read from %s: %w", addr, err)
	}

	t.logger.Debug("wiz: reply", "addr", addr, "reply", string(buf[:n]))
	return buf[:n], nil
}

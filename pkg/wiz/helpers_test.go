package wiz

import (
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// fakeBulb is a loopback UDP listener standing in for a bulb
type fakeBulb struct {
	conn *net.UDPConn

	mu       sync.Mutex
	received []string
	replies  int
}

// startFakeBulb listens on ip and answers each datagram with the replies returned by respond
func startFakeBulb(t *testing.T, ip string, respond func(req []byte) [][]byte) *fakeBulb {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.ParseIP(ip), Port: 0})
	if err != nil {
		t.Skipf("cannot bind %s: %v", ip, err)
	}
	b := &fakeBulb{conn: conn}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 2048)
		for {
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			req := append([]byte(nil), buf[:n]...)
			b.mu.Lock()
			b.received = append(b.received, string(req))
			b.mu.Unlock()
			if respond == nil {
				continue
			}
			for _, r := range respond(req) {
				if _, err := conn.WriteToUDP(r, from); err == nil {
					b.mu.Lock()
					b.replies++
					b.mu.Unlock()
				}
			}
		}
	}()
	return b
}

func (b *fakeBulb) port() int {
	return b.conn.LocalAddr().(*net.UDPAddr).Port
}

func (b *fakeBulb) addr() string {
	return b.conn.LocalAddr().String()
}

func (b *fakeBulb) requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.received...)
}

func replyWith(s string) func([]byte) [][]byte {
	return func([]byte) [][]byte { return [][]byte{[]byte(s)} }
}

func requireRequests(t *testing.T, b *fakeBulb, n int) []string {
	t.Helper()
	require.Eventually(t, func() bool { return len(b.requests()) >= n }, time.Second, 5*time.Millisecond)
	return b.requests()
}

package bulb

import (
	"log/slog"

	"github.com/jmylchreest/wizlightd/internal/config"
	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

// NewClient builds a wiz client from the protocol and discovery settings. extra options
// are applied last.
func NewClient(logger *slog.Logger, cfg *config.Config, extra ...wiz.Option) *wiz.Client {
	port := cfg.Protocol.Port
	opts := []wiz.Option{
		wiz.WithTransport(wiz.NewUDPTransport(port, logger)),
		wiz.WithTimeout(cfg.Protocol.Timeout()),
		wiz.WithAcknowledge(cfg.Protocol.Acknowledge),
		wiz.WithDiscoverer(wiz.NewDiscoverer(logger, wiz.WithBroadcastPort(port))),
	}
	return wiz.NewClient(logger, append(opts, extra...)...)
}

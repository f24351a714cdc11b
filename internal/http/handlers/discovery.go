package handlers

import (
	"context"
	"time"

	"github.com/jmylchreest/wizlightd/internal/bulb"
)

// DiscoverInput is the input for running a discovery window.
type DiscoverInput struct {
	Body struct {
		Assign  bool `json:"assign,omitempty" doc:"Add responders that are not yet configured to the bulb list"`
		Timeout int  `json:"timeout_ms,omitempty" doc:"Collection window in milliseconds; the configured default when zero" minimum:"0" maximum:"10000"`
	}
}

// DiscoverOutput lists the responders found.
type DiscoverOutput struct {
	Body struct {
		IPs   []string `json:"ips" doc:"Distinct responder addresses in sorted order"`
		Added int      `json:"added" doc:"Number of bulbs added to the list"`
	}
}

// DiscoveryHandler implements the discovery endpoint.
type DiscoveryHandler struct {
	Controller     *bulb.Controller
	DefaultTimeout time.Duration
}

// Discover broadcasts a status query and collects the answers. It never fails on network
// problems; a broadcast that cannot be sent yields an empty list.
func (h *DiscoveryHandler) Discover(ctx context.Context, input *DiscoverInput) (*DiscoverOutput, error) {
	timeout := h.DefaultTimeout
	if input.Body.Timeout > 0 {
		timeout = time.Duration(input.Body.Timeout) * time.Millisecond
	}

	ips, added, err := h.Controller.Discover(ctx, timeout, input.Body.Assign)
	if err != nil {
		return nil, toHumaError(err)
	}

	out := &DiscoverOutput{}
	out.Body.IPs = ips
	out.Body.Added = added
	return out, nil
}

// Ensure DiscoveryHandler implements the interface at compile time.
var _ DiscoveryHandlers = (*DiscoveryHandler)(nil)

// DiscoveryHandlers defines the interface for discovery operations.
type DiscoveryHandlers interface {
	Discover(ctx context.Context, input *DiscoverInput) (*DiscoverOutput, error)
}

package handlers

import (
	"context"

	"github.com/jmylchreest/wizlightd/internal/monitor"
)

// WidgetInput is the input for reading the widget view.
type WidgetInput struct {
	Refresh bool `query:"refresh" doc:"Query the bulbs now instead of returning the last poll"`
}

// WidgetOutput lists the watched bulbs.
type WidgetOutput struct {
	Body []monitor.Entry
}

// WidgetSource is the part of the status monitor the widget endpoint reads.
type WidgetSource interface {
	Entries() []monitor.Entry
	Refresh(ctx context.Context) []monitor.Entry
}

// WidgetHandler serves the monitor's view of the widget bulbs.
type WidgetHandler struct {
	Monitor WidgetSource
}

// GetWidget returns reachability and verified power for each watched bulb.
func (h *WidgetHandler) GetWidget(ctx context.Context, input *WidgetInput) (*WidgetOutput, error) {
	entries := h.Monitor.Entries()
	if input.Refresh {
		entries = h.Monitor.Refresh(ctx)
	}
	if entries == nil {
		entries = []monitor.Entry{}
	}
	return &WidgetOutput{Body: entries}, nil
}

// Ensure WidgetHandler implements the interface at compile time.
var _ WidgetHandlers = (*WidgetHandler)(nil)

// WidgetHandlers defines the interface for the widget view.
type WidgetHandlers interface {
	GetWidget(ctx context.Context, input *WidgetInput) (*WidgetOutput, error)
}

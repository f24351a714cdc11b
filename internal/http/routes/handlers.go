package routes

import (
	"context"

	"github.com/jmylchreest/wizlightd/internal/http/handlers"
)

// Handlers aggregates all handler interfaces for route registration.
// For the main server, pass real handler implementations.
// For OpenAPI generation, pass stub implementations.
type Handlers struct {
	Version   func(ctx context.Context, input *handlers.VersionInput) (*handlers.VersionOutput, error)
	Bulb      handlers.BulbHandlers
	Discovery handlers.DiscoveryHandlers
	Widget    handlers.WidgetHandlers
	Logging   handlers.LoggingHandlers
}

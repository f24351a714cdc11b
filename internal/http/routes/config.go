// Package routes provides shared route registration for the wizd HTTP API.
// Both the main server and the OpenAPI generator use the same route definitions,
// ensuring the published document always matches the implementation.
package routes

import (
	"github.com/danielgtaylor/huma/v2"
)

// NewHumaConfig creates the shared Huma configuration for the API.
func NewHumaConfig(version, baseURL string) huma.Config {
	cfg := huma.DefaultConfig("wizd API", version)
	cfg.Info.Description = "REST API for controlling WiZ bulbs on the local network via the wizd daemon."

	// Disable $schema field in responses
	cfg.CreateHooks = nil

	if baseURL != "" {
		cfg.Servers = []*huma.Server{
			{URL: baseURL, Description: "API Server"},
		}
	}

	cfg.Tags = []*huma.Tag{
		{Name: "Bulbs", Description: "Bulb list management and control"},
		{Name: "Discovery", Description: "Broadcast discovery of bulbs on the local network"},
		{Name: "Color", Description: "Color model helpers"},
		{Name: "Logging", Description: "Runtime log level management"},
	}

	return cfg
}

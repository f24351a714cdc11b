package routes

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/wizlightd/internal/http/handlers"
	"github.com/jmylchreest/wizlightd/internal/http/mw"
)

// Register registers all API routes with the given Huma API instance.
// Pass real handler implementations for the main server, or stub implementations
// for OpenAPI generation.
func Register(api huma.API, h *Handlers) {
	// --- Health ---
	mw.Get(api, "/api/v1/health", handlers.HealthCheck,
		mw.WithTags("Health"),
		mw.WithSummary("Health check"),
		mw.WithDescription("Returns service health status."),
		mw.WithOperationID("healthCheck"))

	mw.HiddenGet(api, "/healthz", handlers.HealthCheck)

	// --- Version ---
	mw.Get(api, "/api/v1/version", h.Version,
		mw.WithTags("Version"),
		mw.WithSummary("Daemon version"),
		mw.WithDescription("Returns the running daemon's version, commit, and build date."),
		mw.WithOperationID("getVersion"))

	// --- Bulbs ---
	mw.Get(api, "/api/v1/bulbs", h.Bulb.ListBulbs,
		mw.WithTags("Bulbs"),
		mw.WithSummary("List all bulbs"),
		mw.WithDescription("Returns the configured bulbs in display order."),
		mw.WithOperationID("listBulbs"))

	mw.Post(api, "/api/v1/bulbs", h.Bulb.CreateBulb,
		mw.WithTags("Bulbs"),
		mw.WithSummary("Add a bulb"),
		mw.WithOperationID("createBulb"),
		mw.WithDefaultStatus(http.StatusCreated))

	mw.Get(api, "/api/v1/bulbs/{id}", h.Bulb.GetBulb,
		mw.WithTags("Bulbs"),
		mw.WithSummary("Get a bulb"),
		mw.WithOperationID("getBulb"))

	mw.Put(api, "/api/v1/bulbs/{id}", h.Bulb.UpdateBulb,
		mw.WithTags("Bulbs"),
		mw.WithSummary("Update a bulb"),
		mw.WithDescription("Change the name, address or widget visibility of a bulb. Omitted fields are left unchanged."),
		mw.WithOperationID("updateBulb"))

	mw.Delete(api, "/api/v1/bulbs/{id}", h.Bulb.DeleteBulb,
		mw.WithTags("Bulbs"),
		mw.WithSummary("Delete a bulb"),
		mw.WithOperationID("deleteBulb"),
		mw.WithDefaultStatus(http.StatusNoContent))

	mw.Get(api, "/api/v1/bulbs/{id}/status", h.Bulb.GetBulbStatus,
		mw.WithTags("Bulbs"),
		mw.WithSummary("Query bulb status"),
		mw.WithDescription("Queries the bulb over the network and returns its power, brightness and temperature with a display swatch. Returns 503 when the bulb does not answer."),
		mw.WithOperationID("getBulbStatus"),
		mw.WithErrors(http.StatusServiceUnavailable))

	mw.Post(api, "/api/v1/bulbs/{id}/state", h.Bulb.SetBulbState,
		mw.WithTags("Bulbs"),
		mw.WithSummary("Set bulb state"),
		mw.WithDescription("Set one or more of on, brightness and temperature. Values outside the supported ranges are clamped."),
		mw.WithOperationID("setBulbState"))

	mw.Put(api, "/api/v1/bulbs/{id}/color", h.Bulb.SetBulbColor,
		mw.WithTags("Bulbs"),
		mw.WithSummary("Queue a bulb color"),
		mw.WithDescription("Queues an RGB color. Rapid changes are coalesced and only the last one is sent once the bulb has been quiet for the debounce period."),
		mw.WithOperationID("setBulbColor"),
		mw.WithDefaultStatus(http.StatusAccepted))

	mw.Delete(api, "/api/v1/bulbs/{id}/color", h.Bulb.CancelBulbColor,
		mw.WithTags("Bulbs"),
		mw.WithSummary("Cancel a queued color"),
		mw.WithOperationID("cancelBulbColor"))

	// --- Discovery ---
	mw.Post(api, "/api/v1/discover", h.Discovery.Discover,
		mw.WithTags("Discovery"),
		mw.WithSummary("Discover bulbs"),
		mw.WithDescription("Broadcasts a status query and returns every address that answered within the window. With assign set, new addresses are added to the bulb list."),
		mw.WithOperationID("discoverBulbs"))

	// --- Widget ---
	mw.Get(api, "/api/v1/widget", h.Widget.GetWidget,
		mw.WithTags("Bulbs"),
		mw.WithSummary("Widget view"),
		mw.WithDescription("Returns reachability and verified power for the bulbs shown in the status widget, or for every bulb when none are flagged."),
		mw.WithOperationID("getWidget"))

	// --- Color ---
	mw.Get(api, "/api/v1/color/kelvin", handlers.KelvinPreview,
		mw.WithTags("Color"),
		mw.WithSummary("Preview a white temperature"),
		mw.WithDescription("Approximates the display color of a white temperature at a given brightness."),
		mw.WithOperationID("kelvinPreview"))

	// --- Logging ---
	mw.Get(api, "/api/v1/logging/level", h.Logging.GetLevel,
		mw.WithTags("Logging"),
		mw.WithSummary("Get global log level"),
		mw.WithOperationID("getLogLevel"))

	mw.Put(api, "/api/v1/logging/level", h.Logging.SetLevel,
		mw.WithTags("Logging"),
		mw.WithSummary("Set global log level"),
		mw.WithDescription("Changes the global log level at runtime. Valid values: debug, info, warn, error."),
		mw.WithOperationID("setLogLevel"))
}

// Package handlers provides typed Huma request/response structs and handler
// implementations for the wizd HTTP API.
package handlers

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/internal/errors"
	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

// --- Bulb types ---

// BulbResponse is the API representation of a configured bulb.
type BulbResponse struct {
	ID           string `json:"id" doc:"Unique bulb identifier (UUID)"`
	Name         string `json:"name" doc:"Display name of the bulb"`
	IP           string `json:"ip" doc:"IPv4 address of the bulb, empty until set"`
	ShowInWidget bool   `json:"show_in_widget" doc:"Whether the status widget shows this bulb"`
}

// BulbFromInternal converts a bulb.Bulb to a BulbResponse.
func BulbFromInternal(b bulb.Bulb) BulbResponse {
	return BulbResponse{ID: b.ID, Name: b.Name, IP: b.IP, ShowInWidget: b.ShowInWidget}
}

// BulbsFromInternal converts a bulb list, never returning nil.
func BulbsFromInternal(bulbs []bulb.Bulb) []BulbResponse {
	result := make([]BulbResponse, len(bulbs))
	for i, b := range bulbs {
		result[i] = BulbFromInternal(b)
	}
	return result
}

// StateResponse is a bulb's live status plus a display swatch of its white setting.
type StateResponse struct {
	ID          string    `json:"id" doc:"Bulb identifier"`
	Reachable   bool      `json:"reachable" doc:"Whether the bulb answered"`
	On          bool      `json:"on" doc:"Reported power state"`
	Brightness  int       `json:"brightness" doc:"Reported dimming level (0-100)"`
	Temperature int       `json:"temperature" doc:"Reported white temperature in Kelvin"`
	Swatch      string    `json:"swatch" doc:"Display color of the white setting as #rrggbb"`
	Pending     *wiz.RGB8 `json:"pending,omitempty" doc:"Color queued for sending, if any"`
}

// StateFromInternal converts the controller's record of a bulb.
func StateFromInternal(id string, s bulb.State) StateResponse {
	return StateResponse{
		ID:          id,
		Reachable:   s.Reachable,
		On:          s.Status.On,
		Brightness:  s.Status.Brightness,
		Temperature: s.Status.Temperature,
		Swatch:      s.Swatch,
	}
}

// --- Common response types ---

// StatusResponse is a simple status response.
type StatusResponse struct {
	Status string `json:"status" doc:"Operation status"`
}

// toHumaError maps the error kinds from internal/errors to HTTP statuses.
func toHumaError(err error) error {
	switch errors.Kind(err) {
	case errors.ErrNotFound:
		return huma.Error404NotFound(err.Error())
	case errors.ErrInvalidInput:
		return huma.Error400BadRequest(err.Error())
	case errors.ErrUnreachable:
		return huma.Error503ServiceUnavailable(err.Error())
	default:
		return huma.Error500InternalServerError(err.Error())
	}
}

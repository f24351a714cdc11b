package handlers

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/jmylchreest/wizlightd/internal/bulb"
	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

// --- List Bulbs ---

// ListBulbsInput is the input for listing all bulbs.
type ListBulbsInput struct{}

// ListBulbsOutput is the output for listing all bulbs, in display order.
type ListBulbsOutput struct {
	Body []BulbResponse
}

// --- Create Bulb ---

// CreateBulbInput is the input for adding a bulb.
type CreateBulbInput struct {
	Body struct {
		Name string `json:"name,omitempty" doc:"Display name; defaults to \"New Bulb\""`
		IP   string `json:"ip,omitempty" doc:"IPv4 address; may be left empty and set later"`
	}
}

// CreateBulbOutput is the output after adding a bulb.
type CreateBulbOutput struct {
	Body BulbResponse
}

// --- Get Bulb ---

// GetBulbInput is the input for getting a single bulb.
type GetBulbInput struct {
	ID string `path:"id" doc:"Bulb identifier"`
}

// GetBulbOutput is the output for getting a single bulb.
type GetBulbOutput struct {
	Body BulbResponse
}

// --- Update Bulb ---

// UpdateBulbInput is the input for changing a bulb's settings.
type UpdateBulbInput struct {
	ID   string `path:"id" doc:"Bulb identifier"`
	Body struct {
		Name         *string `json:"name,omitempty" doc:"New display name"`
		IP           *string `json:"ip,omitempty" doc:"New IPv4 address; empty clears it"`
		ShowInWidget *bool   `json:"show_in_widget,omitempty" doc:"Show the bulb in the status widget"`
	}
}

// UpdateBulbOutput is the output after changing a bulb.
type UpdateBulbOutput struct {
	Body BulbResponse
}

// --- Delete Bulb ---

// DeleteBulbInput is the input for removing a bulb.
type DeleteBulbInput struct {
	ID string `path:"id" doc:"Bulb identifier"`
}

// DeleteBulbOutput is the (empty) output after removing a bulb.
type DeleteBulbOutput struct{}

// --- Bulb Status ---

// GetBulbStatusInput is the input for querying a bulb's live status.
type GetBulbStatusInput struct {
	ID string `path:"id" doc:"Bulb identifier"`
}

// GetBulbStatusOutput is the output for a live status query.
type GetBulbStatusOutput struct {
	Body StateResponse
}

// --- Set Bulb State ---

// SetBulbStateInput is the input for changing power, brightness or temperature.
type SetBulbStateInput struct {
	ID   string `path:"id" doc:"Bulb identifier"`
	Body struct {
		On          *bool    `json:"on,omitempty" doc:"Power state"`
		Brightness  *float64 `json:"brightness,omitempty" doc:"Dimming level (0-100, clamped); switches the bulb on"`
		Temperature *float64 `json:"temperature,omitempty" doc:"White temperature in Kelvin (clamped to 2200-6500)"`
	}
}

// SetBulbStateOutput is the output for setting a bulb's state.
type SetBulbStateOutput struct {
	Body StatusResponse
}

// --- Bulb Color ---

// SetBulbColorInput queues a color change.
type SetBulbColorInput struct {
	ID   string `path:"id" doc:"Bulb identifier"`
	Body struct {
		R int `json:"r" doc:"Red channel (0-255, clamped)"`
		G int `json:"g" doc:"Green channel (0-255, clamped)"`
		B int `json:"b" doc:"Blue channel (0-255, clamped)"`
	}
}

// SetBulbColorOutput reports whether the change was queued.
type SetBulbColorOutput struct {
	Body struct {
		Queued bool     `json:"queued" doc:"False when the change was dropped as an echo of mirrored state"`
		Color  wiz.RGB8 `json:"color" doc:"The clamped color that will be sent"`
	}
}

// CancelBulbColorInput drops a queued color change.
type CancelBulbColorInput struct {
	ID string `path:"id" doc:"Bulb identifier"`
}

// CancelBulbColorOutput reports whether a change was pending.
type CancelBulbColorOutput struct {
	Body struct {
		Cancelled bool `json:"cancelled" doc:"Whether a queued change was dropped"`
	}
}

// BulbHandler implements bulb-related HTTP handlers.
type BulbHandler struct {
	Controller *bulb.Controller
}

// ListBulbs returns every configured bulb.
func (h *BulbHandler) ListBulbs(_ context.Context, _ *ListBulbsInput) (*ListBulbsOutput, error) {
	return &ListBulbsOutput{Body: BulbsFromInternal(h.Controller.Store().List())}, nil
}

// CreateBulb adds a bulb and saves the list.
func (h *BulbHandler) CreateBulb(_ context.Context, input *CreateBulbInput) (*CreateBulbOutput, error) {
	store := h.Controller.Store()
	b, err := store.Add(input.Body.Name, input.Body.IP)
	if err != nil {
		return nil, toHumaError(err)
	}
	if err := store.Save(); err != nil {
		return nil, toHumaError(err)
	}
	return &CreateBulbOutput{Body: BulbFromInternal(b)}, nil
}

// GetBulb returns a single bulb by ID.
func (h *BulbHandler) GetBulb(_ context.Context, input *GetBulbInput) (*GetBulbOutput, error) {
	b, err := h.Controller.Store().Get(input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &GetBulbOutput{Body: BulbFromInternal(b)}, nil
}

// UpdateBulb changes a bulb's settings and saves the list.
func (h *BulbHandler) UpdateBulb(_ context.Context, input *UpdateBulbInput) (*UpdateBulbOutput, error) {
	store := h.Controller.Store()
	b, err := store.Update(input.ID, bulb.Update{
		Name:         input.Body.Name,
		IP:           input.Body.IP,
		ShowInWidget: input.Body.ShowInWidget,
	})
	if err != nil {
		return nil, toHumaError(err)
	}
	if err := store.Save(); err != nil {
		return nil, toHumaError(err)
	}
	return &UpdateBulbOutput{Body: BulbFromInternal(b)}, nil
}

// DeleteBulb removes a bulb and saves the list.
func (h *BulbHandler) DeleteBulb(_ context.Context, input *DeleteBulbInput) (*DeleteBulbOutput, error) {
	store := h.Controller.Store()
	if err := store.Delete(input.ID); err != nil {
		return nil, toHumaError(err)
	}
	h.Controller.Forget(input.ID)
	if err := store.Save(); err != nil {
		return nil, toHumaError(err)
	}
	return &DeleteBulbOutput{}, nil
}

// GetBulbStatus queries the bulb. An unreachable bulb is a 503.
func (h *BulbHandler) GetBulbStatus(ctx context.Context, input *GetBulbStatusInput) (*GetBulbStatusOutput, error) {
	state, err := h.Controller.Sync(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err)
	}
	resp := StateFromInternal(input.ID, state)
	if pending, ok := h.Controller.PendingColor(input.ID); ok {
		resp.Pending = &pending
	}
	return &GetBulbStatusOutput{Body: resp}, nil
}

// SetBulbState applies power, then brightness, then temperature. The first failure is returned.
func (h *BulbHandler) SetBulbState(ctx context.Context, input *SetBulbStateInput) (*SetBulbStateOutput, error) {
	body := input.Body
	if body.On == nil && body.Brightness == nil && body.Temperature == nil {
		return nil, huma.Error400BadRequest("at least one of on, brightness or temperature is required")
	}

	if body.On != nil {
		if err := h.Controller.SetPower(ctx, input.ID, *body.On); err != nil {
			return nil, toHumaError(err)
		}
	}
	if body.Brightness != nil {
		if err := h.Controller.SetBrightness(ctx, input.ID, *body.Brightness); err != nil {
			return nil, toHumaError(err)
		}
	}
	if body.Temperature != nil {
		if err := h.Controller.SetTemperature(ctx, input.ID, *body.Temperature); err != nil {
			return nil, toHumaError(err)
		}
	}
	return &SetBulbStateOutput{Body: StatusResponse{Status: "ok"}}, nil
}

// SetBulbColor queues a color; only the last of a burst reaches the bulb.
func (h *BulbHandler) SetBulbColor(_ context.Context, input *SetBulbColorInput) (*SetBulbColorOutput, error) {
	color := wiz.RGB8{R: input.Body.R, G: input.Body.G, B: input.Body.B}.Clamp()
	queued, err := h.Controller.ScheduleColor(input.ID, color)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &SetBulbColorOutput{}
	out.Body.Queued = queued
	out.Body.Color = color
	return out, nil
}

// CancelBulbColor drops the queued color for a bulb.
func (h *BulbHandler) CancelBulbColor(_ context.Context, input *CancelBulbColorInput) (*CancelBulbColorOutput, error) {
	if _, err := h.Controller.Store().Get(input.ID); err != nil {
		return nil, toHumaError(err)
	}
	out := &CancelBulbColorOutput{}
	out.Body.Cancelled = h.Controller.CancelColor(input.ID)
	return out, nil
}

// Ensure BulbHandler implements the interface at compile time.
var _ BulbHandlers = (*BulbHandler)(nil)

// BulbHandlers defines the interface for bulb operations.
type BulbHandlers interface {
	ListBulbs(ctx context.Context, input *ListBulbsInput) (*ListBulbsOutput, error)
	CreateBulb(ctx context.Context, input *CreateBulbInput) (*CreateBulbOutput, error)
	GetBulb(ctx context.Context, input *GetBulbInput) (*GetBulbOutput, error)
	UpdateBulb(ctx context.Context, input *UpdateBulbInput) (*UpdateBulbOutput, error)
	DeleteBulb(ctx context.Context, input *DeleteBulbInput) (*DeleteBulbOutput, error)
	GetBulbStatus(ctx context.Context, input *GetBulbStatusInput) (*GetBulbStatusOutput, error)
	SetBulbState(ctx context.Context, input *SetBulbStateInput) (*SetBulbStateOutput, error)
	SetBulbColor(ctx context.Context, input *SetBulbColorInput) (*SetBulbColorOutput, error)
	CancelBulbColor(ctx context.Context, input *CancelBulbColorInput) (*CancelBulbColorOutput, error)
}

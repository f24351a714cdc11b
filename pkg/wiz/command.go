package wiz

import (
	"encoding/json"
	"fmt"
	"math"
)

// Temperature range accepted by the bulbs' white channel. Requests outside it are clamped.
const (
	MinTemperature = 2200
	MaxTemperature = 6500
)

// Command is one of the pilot operations a bulb understands. Each command encodes to
// exactly one request payload; the target address is bound by the transport at send time.
type Command interface {
	method() string
	params() pilotParams
}

// PowerOn switches a bulb on
type PowerOn struct{}

// PowerOff switches a bulb off
type PowerOff struct{}

// SetBrightness sets the dimming level and switches the bulb on in the same request
type SetBrightness struct {
	Percent float64
}

// SetTemperature sets the white color temperature in Kelvin
type SetTemperature struct {
	Kelvin float64
}

// SetColor sets an explicit RGB color at the given dimming level
type SetColor struct {
	Color   RGB8
	Percent float64
}

// QueryStatus asks a bulb for its current pilot
type QueryStatus struct{}

// pilotParams is the params object of a request. Field order is the wire order.
type pilotParams struct {
	R       *int  `json:"r,omitempty"`
	G       *int  `json:"g,omitempty"`
	B       *int  `json:"b,omitempty"`
	Dimming *int  `json:"dimming,omitempty"`
	Temp    *int  `json:"temp,omitempty"`
	State   *bool `json:"state,omitempty"`
}

type request struct {
	Method string      `json:"method"`
	Params pilotParams `json:"params"`
}

func (PowerOn) method() string        { return MethodSetPilot }
func (PowerOff) method() string       { return MethodSetPilot }
func (SetBrightness) method() string  { return MethodSetPilot }
func (SetTemperature) method() string { return MethodSetPilot }
func (SetColor) method() string       { return MethodSetPilot }
func (QueryStatus) method() string    { return MethodGetPilot }

func (PowerOn) params() pilotParams  { return pilotParams{State: ptr(true)} }
func (PowerOff) params() pilotParams { return pilotParams{State: ptr(false)} }

func (c SetBrightness) params() pilotParams {
	return pilotParams{Dimming: ptr(ClampBrightness(c.Percent)), State: ptr(true)}
}

func (c SetTemperature) params() pilotParams {
	return pilotParams{Temp: ptr(ClampTemperature(c.Kelvin))}
}

func (c SetColor) params() pilotParams {
	rgb := c.Color.Clamp()
	return pilotParams{
		R:       ptr(rgb.R),
		G:       ptr(rgb.G),
		B:       ptr(rgb.B),
		Dimming: ptr(ClampBrightness(c.Percent)),
	}
}

func (QueryStatus) params() pilotParams { return pilotParams{} }

// Encode renders a command as its JSON request payload
func Encode(cmd Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("wiz: nil command")
	}
	return json.Marshal(request{Method: cmd.method(), Params: cmd.params()})
}

// ClampBrightness rounds to the nearest integer and clamps to [0,100]
func ClampBrightness(percent float64) int {
	return clampInt(roundInt(percent), 0, 100)
}

// ClampTemperature rounds to the nearest integer and clamps to [MinTemperature,MaxTemperature]
func ClampTemperature(kelvin float64) int {
	return clampInt(roundInt(kelvin), MinTemperature, MaxTemperature)
}

// Clamp limits every channel to [0,255]
func (c RGB8) Clamp() RGB8 {
	return RGB8{
		R: clampInt(c.R, 0, 255),
		G: clampInt(c.G, 0, 255),
		B: clampInt(c.B, 0, 255),
	}
}

// roundInt rounds half away from zero; NaN maps to 0
func roundInt(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 1) || v > math.MaxInt32 {
		return math.MaxInt32
	}
	if math.IsInf(v, -1) || v < math.MinInt32 {
		return math.MinInt32
	}
	return int(math.Round(v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func ptr[T any](v T) *T {
	return &v
}

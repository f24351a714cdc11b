package wiz

import (
	"encoding/json"
)

// reply is the envelope every bulb answers with
type reply struct {
	Method string       `json:"method"`
	Result *pilotResult `json:"result"`
}

// pilotResult holds the optional fields of a getPilot result. Numbers are decoded as
// float64 because some firmware revisions report them with a fractional part.
type pilotResult struct {
	State   *bool    `json:"state"`
	Dimming *float64 `json:"dimming"`
	Temp    *float64 `json:"temp"`
	// Color channels are reported by some firmware; the status model does not use them
	R *float64 `json:"r"`
	G *float64 `json:"g"`
	B *float64 `json:"b"`
}

// DecodeStatus parses a reply datagram. It reports false when the datagram is not JSON
// or carries no result object; missing fields inside a result take the documented defaults.
func DecodeStatus(data []byte) (DeviceStatus, bool) {
	var r reply
	if err := json.Unmarshal(data, &r); err != nil {
		return DeviceStatus{}, false
	}
	if r.Result == nil {
		return DeviceStatus{}, false
	}

	status := DeviceStatus{
		On:          false,
		Brightness:  DefaultBrightness,
		Temperature: DefaultTemperature,
	}
	if r.Result.State != nil {
		status.On = *r.Result.State
	}
	if r.Result.Dimming != nil {
		status.Brightness = ClampBrightness(*r.Result.Dimming)
	}
	if r.Result.Temp != nil {
		status.Temperature = roundInt(*r.Result.Temp)
	}
	return status, true
}

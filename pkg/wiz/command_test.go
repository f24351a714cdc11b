package wiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWireShapes(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"power on", PowerOn{}, `{"method":"setPilot","params":{"state":true}}`},
		{"power off", PowerOff{}, `{"method":"setPilot","params":{"state":false}}`},
		{"temperature", SetTemperature{Kelvin: 2700}, `{"method":"setPilot","params":{"temp":2700}}`},
		{"brightness turns the bulb on", SetBrightness{Percent: 40}, `{"method":"setPilot","params":{"dimming":40,"state":true}}`},
		{"color", SetColor{Color: RGB8{R: 255, G: 0, B: 64}, Percent: 80}, `{"method":"setPilot","params":{"r":255,"g":0,"b":64,"dimming":80}}`},
		{"query", QueryStatus{}, `{"method":"getPilot","params":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.cmd)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
			assert.Equal(t, tt.want, string(got), "encoding must be byte-for-byte deterministic")
		})
	}
}

func TestEncodeNil(t *testing.T) {
	_, err := Encode(nil)
	assert.Error(t, err)
}

func TestEncodeClampsBrightness(t *testing.T) {
	for _, in := range []float64{-50, -0.6, 0, 49.5, 100, 100.4, 101, 1e9} {
		payload, err := Encode(SetBrightness{Percent: in})
		require.NoError(t, err)

		var req struct {
			Params struct {
				Dimming int  `json:"dimming"`
				State   bool `json:"state"`
			} `json:"params"`
		}
		require.NoError(t, json.Unmarshal(payload, &req))
		assert.GreaterOrEqual(t, req.Params.Dimming, 0, "input %v", in)
		assert.LessOrEqual(t, req.Params.Dimming, 100, "input %v", in)
		assert.True(t, req.Params.State)
	}
}

func TestEncodeClampsColorChannels(t *testing.T) {
	payload, err := Encode(SetColor{Color: RGB8{R: -10, G: 300, B: 128}, Percent: 150})
	require.NoError(t, err)
	assert.Equal(t, `{"method":"setPilot","params":{"r":0,"g":255,"b":128,"dimming":100}}`, string(payload))
}

func TestRoundingIsNearestInteger(t *testing.T) {
	assert.Equal(t, 50, ClampBrightness(49.5))
	assert.Equal(t, 49, ClampBrightness(49.49))
	assert.Equal(t, 0, ClampBrightness(-0.4))
	assert.Equal(t, 3001, ClampTemperature(3000.5))
	assert.Equal(t, MinTemperature, ClampTemperature(1000))
	assert.Equal(t, MaxTemperature, ClampTemperature(9000))
}

func TestRoundIntHandlesNonFinite(t *testing.T) {
	assert.Equal(t, 0, ClampBrightness(nan()))
	assert.Equal(t, 100, ClampBrightness(inf(1)))
	assert.Equal(t, 0, ClampBrightness(inf(-1)))
}

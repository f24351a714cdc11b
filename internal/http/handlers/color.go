package handlers

import (
	"context"

	"github.com/jmylchreest/wizlightd/pkg/wiz"
)

// KelvinInput is the input for previewing a white temperature.
type KelvinInput struct {
	Kelvin     float64 `query:"kelvin" doc:"Temperature in Kelvin" minimum:"1000" maximum:"40000" required:"true"`
	Brightness float64 `query:"brightness" doc:"Brightness percent applied to the preview" minimum:"0" maximum:"100" default:"100"`
}

// KelvinOutput is the display color of a white temperature.
type KelvinOutput struct {
	Body struct {
		Kelvin     float64  `json:"kelvin" doc:"Requested temperature"`
		Brightness float64  `json:"brightness" doc:"Applied brightness percent"`
		Hex        string   `json:"hex" doc:"Color as #rrggbb"`
		RGB        wiz.RGB8 `json:"rgb" doc:"8-bit channels"`
		HSB        wiz.HSB  `json:"hsb" doc:"Hue, saturation and brightness"`
	}
}

// KelvinPreview approximates the color a bulb shows at a white temperature. No bulb is contacted.
func KelvinPreview(_ context.Context, input *KelvinInput) (*KelvinOutput, error) {
	rgb := wiz.KelvinToRGB(input.Kelvin, input.Brightness).To8()

	out := &KelvinOutput{}
	out.Body.Kelvin = input.Kelvin
	out.Body.Brightness = input.Brightness
	out.Body.Hex = rgb.Hex()
	out.Body.RGB = rgb
	out.Body.HSB = wiz.RGBToHSB(rgb)
	return out, nil
}

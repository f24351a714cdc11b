package wiz

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kelvin range the black-body fit is valid for
const (
	minFitKelvin = 1000
	maxFitKelvin = 40000
)

// KelvinToRGB approximates the color of a black body at the given temperature
// (Tanner Helland's fit) and scales it by brightnessPercent. It is used to show a bulb's
// white setting as a swatch without talking to the bulb.
func KelvinToRGB(kelvin, brightnessPercent float64) RGB {
	kelvin = math.Max(minFitKelvin, math.Min(maxFitKelvin, kelvin))
	temp := kelvin / 100

	var r, g, b float64

	if temp <= 66 {
		r = 255
	} else {
		r = 329.698727446 * math.Pow(temp-60, -0.1332047592)
	}

	if temp <= 66 {
		g = 99.4708025861*math.Log(temp) - 161.1195681661
	} else {
		g = 288.1221695283 * math.Pow(temp-60, -0.0755148492)
	}

	switch {
	case temp >= 66:
		b = 255
	case temp <= 19:
		b = 0
	default:
		b = 138.5177312231*math.Log(temp-10) - 305.0447927307
	}

	scale := math.Max(0, math.Min(100, brightnessPercent)) / 100
	return RGB{
		R: clampChannel(r) / 255 * scale,
		G: clampChannel(g) / 255 * scale,
		B: clampChannel(b) / 255 * scale,
	}
}

func clampChannel(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(255, v))
}

// To8 converts a normalized color to 8-bit channels, rounding to the nearest integer
func (c RGB) To8() RGB8 {
	return RGB8{
		R: roundInt(clampUnit(c.R) * 255),
		G: roundInt(clampUnit(c.G) * 255),
		B: roundInt(clampUnit(c.B) * 255),
	}
}

// Hex renders the color as #rrggbb
func (c RGB) Hex() string {
	return c.To8().Hex()
}

// Hex renders the color as #rrggbb
func (c RGB8) Hex() string {
	c = c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HSB is hue in degrees [0,360) with saturation and brightness in [0,1]
type HSB struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	B float64 `json:"b"`
}

// RGBToHSB converts an 8-bit color to hue/saturation/brightness.
// Grey colors (no chroma) report hue 0; black reports saturation 0.
func RGBToHSB(c RGB8) HSB {
	c = c.Clamp()
	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	delta := maxC - minC

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxC == r:
		h = 60 * math.Mod((g-b)/delta, 6)
	case maxC == g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if maxC > 0 {
		s = delta / maxC
	}
	return HSB{H: h, S: s, B: maxC}
}

// HSBToRGB converts hue/saturation/brightness back to 8-bit channels. Hue wraps modulo 360,
// saturation and brightness are clamped to [0,1] and channels are rounded to the nearest integer.
func HSBToRGB(c HSB) RGB8 {
	h := math.Mod(c.H, 360)
	if h < 0 {
		h += 360
	}
	s := clampUnit(c.S)
	v := clampUnit(c.B)

	chroma := v * s
	x := chroma * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - chroma

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = chroma, x, 0
	case h < 120:
		r, g, b = x, chroma, 0
	case h < 180:
		r, g, b = 0, chroma, x
	case h < 240:
		r, g, b = 0, x, chroma
	case h < 300:
		r, g, b = x, 0, chroma
	default:
		r, g, b = chroma, 0, x
	}
	return RGB8{
		R: roundInt((r + m) * 255),
		G: roundInt((g + m) * 255),
		B: roundInt((b + m) * 255),
	}
}

// WithBrightness keeps the hue and saturation of c and replaces its brightness with percent.
func (c RGB8) WithBrightness(percent float64) RGB8 {
	hsb := RGBToHSB(c)
	hsb.B = math.Max(0, math.Min(100, percent)) / 100
	return HSBToRGB(hsb)
}

// ParseRGB8 accepts "#rrggbb", "rrggbb" or "r,g,b". Channel values outside [0,255] are clamped.
func ParseRGB8(s string) (RGB8, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return RGB8{}, fmt.Errorf("color %q: want r,g,b", s)
		}
		var ch [3]int
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return RGB8{}, fmt.Errorf("color %q: %w", s, err)
			}
			ch[i] = v
		}
		return RGB8{R: ch[0], G: ch[1], B: ch[2]}.Clamp(), nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return RGB8{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB8{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB8{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

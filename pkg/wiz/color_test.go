package wiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKelvinToRGB(t *testing.T) {
	t.Run("daylight is near neutral", func(t *testing.T) {
		c := KelvinToRGB(6500, 100)
		assert.InDelta(t, 1.0, c.R, 0.001)
		assert.Greater(t, c.G, 0.9)
		assert.Greater(t, c.B, 0.9)
	})

	t.Run("warm white is red heavy", func(t *testing.T) {
		c := KelvinToRGB(2200, 100)
		assert.Equal(t, 1.0, c.R)
		assert.Greater(t, c.R, c.G)
		assert.Greater(t, c.G, c.B)
	})

	t.Run("cold white is blue heavy", func(t *testing.T) {
		c := KelvinToRGB(10000, 100)
		assert.Equal(t, 1.0, c.B)
		assert.Greater(t, c.B, c.R)
	})

	t.Run("very low kelvin has no blue", func(t *testing.T) {
		assert.Zero(t, KelvinToRGB(1500, 100).B)
	})

	t.Run("brightness scales linearly", func(t *testing.T) {
		full := KelvinToRGB(4000, 100)
		half := KelvinToRGB(4000, 50)
		assert.InDelta(t, full.R/2, half.R, 1e-9)
		assert.InDelta(t, full.G/2, half.G, 1e-9)
		assert.InDelta(t, full.B/2, half.B, 1e-9)
		assert.Equal(t, RGB{}, KelvinToRGB(4000, 0))
	})

	t.Run("inputs are clamped", func(t *testing.T) {
		assert.Equal(t, KelvinToRGB(1000, 100), KelvinToRGB(10, 100))
		assert.Equal(t, KelvinToRGB(40000, 100), KelvinToRGB(90000, 100))
		assert.Equal(t, KelvinToRGB(3000, 100), KelvinToRGB(3000, 250))
	})

	t.Run("channels stay in range", func(t *testing.T) {
		for k := 1000.0; k <= 40000; k += 500 {
			c := KelvinToRGB(k, 100)
			for _, v := range []float64{c.R, c.G, c.B} {
				assert.GreaterOrEqual(t, v, 0.0, "kelvin %v", k)
				assert.LessOrEqual(t, v, 1.0, "kelvin %v", k)
			}
		}
	})
}

func TestRGBConversions(t *testing.T) {
	assert.Equal(t, RGB8{R: 255, G: 128, B: 0}, RGB{R: 1, G: 0.5, B: 0}.To8())
	assert.Equal(t, RGB8{R: 255, G: 0, B: 0}, RGB{R: 2, G: -1, B: 0}.To8())
	assert.Equal(t, "#ff8000", RGB{R: 1, G: 0.5, B: 0}.Hex())
	assert.Equal(t, "#0a0bff", RGB8{R: 10, G: 11, B: 300}.Hex())
}

func TestHSBRoundTrip(t *testing.T) {
	colors := []RGB8{
		{R: 255, G: 0, B: 0},
		{R: 0, G: 255, B: 0},
		{R: 0, G: 0, B: 255},
		{R: 255, G: 140, B: 20},
		{R: 12, G: 200, B: 180},
		{R: 128, G: 128, B: 128},
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
		{R: 77, G: 3, B: 141},
	}
	for _, c := range colors {
		assert.Equal(t, c, HSBToRGB(RGBToHSB(c)), c.Hex())
	}
}

func TestRGBToHSB(t *testing.T) {
	assert.Equal(t, HSB{H: 0, S: 1, B: 1}, RGBToHSB(RGB8{R: 255}))
	assert.Equal(t, HSB{H: 120, S: 1, B: 1}, RGBToHSB(RGB8{G: 255}))
	assert.Equal(t, HSB{H: 240, S: 1, B: 1}, RGBToHSB(RGB8{B: 255}))
	assert.Equal(t, HSB{}, RGBToHSB(RGB8{}))

	grey := RGBToHSB(RGB8{R: 51, G: 51, B: 51})
	assert.Zero(t, grey.H)
	assert.Zero(t, grey.S)
	assert.InDelta(t, 0.2, grey.B, 1e-9)
}

func TestHSBToRGBWrapsHue(t *testing.T) {
	assert.Equal(t, HSBToRGB(HSB{H: 30, S: 1, B: 1}), HSBToRGB(HSB{H: 390, S: 1, B: 1}))
	assert.Equal(t, HSBToRGB(HSB{H: 300, S: 1, B: 1}), HSBToRGB(HSB{H: -60, S: 1, B: 1}))
	assert.Equal(t, RGB8{R: 255, G: 255, B: 255}, HSBToRGB(HSB{H: 10, S: -1, B: 5}))
}

func TestWithBrightness(t *testing.T) {
	assert.Equal(t, RGB8{R: 128, G: 0, B: 0}, RGB8{R: 255}.WithBrightness(50))
	assert.Equal(t, RGB8{}, RGB8{R: 10, G: 200, B: 30}.WithBrightness(0))
	assert.Equal(t, RGB8{R: 255, G: 255, B: 255}, RGB8{R: 100, G: 100, B: 100}.WithBrightness(150))
}

func TestParseRGB8(t *testing.T) {
	tests := []struct {
		in   string
		want RGB8
	}{
		{"#ff8000", RGB8{R: 255, G: 128, B: 0}},
		{"FF8000", RGB8{R: 255, G: 128, B: 0}},
		{" 12, 34 ,56 ", RGB8{R: 12, G: 34, B: 56}},
		{"300,-5,10", RGB8{R: 255, G: 0, B: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRGB8(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "#fff", "#gg0000", "1,2", "a,b,c", "#ff80001"} {
		_, err := ParseRGB8(bad)
		assert.Error(t, err, bad)
	}
}

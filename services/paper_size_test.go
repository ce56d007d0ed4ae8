package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePrintSize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a5", "a5"},
		{"a4", "a4"},
		{"a3", "a3"},
		{"b4", "b4"},
		{"b3", "b3"},
		{" A3 ", "a3"},
		{"", "a4"},
		{"letter", "a4"},
		{"a6", "a4"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePrintSize(tt.input))
		})
	}
}

func TestPixelSize(t *testing.T) {
	cases := map[string][2]int{
		"a5": {1748, 2480},
		"a4": {2480, 3508},
		"a3": {3508, 4961},
		"b4": {3031, 4299},
		"b3": {4299, 6071},
	}
	for size, want := range cases {
		w, h := PixelSize(size)
		assert.Equal(t, want[0], w, size)
		assert.Equal(t, want[1], h, size)
	}

	t.Run("Unknown behaves like a4", func(t *testing.T) {
		for _, unknown := range []string{"", "tabloid", "A0", "💥"} {
			w, h := PixelSize(unknown)
			aw, ah := PixelSize("a4")
			assert.Equal(t, aw, w)
			assert.Equal(t, ah, h)
			assert.Equal(t, PaperDimensionFor("a4"), PaperDimensionFor(unknown))
			assert.Equal(t, PageSizeCSS("a4"), PageSizeCSS(unknown))
		}
	})
}

func TestPaperDimensionFor(t *testing.T) {
	d := PaperDimensionFor("b3")
	assert.Equal(t, 364.0, d.WidthMm)
	assert.Equal(t, 515.0, d.HeightMm)

	d = PaperDimensionFor("a5")
	assert.Equal(t, 148.0, d.WidthMm)
	assert.Equal(t, 210.0, d.HeightMm)
}

func TestOrientation(t *testing.T) {
	for _, size := range []string{"a5", "a4", "a3", "b4", "b3"} {
		assert.Equal(t, OrientationPortrait, Orientation(PaperDimensionFor(size)), size)
	}
	assert.Equal(t, OrientationLandscape, Orientation(PaperDimension{WidthMm: 420, HeightMm: 297}))
	assert.Equal(t, OrientationPortrait, Orientation(PaperDimension{WidthMm: 200, HeightMm: 200}))
}

func TestPageSizeCSS(t *testing.T) {
	assert.Equal(t, "@page { size: 297mm 420mm; margin: 0; }", PageSizeCSS("a3"))
	assert.Equal(t, "@page { size: 257mm 364mm; margin: 0; }", PageSizeCSS("b4"))
	assert.Equal(t, "@page { size: 210mm 297mm; margin: 0; }", PageSizeCSS("unknown"))
}

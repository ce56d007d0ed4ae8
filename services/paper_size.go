package services

import (
	"fmt"
	"strings"

	"poster_app_go/models"
)

// Page orientations
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// PaperDimension is the physical and 300 DPI pixel size of a paper format
type PaperDimension struct {
	WidthMm  float64
	HeightMm float64
	WidthPx  int
	HeightPx int
}

var paperDimensions = map[string]PaperDimension{
	models.PrintSizeA5: {WidthMm: 148, HeightMm: 210, WidthPx: 1748, HeightPx: 2480},
	models.PrintSizeA4: {WidthMm: 210, HeightMm: 297, WidthPx: 2480, HeightPx: 3508},
	models.PrintSizeA3: {WidthMm: 297, HeightMm: 420, WidthPx: 3508, HeightPx: 4961},
	models.PrintSizeB4: {WidthMm: 257, HeightMm: 364, WidthPx: 3031, HeightPx: 4299},
	models.PrintSizeB3: {WidthMm: 364, HeightMm: 515, WidthPx: 4299, HeightPx: 6071},
}

// NormalizePrintSize maps any input onto a known size identifier.
// Unknown or empty identifiers resolve to a4.
func NormalizePrintSize(size string) string {
	key := strings.ToLower(strings.TrimSpace(size))
	if _, ok := paperDimensions[key]; ok {
		return key
	}
	return models.DefaultPrintSize
}

// PaperDimensionFor returns the dimensions of a print size, a4 for unknown sizes
func PaperDimensionFor(size string) PaperDimension {
	return paperDimensions[NormalizePrintSize(size)]
}

// PixelSize returns the 300 DPI pixel size sent to the generation endpoint
func PixelSize(size string) (width, height int) {
	d := PaperDimensionFor(size)
	return d.WidthPx, d.HeightPx
}

// Orientation is landscape only when the page is wider than it is tall
func Orientation(d PaperDimension) string {
	if d.WidthMm > d.HeightMm {
		return OrientationLandscape
	}
	return OrientationPortrait
}

// PageSizeCSS returns the @page rule used by the stylesheet print path
func PageSizeCSS(size string) string {
	d := PaperDimensionFor(size)
	return fmt.Sprintf("@page { size: %smm %smm; margin: 0; }", formatMm(d.WidthMm), formatMm(d.HeightMm))
}

func formatMm(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

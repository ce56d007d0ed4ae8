package partials

import (
	"fmt"
	"strings"

	"poster_app_go/services"
)

// formatFileSize renders a byte count for display
func formatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// paperFrameStyle sizes the preview frame to the paper's aspect ratio
func paperFrameStyle(printSize string) string {
	dim := services.PaperDimensionFor(printSize)
	return fmt.Sprintf("aspect-ratio: %s / %s;", trimFloat(dim.WidthMm), trimFloat(dim.HeightMm))
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

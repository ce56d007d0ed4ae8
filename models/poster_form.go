package models

// Print size identifiers
const (
	PrintSizeA5 = "a5"
	PrintSizeA4 = "a4"
	PrintSizeA3 = "a3"
	PrintSizeB4 = "b4"
	PrintSizeB3 = "b3"
)

// Poster styles
const (
	StyleClassic = "classic"
	StyleArt     = "art"
	StyleChild   = "child"
	StylePop     = "pop"
)

// Defaults applied when a stored form is missing a field
const (
	DefaultPrintSize = PrintSizeA4
	DefaultStyle     = StyleClassic
)

// PosterForm holds the fields a user fills in on the input screen.
// JSON names match the snapshot format kept in the session store.
type PosterForm struct {
	MainContent string `json:"mainContent"`
	Title       string `json:"title"`
	PrintSize   string `json:"printSize"`
	Style       string `json:"style,omitempty"`
}

// PrintSizes lists the selectable sizes in display order
func PrintSizes() []string {
	return []string{PrintSizeA5, PrintSizeA4, PrintSizeA3, PrintSizeB4, PrintSizeB3}
}

// Styles lists the selectable styles in display order
func Styles() []string {
	return []string{StyleClassic, StyleArt, StyleChild, StylePop}
}

// WithDefaults returns a copy with printSize and style filled in when empty
func (f PosterForm) WithDefaults() PosterForm {
	if f.PrintSize == "" {
		f.PrintSize = DefaultPrintSize
	}
	if f.Style == "" {
		f.Style = DefaultStyle
	}
	return f
}

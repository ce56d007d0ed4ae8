package models

// Screen identifies one of the two mutually exclusive views
type Screen string

const (
	ScreenInput  Screen = "input"
	ScreenOutput Screen = "output"
)

// PreviewKind is what the preview area of the output screen currently shows
type PreviewKind string

const (
	PreviewEmpty   PreviewKind = "empty"
	PreviewLoading PreviewKind = "loading"
	PreviewImage   PreviewKind = "image"
	PreviewError   PreviewKind = "error"
)

// Preview is the full content of the preview area. Message and heading are
// i18n keys; the view layer translates them.
type Preview struct {
	Kind       PreviewKind `json:"kind"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	MessageKey string      `json:"messageKey,omitempty"`
	HeadingKey string      `json:"headingKey,omitempty"`
}

// GenerationResult is the outcome of one call to the generation endpoint
type GenerationResult struct {
	Success  bool   `json:"success"`
	ImageURL string `json:"imageUrl,omitempty"`
	Message  string `json:"message"`
}

// AppState is everything one session's controller knows between requests
type AppState struct {
	SessionID          string     `json:"-"`
	Form               PosterForm `json:"-"` // stored separately under the form key
	Screen             Screen     `json:"screen"`
	Preview            Preview    `json:"preview"`
	GeneratedPosterURL string     `json:"generatedPosterUrl,omitempty"`
	DocumentKey        string     `json:"documentKey,omitempty"` // storage key of the last exported document
}

// NewAppState returns the state of a session that has never been seen
func NewAppState(sessionID string) *AppState {
	return &AppState{
		SessionID: sessionID,
		Form:      PosterForm{}.WithDefaults(),
		Screen:    ScreenInput,
		Preview:   Preview{Kind: PreviewEmpty},
	}
}

package services

import (
	"strings"

	"poster_app_go/models"
)

// ToneFormal is the tone sent for classic and for any unknown style
const ToneFormal = "フォーマル"

var styleTones = map[string]string{
	models.StyleClassic: ToneFormal,
	models.StyleArt:     "アート",
	models.StyleChild:   "ファミリー",
	models.StylePop:     "ポップ",
}

// HeadingGeneric is shown above a finished poster whose style is unknown
const HeadingGeneric = "preview.heading.generic"

var styleHeadings = map[string]string{
	models.StyleClassic: "preview.heading.classic",
	models.StyleArt:     "preview.heading.art",
	models.StyleChild:   "preview.heading.child",
	models.StylePop:     "preview.heading.pop",
}

// ToneForStyle maps a style to the tone label the generation endpoint expects
func ToneForStyle(style string) string {
	if tone, ok := styleTones[strings.ToLower(strings.TrimSpace(style))]; ok {
		return tone
	}
	return ToneFormal
}

// HeadingKeyForStyle returns the i18n key of the result heading for a style
func HeadingKeyForStyle(style string) string {
	if key, ok := styleHeadings[strings.ToLower(strings.TrimSpace(style))]; ok {
		return key
	}
	return HeadingGeneric
}

// IsKnownStyle reports whether style is one of the selectable styles
func IsKnownStyle(style string) bool {
	_, ok := styleTones[strings.ToLower(strings.TrimSpace(style))]
	return ok
}

// NormalizeStyle returns the canonical name of a known style and the trimmed
// input otherwise, so unknown styles still get the generic heading
func NormalizeStyle(style string) string {
	if IsKnownStyle(style) {
		return strings.ToLower(strings.TrimSpace(style))
	}
	return strings.TrimSpace(style)
}

package services

import (
	"testing"

	"poster_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestPresenter(t *testing.T) {
	t.Run("Loading", func(t *testing.T) {
		p := ShowLoading()
		assert.Equal(t, models.PreviewLoading, p.Kind)
		assert.Empty(t, p.ImageURL)
	})

	t.Run("Successful result shows exact image and no error", func(t *testing.T) {
		result := &models.GenerationResult{Success: true, ImageURL: "https://x/img.png", Message: GenerationSucceededText}
		p := ShowResult(result, "art")
		assert.Equal(t, models.PreviewImage, p.Kind)
		assert.Equal(t, "https://x/img.png", p.ImageURL)
		assert.Equal(t, "preview.heading.art", p.HeadingKey)
		assert.Empty(t, p.MessageKey)
	})

	t.Run("Unknown style gets generic heading", func(t *testing.T) {
		p := ShowResult(&models.GenerationResult{Success: true, ImageURL: "u"}, "noir")
		assert.Equal(t, HeadingGeneric, p.HeadingKey)
	})

	t.Run("Failed result becomes error", func(t *testing.T) {
		p := ShowResult(&models.GenerationResult{Success: false}, "pop")
		assert.Equal(t, models.PreviewError, p.Kind)
		assert.Equal(t, MsgResultFailed, p.MessageKey)
		assert.Empty(t, p.ImageURL)

		assert.Equal(t, models.PreviewError, ShowResult(nil, "").Kind)
	})

	t.Run("Error replaces previous content", func(t *testing.T) {
		p := ShowError(MsgGenerationFailed)
		assert.Equal(t, models.Preview{Kind: models.PreviewError, MessageKey: MsgGenerationFailed}, p)
	})
}

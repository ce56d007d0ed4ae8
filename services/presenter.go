package services

import "poster_app_go/models"

// MsgLoading is the busy text shown while a poster is generated
const MsgLoading = "preview.loading"

// ShowLoading replaces the preview with the busy indicator
func ShowLoading() models.Preview {
	return models.Preview{Kind: models.PreviewLoading, MessageKey: MsgLoading}
}

// ShowResult shows the generated image, or an error notice when result did not succeed
func ShowResult(result *models.GenerationResult, style string) models.Preview {
	if result == nil || !result.Success || result.ImageURL == "" {
		return ShowError(MsgResultFailed)
	}
	return models.Preview{
		Kind:       models.PreviewImage,
		ImageURL:   result.ImageURL,
		HeadingKey: HeadingKeyForStyle(style),
	}
}

// ShowError replaces the preview with an error notice
func ShowError(messageKey string) models.Preview {
	return models.Preview{Kind: models.PreviewError, MessageKey: messageKey}
}

package partials

import (
	"context"

	"poster_app_go/models"
	"poster_app_go/services/i18n"
	"poster_app_go/templates/components"

	"github.com/a-h/templ"
)

// GenerateRunPath is polled by the loading preview to run the generation
const GenerateRunPath = "/generate/run"

// Preview renders the preview area. Exactly one of image, error, loading or
// the empty placeholder is shown.
func Preview(preview models.Preview, printSize string) templ.Component {
	return components.Func(func(ctx context.Context, m *components.Markup) {
		m.Raw(`<section id="preview" class="preview"`)
		m.Attr("data-kind", string(preview.Kind))
		m.Attr("style", paperFrameStyle(printSize))
		if preview.Kind == models.PreviewLoading {
			m.Attr("hx-post", GenerateRunPath)
			m.Attr("hx-trigger", "load")
			m.Attr("hx-target", "#app")
			m.Attr("hx-swap", "outerHTML")
			m.Attr("aria-busy", "true")
		}
		m.Raw(`>`)

		switch preview.Kind {
		case models.PreviewImage:
			if preview.HeadingKey != "" {
				m.Raw(`<h2 class="preview-heading">`)
				m.Text(i18n.T(ctx, preview.HeadingKey))
				m.Raw(`</h2>`)
			}
			m.Raw(`<img class="preview-image"`)
			m.URLAttr("src", preview.ImageURL)
			m.Attr("alt", i18n.T(ctx, "preview.image_alt"))
			m.Raw(`>`)
		case models.PreviewLoading:
			m.Raw(`<div class="preview-spinner" aria-hidden="true"></div><p class="preview-message">`)
			m.Text(i18n.T(ctx, preview.MessageKey))
			m.Raw(`</p>`)
		case models.PreviewError:
			m.Raw(`<p class="preview-message preview-error" role="alert">`)
			m.Text(i18n.T(ctx, preview.MessageKey))
			m.Raw(`</p>`)
		default:
			m.Raw(`<p class="preview-message preview-empty">`)
			m.Text(i18n.T(ctx, "preview.empty"))
			m.Raw(`</p>`)
		}
		m.Raw(`</section>`)
	})
}

// Alert renders a message the browser shows as a blocking alert on load.
// An empty message renders nothing.
func Alert(message string) templ.Component {
	return components.Func(func(ctx context.Context, m *components.Markup) {
		if message == "" {
			return
		}
		m.Raw(`<div class="alert" role="alertdialog"`)
		m.Attr("data-alert", message)
		m.Raw(`>`)
		m.Text(message)
		m.Raw(`</div>`)
	})
}

// DocumentLink renders the download fallback for a stored document
func DocumentLink(url, fileName string, size int64) templ.Component {
	return components.Func(func(ctx context.Context, m *components.Markup) {
		m.Raw(`<a class="button button-secondary" id="document-download"`)
		m.URLAttr("href", url)
		m.Attr("download", fileName)
		m.Raw(`>`)
		m.Text(i18n.T(ctx, "output.download"))
		if size > 0 {
			m.Raw(` <small>(`)
			m.Text(formatFileSize(size))
			m.Raw(`)</small>`)
		}
		m.Raw(`</a>`)
	})
}

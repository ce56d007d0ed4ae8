package pages

import (
	"context"
	"strconv"

	"poster_app_go/services/i18n"
	"poster_app_go/templates/components"
	"poster_app_go/templates/partials"

	"github.com/a-h/templ"
)

// PrintPage embeds the stored document in a frame and prints it after the
// plan's delay. When the frame cannot be printed the document is downloaded.
// Without a document the page itself is printed with the paper size rule.
func PrintPage(view PrintView) templ.Component {
	return components.Func(func(ctx context.Context, m *components.Markup) {
		m.Component(ctx, components.Layout(i18n.T(ctx, "print.title"), nil, printBody(view)))
	})
}

func printBody(view PrintView) templ.Component {
	return components.Func(func(ctx context.Context, m *components.Markup) {
		plan := view.Plan
		m.Raw(`<style>`)
		m.Raw(plan.PageCSS)
		m.Raw(`</style>`)

		m.Raw(`<main id="print" class="print-page"`)
		m.Attr("data-strategy", plan.Strategy)
		m.Attr("data-print-delay", strconv.FormatInt(plan.PrintDelay.Milliseconds(), 10))
		if plan.HasDocument() {
			m.Attr("data-document-url", plan.DocumentURL)
			m.Attr("data-file-name", plan.FileName)
			m.Attr("data-print-blocked", i18n.T(ctx, "print.print_blocked"))
		}
		m.Raw(`>`)

		if plan.HasDocument() {
			m.Raw(`<p class="print-status no-print">`)
			m.Text(i18n.T(ctx, "print.opening"))
			m.Raw(`</p>`)
			m.Component(ctx, partials.DocumentLink(plan.DocumentURL, plan.FileName, plan.DocumentSize))
			m.Raw(`<iframe id="print-frame" class="print-frame no-print"`)
			m.URLAttr("src", plan.DocumentURL)
			m.Attr("title", i18n.T(ctx, "print.frame_title"))
			m.Raw(`></iframe>`)
		} else {
			m.Raw(`<img class="print-image"`)
			m.URLAttr("src", view.ImageURL)
			m.Attr("alt", i18n.T(ctx, "preview.image_alt"))
			m.Raw(`>`)
		}

		m.Raw(`<p class="no-print"><a href="/">`)
		m.Text(i18n.T(ctx, "print.back"))
		m.Raw(`</a></p></main>`)
	})
}

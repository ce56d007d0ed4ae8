package components

import (
	"context"

	"poster_app_go/middleware"
	"poster_app_go/services/i18n"

	"github.com/a-h/templ"
)

// HTMXScriptURL is the htmx build the pages load
const HTMXScriptURL = "https://unpkg.com/htmx.org@2.0.4"

// Layout wraps a page body in the document shell shared by every page.
// headers are sent by htmx with every request the page makes.
func Layout(title string, headers map[string]string, body templ.Component) templ.Component {
	return Func(func(ctx context.Context, m *Markup) {
		nonce := middleware.GetNonce(ctx)

		m.Raw(`<!DOCTYPE html><html`)
		m.Attr("lang", i18n.GetLocale(ctx))
		m.Raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		m.Text(title)
		m.Raw(`</title><link rel="stylesheet"`)
		m.Attr("href", "/"+middleware.StylesheetPath+"?v="+middleware.GetCSSVersion(ctx))
		m.Raw(`><script`)
		m.Attr("src", HTMXScriptURL)
		m.Attr("nonce", nonce)
		m.Raw(`></script><script defer`)
		m.Attr("src", "/"+middleware.PrintScriptPath+"?v="+middleware.GetAppJSVersion(ctx))
		m.Attr("nonce", nonce)
		m.Raw(`></script></head><body`)
		if len(headers) > 0 {
			m.Attr("hx-headers", JSON(headers))
		}
		m.Raw(`>`)
		m.Component(ctx, body)
		m.Raw(`</body></html>`)
	})
}

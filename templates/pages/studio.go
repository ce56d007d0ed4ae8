package pages

import (
	"context"

	"poster_app_go/models"
	"poster_app_go/services/i18n"
	"poster_app_go/templates/components"
	"poster_app_go/templates/partials"

	"github.com/a-h/templ"
)

// Studio renders the full poster studio page
func Studio(view StudioView) templ.Component {
	return components.Func(func(ctx context.Context, m *components.Markup) {
		m.Component(ctx, components.Layout(i18n.T(ctx, "app.title"), view.Headers(), StudioBody(view)))
	})
}

// StudioBody renders the swappable application root. Only the current screen is visible.
func StudioBody(view StudioView) templ.Component {
	return components.Func(func(ctx context.Context, m *components.Markup) {
		state := view.State
		if state == nil {
			state = models.NewAppState("")
		}

		m.Raw(`<main id="app" class="studio"`)
		m.Attr("data-screen", string(state.Screen))
		m.Attr("data-confirm-leave", boolString(view.ConfirmLeave()))
		m.Attr("data-leave-message", i18n.T(ctx, "app.leave_confirm"))
		m.Raw(`><header class="studio-header"><h1>`)
		m.Text(i18n.T(ctx, "app.title"))
		m.Raw(`</h1><p>`)
		m.Text(i18n.T(ctx, "app.subtitle"))
		m.Raw(`</p></header>`)

		m.Component(ctx, partials.Alert(view.Alert))
		m.Component(ctx, inputScreen(view, state))
		m.Component(ctx, outputScreen(view, state))
		m.Raw(`</main>`)
	})
}

func inputScreen(view StudioView, state *models.AppState) templ.Component {
	return components.Func(func(ctx context.Context, m *components.Markup) {
		form := state.Form.WithDefaults()

		m.Raw(`<section id="input-screen" class="screen"`)
		m.BoolAttr("hidden", state.Screen != models.ScreenInput)
		m.Raw(`><form id="poster-form" method="post" action="/generate" hx-post="/generate" hx-target="#app" hx-swap="outerHTML">`)
		if view.CSRFToken != "" {
			m.Raw(`<input type="hidden" name="_csrf"`)
			m.Attr("value", view.CSRFToken)
			m.Raw(`>`)
		}

		m.Raw(`<label for="mainContent">`)
		m.Text(i18n.T(ctx, "form.main_content"))
		m.Raw(`</label><textarea id="mainContent" name="mainContent" rows="6"`)
		m.Attr("placeholder", i18n.T(ctx, "form.main_content_placeholder"))
		autosave(m)
		m.Raw(`>`)
		m.Text(form.MainContent)
		m.Raw(`</textarea>`)

		m.Raw(`<label for="title">`)
		m.Text(i18n.T(ctx, "form.title"))
		m.Raw(`</label><input type="text" id="title" name="title"`)
		m.Attr("value", form.Title)
		m.Attr("placeholder", i18n.T(ctx, "form.title_placeholder"))
		autosave(m)
		m.Raw(`>`)

		m.Raw(`<label for="printSize">`)
		m.Text(i18n.T(ctx, "form.print_size"))
		m.Raw(`</label><select id="printSize" name="printSize"`)
		autosave(m)
		m.Raw(`>`)
		for _, size := range models.PrintSizes() {
			m.Raw(`<option`)
			m.Attr("value", size)
			m.BoolAttr("selected", size == form.PrintSize)
			m.Raw(`>`)
			m.Text(i18n.T(ctx, "form.sizes."+size))
			m.Raw(`</option>`)
		}
		m.Raw(`</select>`)

		m.Raw(`<fieldset class="styles"><legend>`)
		m.Text(i18n.T(ctx, "form.style"))
		m.Raw(`</legend>`)
		for _, style := range models.Styles() {
			m.Raw(`<label class="style-option"><input type="radio" name="style"`)
			m.Attr("value", style)
			m.BoolAttr("checked", style == form.Style)
			autosave(m)
			m.Raw(`> `)
			m.Text(i18n.T(ctx, "form.styles."+style))
			m.Raw(`</label>`)
		}
		m.Raw(`</fieldset>`)

		m.Raw(`<button type="submit" class="button button-primary" id="generate-button">`)
		m.Text(i18n.T(ctx, "form.generate"))
		m.Raw(`</button></form></section>`)
	})
}

// autosave posts the whole form on every change without swapping anything
func autosave(m *components.Markup) {
	m.Attr("hx-post", "/form")
	m.Attr("hx-trigger", "input changed delay:300ms, change")
	m.Attr("hx-include", "#poster-form")
	m.Attr("hx-swap", "none")
}

func outputScreen(view StudioView, state *models.AppState) templ.Component {
	return components.Func(func(ctx context.Context, m *components.Markup) {
		m.Raw(`<section id="output-screen" class="screen"`)
		m.BoolAttr("hidden", state.Screen != models.ScreenOutput)
		m.Raw(`>`)
		m.Component(ctx, partials.Preview(state.Preview, state.Form.PrintSize))

		m.Raw(`<div class="actions"><form method="post" action="/regenerate" hx-post="/regenerate" hx-target="#app" hx-swap="outerHTML">`)
		if view.CSRFToken != "" {
			m.Raw(`<input type="hidden" name="_csrf"`)
			m.Attr("value", view.CSRFToken)
			m.Raw(`>`)
		}
		m.Raw(`<button type="submit" class="button button-secondary" id="regenerate-button">`)
		m.Text(i18n.T(ctx, "output.regenerate"))
		m.Raw(`</button></form>`)

		m.Raw(`<a class="button button-primary" id="print-button" href="/print" target="_blank"`)
		m.Attr("data-strategy", view.PrintStrategy)
		if state.GeneratedPosterURL == "" {
			m.Attr("aria-disabled", "true")
		}
		m.Raw(`>`)
		m.Text(i18n.T(ctx, "output.print"))
		m.Raw(`</a></div></section>`)
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

package components

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Markup writes HTML to a response, remembering the first write error.
// Text and Attr escape their input; Raw writes trusted markup as is.
type Markup struct {
	w   io.Writer
	err error
}

// Func adapts a markup writing function to a templ.Component
func Func(fn func(ctx context.Context, m *Markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &Markup{w: w}
		fn(ctx, m)
		return m.err
	})
}

// Raw writes trusted markup
func (m *Markup) Raw(parts ...string) {
	for _, s := range parts {
		if m.err != nil {
			return
		}
		_, m.err = io.WriteString(m.w, s)
	}
}

// Text writes s escaped for element content
func (m *Markup) Text(s string) {
	m.Raw(templ.EscapeString(s))
}

// Attr writes name="value" with value escaped, preceded by a space
func (m *Markup) Attr(name, value string) {
	m.Raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// BoolAttr writes name when on
func (m *Markup) BoolAttr(name string, on bool) {
	if on {
		m.Raw(" ", name)
	}
}

// URLAttr writes a URL attribute, replacing unsafe schemes
func (m *Markup) URLAttr(name, url string) {
	m.Attr(name, string(templ.URL(url)))
}

// Component renders a nested component in place
func (m *Markup) Component(ctx context.Context, c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(ctx, m.w)
}

package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// RawHTML returns a templ component that writes the provided HTML without escaping.
// Only pass content that has already been sanitised.
func RawHTML(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := io.WriteString(w, html)
		return err
	})
}

// markup writes HTML fragments and remembers the first write error.
type markup struct {
	w   io.Writer
	err error
}

func newMarkup(w io.Writer) *markup {
	return &markup{w: w}
}

func (m *markup) raw(fragments ...string) {
	for _, fragment := range fragments {
		if m.err != nil {
			return
		}
		_, m.err = io.WriteString(m.w, fragment)
	}
}

func (m *markup) text(value string) {
	m.raw(templ.EscapeString(value))
}

// attr writes ` name="value"` with the value escaped.
func (m *markup) attr(name, value string) {
	m.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// href writes an href attribute, neutralising unsafe URL schemes.
func (m *markup) href(url string) {
	m.attr("href", string(templ.URL(url)))
}

func (m *markup) component(ctx context.Context, c templ.Component) {
	if m.err != nil || c == nil {
		return
	}
	m.err = c.Render(ctx, m.w)
}

func (m *markup) fieldError(fieldErrors map[string]string, field string) {
	if msg, ok := fieldErrors[field]; ok && msg != "" {
		m.raw(`<p class="field-error">`)
		m.text(msg)
		m.raw(`</p>`)
	}
}

func (m *markup) input(kind, name, label, value string, required bool, fieldErrors map[string]string) {
	m.raw(`<label>`)
	m.text(label)
	m.raw(`<input`)
	m.attr("type", kind)
	m.attr("name", name)
	if kind != "password" {
		m.attr("value", value)
	}
	if required {
		m.raw(" required")
	}
	m.raw(`></label>`)
	m.fieldError(fieldErrors, name)
}

func (m *markup) textarea(name, label, value string, rows int, fieldErrors map[string]string) {
	m.raw(`<label>`)
	m.text(label)
	m.raw(`<textarea`)
	m.attr("name", name)
	m.attr("rows", strconv.Itoa(rows))
	m.raw(` required>`)
	m.text(value)
	m.raw(`</textarea></label>`)
	m.fieldError(fieldErrors, name)
}

package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// RegisterPage renders the sign-up form.
func RegisterPage(page Page, data RegisterData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)
		m.raw(`<section class="form narrow"><h1>Create an account</h1>`)
		if data.Error != "" {
			m.raw(`<p class="field-error">`)
			m.text(data.Error)
			m.raw(`</p>`)
		}
		m.raw(`<form method="post" action="/register" enctype="multipart/form-data">`)
		m.input("email", "email", "Email", data.Email, true, data.Errors)
		m.input("text", "name", "Name", data.Name, true, data.Errors)
		m.input("password", "password", "Password (at least 8 characters)", "", true, data.Errors)
		m.raw(`<div class="actions"><button type="submit">Register</button></div></form>`)
		m.raw(`<p>Already registered? <a href="/login">Log in</a></p></section>`)
		return m.err
	})
	return Layout(page, body)
}

// LoginPage renders the login form.
func LoginPage(page Page, data LoginData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)
		m.raw(`<section class="form narrow"><h1>Log in</h1>`)
		if data.Error != "" {
			m.raw(`<p class="field-error">`)
			m.text(data.Error)
			m.raw(`</p>`)
		}
		m.raw(`<form method="post" action="/login" enctype="multipart/form-data">`)
		if data.Next != "" {
			m.raw(`<input type="hidden" name="next"`)
			m.attr("value", data.Next)
			m.raw(`>`)
		}
		m.input("email", "email", "Email", data.Email, true, nil)
		m.input("password", "password", "Password", "", true, nil)
		m.raw(`<div class="actions"><button type="submit">Log in</button></div></form>`)
		m.raw(`<p>No account yet? <a href="/register">Register</a></p></section>`)
		return m.err
	})
	return Layout(page, body)
}

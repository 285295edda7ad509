package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps body in the shared document shell with navigation and notice.
func Layout(page Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(w)

		title := SiteName
		if page.Title != "" {
			title = page.Title + " • " + SiteName
		}

		m.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.raw(`<title>`)
		m.text(title)
		m.raw(`</title><link rel="stylesheet" href="/static/style.css"><link rel="icon" href="/favicon.ico"></head><body>`)

		m.raw(`<header class="site-header"><a class="brand" href="/jobs">`)
		m.text(SiteName)
		m.raw(`</a><nav><a href="/jobs">Jobs</a><a href="/posts">Posts</a>`)
		if page.Viewer.LoggedIn {
			if page.Viewer.Admin {
				m.raw(`<a href="/jobs/new">Post a job</a>`)
			}
			m.raw(`<span class="viewer">`)
			m.text(page.Viewer.Name)
			m.raw(`</span><form class="inline" method="post" action="/logout" enctype="multipart/form-data"><button type="submit">Log out</button></form>`)
		} else {
			m.raw(`<a href="/login">Log in</a><a href="/register">Register</a>`)
		}
		m.raw(`</nav></header><main>`)

		if page.Notice != nil && page.Notice.Message != "" {
			kind := page.Notice.Kind
			if kind == "" {
				kind = "info"
			}
			m.raw(`<div`)
			m.attr("class", "notice notice-"+kind)
			m.raw(` role="status">`)
			m.text(page.Notice.Message)
			m.raw(`</div>`)
		}

		m.component(ctx, body)

		m.raw(`</main><footer class="site-footer">`)
		m.text(SiteName)
		m.raw(`</footer></body></html>`)

		return m.err
	})
}

// ErrorPage renders a status page with a short explanation.
func ErrorPage(page Page, data ErrorPageData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)
		m.raw(`<section class="error-page"><h1>`)
		m.text(data.StatusLabel)
		m.raw(`</h1><p>`)
		m.text(data.Message)
		m.raw(`</p>`)
		back := data.BackURL
		if back == "" {
			back = "/jobs"
		}
		m.raw(`<p><a`)
		m.href(back)
		m.raw(`>Back to the job list</a></p></section>`)
		return m.err
	})
	return Layout(page, body)
}

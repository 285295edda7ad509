package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// PostListPage renders the posts feed.
func PostListPage(page Page, data PostListData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)

		m.raw(`<section class="post-list"><div class="list-header"><h1>Posts</h1>`)
		if data.CanCreate {
			m.raw(`<a class="button" href="/posts/new">New post</a>`)
		}
		m.raw(`</div>`)

		if len(data.Posts) == 0 {
			m.raw(`<p class="empty">Nothing has been posted yet.</p>`)
		} else {
			m.raw(`<ul class="cards">`)
			for _, post := range data.Posts {
				m.raw(`<li class="card"><p>`)
				m.text(post.Excerpt)
				m.raw(`</p><p class="meta"><a`)
				m.href(post.URL)
				m.raw(`>Read more</a> · <time>`)
				m.text(post.Posted)
				m.raw(`</time></p></li>`)
			}
			m.raw(`</ul>`)
		}

		m.raw(`</section>`)
		return m.err
	})
	return Layout(page, body)
}

// PostPage renders a single post.
func PostPage(page Page, data PostData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(w)
		m.raw(`<article class="post"><div class="content">`)
		m.component(ctx, RawHTML(data.HTML))
		m.raw(`</div><p class="meta"><code>`)
		m.text(data.Slug)
		m.raw(`</code> · <time>`)
		m.text(data.Posted)
		m.raw(`</time></p><p><a href="/posts">All posts</a></p></article>`)
		return m.err
	})
	return Layout(page, body)
}

// PostFormPage renders the new post form.
func PostFormPage(page Page, data PostFormData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)
		m.raw(`<section class="form"><h1>New post</h1><form method="post" action="/posts/new" enctype="multipart/form-data">`)
		m.textarea("content", "Content (markdown)", data.Content, 10, data.Errors)
		m.raw(`<div class="actions"><button type="submit">Publish</button><a href="/posts">Cancel</a></div></form></section>`)
		return m.err
	})
	return Layout(page, body)
}

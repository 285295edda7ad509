package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// JobListPage renders the searchable job list.
func JobListPage(page Page, data JobListData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)

		m.raw(`<section class="job-list"><div class="list-header"><h1>Open positions</h1>`)
		if data.CanCreate {
			m.raw(`<a class="button" href="/jobs/new">Post a job</a>`)
		}
		m.raw(`</div>`)

		m.raw(`<form class="search" method="get" action="/jobs"><input type="search" name="q" placeholder="Search title, description or location"`)
		m.attr("value", data.Query)
		m.raw(`><button type="submit">Search</button></form>`)

		if len(data.Related) > 0 {
			m.raw(`<div class="related"><span>Related searches:</span><ul>`)
			for _, related := range data.Related {
				m.raw(`<li><a`)
				m.href(related.URL)
				m.raw(`>`)
				m.text(related.Term)
				m.raw(`</a></li>`)
			}
			m.raw(`</ul></div>`)
		}

		if len(data.Jobs) == 0 {
			m.raw(`<p class="empty">`)
			if data.Query != "" {
				m.text("No jobs match “" + data.Query + "”.")
			} else {
				m.raw(`No jobs have been posted yet.`)
			}
			m.raw(`</p>`)
		} else {
			m.raw(`<ul class="cards">`)
			for _, job := range data.Jobs {
				m.raw(`<li class="card"><h2><a`)
				m.href(job.URL)
				m.raw(`>`)
				m.text(job.Title)
				m.raw(`</a></h2><p class="meta">`)
				if job.Company != "" {
					m.text(job.Company)
					m.raw(` · `)
				}
				m.text(job.Location)
				m.raw(` · <time>`)
				m.text(job.Posted)
				m.raw(`</time></p><p>`)
				m.text(job.Excerpt)
				m.raw(`</p></li>`)
			}
			m.raw(`</ul>`)
		}

		m.raw(`</section>`)
		return m.err
	})
	return Layout(page, body)
}

// JobDetailPage renders one job with its actions and, for managers, its applicants.
func JobDetailPage(page Page, data JobDetailData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := newMarkup(w)

		m.raw(`<article class="job"><h1>`)
		m.text(data.Title)
		m.raw(`</h1><p class="meta">`)
		if data.Company != "" {
			m.text(data.Company)
			m.raw(` · `)
		}
		m.text(data.Location)
		m.raw(` · <time>`)
		m.text(data.Posted)
		m.raw(`</time></p><div class="description">`)
		m.component(ctx, RawHTML(data.DescriptionHTML))
		m.raw(`</div><div class="actions">`)

		switch {
		case data.HasApplied:
			m.raw(`<p class="applied">You have applied for this job.</p>`)
		case data.CanApply:
			m.raw(`<a class="button"`)
			m.href(data.ApplyURL)
			m.raw(`>Apply</a>`)
		case data.LoginURL != "":
			m.raw(`<a class="button"`)
			m.href(data.LoginURL)
			m.raw(`>Log in to apply</a>`)
		}

		if data.CanManage {
			m.raw(`<a`)
			m.href(data.EditURL)
			m.raw(`>Edit</a><a class="danger"`)
			m.href(data.DeleteURL)
			m.raw(`>Delete</a>`)
		}
		m.raw(`</div>`)

		if data.CanManage {
			m.raw(`<section class="applicants"><h2>Applicants</h2>`)
			if len(data.Applicants) == 0 {
				m.raw(`<p class="empty">No applications yet.</p>`)
			} else {
				m.raw(`<table><thead><tr><th>Name</th><th>Email</th><th>Resume</th><th>Applied</th></tr></thead><tbody>`)
				for _, applicant := range data.Applicants {
					m.raw(`<tr><td>`)
					m.text(applicant.Name)
					m.raw(`</td><td>`)
					m.text(applicant.Email)
					m.raw(`</td><td><a`)
					m.href(applicant.ResumeURL)
					m.raw(`>`)
					m.text(applicant.ResumeName)
					m.raw(`</a></td><td>`)
					m.text(applicant.AppliedAt)
					m.raw(`</td></tr>`)
				}
				m.raw(`</tbody></table>`)
			}
			m.raw(`</section>`)
		}

		m.raw(`</article>`)
		return m.err
	})
	return Layout(page, body)
}

// JobFormPage renders the create and edit form.
func JobFormPage(page Page, data JobFormData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)

		m.raw(`<section class="form"><h1>`)
		m.text(data.Heading)
		m.raw(`</h1><form method="post" enctype="multipart/form-data"`)
		m.attr("action", data.Action)
		m.raw(`>`)
		m.input("text", "job_title", "Title", data.Values.Title, true, data.Errors)
		m.input("text", "company", "Company", data.Values.Company, false, data.Errors)
		m.input("text", "location", "Location", data.Values.Location, true, data.Errors)
		m.textarea("job_description", "Description (markdown)", data.Values.Description, 12, data.Errors)
		m.raw(`<div class="actions"><button type="submit">`)
		m.text(data.Submit)
		m.raw(`</button><a`)
		m.href(data.CancelURL)
		m.raw(`>Cancel</a></div></form></section>`)

		return m.err
	})
	return Layout(page, body)
}

// JobDeletePage asks for confirmation before a job is removed.
func JobDeletePage(page Page, data JobDeleteData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)

		m.raw(`<section class="form"><h1>Delete job</h1><p>Delete “`)
		m.text(data.Title)
		m.raw(`” and all of its applications? This cannot be undone.</p><form method="post" enctype="multipart/form-data"`)
		m.attr("action", data.Action)
		m.raw(`><div class="actions"><button class="danger" type="submit">Delete</button><a`)
		m.href(data.CancelURL)
		m.raw(`>Cancel</a></div></form></section>`)

		return m.err
	})
	return Layout(page, body)
}

// ApplyPage renders the resume upload form.
func ApplyPage(page Page, data ApplyData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		m := newMarkup(w)

		m.raw(`<section class="form"><h1>Apply for `)
		m.text(data.JobTitle)
		m.raw(`</h1>`)
		if data.Error != "" {
			m.raw(`<p class="field-error">`)
			m.text(data.Error)
			m.raw(`</p>`)
		}
		m.raw(`<form method="post" enctype="multipart/form-data"`)
		m.attr("action", data.Action)
		m.raw(`><label>Resume<input type="file" name="resume" required`)
		m.attr("accept", data.Accept)
		m.raw(`></label><p class="hint">PDF, Word, OpenDocument, RTF or plain text, up to `)
		m.text(data.MaxSize)
		m.raw(`.</p><div class="actions"><button type="submit">Submit application</button><a`)
		m.href(data.CancelURL)
		m.raw(`>Cancel</a></div></form></section>`)

		return m.err
	})
	return Layout(page, body)
}

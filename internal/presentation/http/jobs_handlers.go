package http

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	stdhttp "net/http"
	"net/url"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"jobboard/app/internal/domain/jobs"
	"jobboard/app/internal/platform/validate"
	"jobboard/app/internal/presentation/http/templates"
)

const resumeAccept = ".pdf,.doc,.docx,.odt,.rtf,.txt"

type listJobsInput struct {
	Query  string `query:"q"`
	Notice string `query:"notice"`
}

type noticeInput struct {
	Notice string `query:"notice"`
}

type jobPathInput struct {
	ID     uint   `path:"id"`
	Notice string `query:"notice"`
}

type jobPathFormInput struct {
	ID      uint `path:"id"`
	RawBody multipart.Form
}

type resumeInput struct {
	ID          uint `path:"id"`
	ApplicantID uint `path:"applicantID"`
}

func (s *Server) registerJobRoutes() {
	huma.Get(s.api, "/jobs", s.listJobsHandler, htmlOperation(
		"List and search jobs",
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/jobs/new", s.newJobFormHandler, htmlOperation(
		"Job creation form",
		stdhttp.StatusFound,
	))
	huma.Post(s.api, "/jobs/new", s.createJobHandler, htmlOperation(
		"Create job",
		stdhttp.StatusSeeOther,
		stdhttp.StatusUnprocessableEntity,
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/jobs/{id}", s.jobDetailHandler, htmlOperation(
		"Job detail",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))

	huma.Get(s.api, "/jobs/{id}/edit", s.editJobFormHandler, htmlOperation(
		"Job edit form",
		stdhttp.StatusFound,
		stdhttp.StatusForbidden,
		stdhttp.StatusNotFound,
	))
	huma.Post(s.api, "/jobs/{id}/edit", s.updateJobHandler, htmlOperation(
		"Update job",
		stdhttp.StatusSeeOther,
		stdhttp.StatusForbidden,
		stdhttp.StatusNotFound,
		stdhttp.StatusUnprocessableEntity,
	))

	huma.Get(s.api, "/jobs/{id}/delete", s.deleteJobFormHandler, htmlOperation(
		"Job delete confirmation",
		stdhttp.StatusFound,
		stdhttp.StatusForbidden,
		stdhttp.StatusNotFound,
	))
	huma.Post(s.api, "/jobs/{id}/delete", s.deleteJobHandler, htmlOperation(
		"Delete job",
		stdhttp.StatusSeeOther,
		stdhttp.StatusForbidden,
		stdhttp.StatusNotFound,
	))

	huma.Get(s.api, "/jobs/{id}/apply", s.applyFormHandler, htmlOperation(
		"Application form",
		stdhttp.StatusFound,
		stdhttp.StatusUnauthorized,
		stdhttp.StatusNotFound,
	))
	huma.Post(s.api, "/jobs/{id}/apply", s.applyHandler, htmlOperation(
		"Submit application",
		stdhttp.StatusSeeOther,
		stdhttp.StatusBadRequest,
		stdhttp.StatusUnauthorized,
		stdhttp.StatusNotFound,
	), func(op *huma.Operation) {
		op.MaxBodyBytes = s.maxResumeBytes + 1<<20
	})

	huma.Get(s.api, "/jobs/{id}/applicants/{applicantID}/resume", s.resumeHandler, func(op *huma.Operation) {
		op.Summary = "Download applicant resume"
	})
}

func (s *Server) listJobsHandler(ctx context.Context, input *listJobsInput) (*htmlResponse, error) {
	query := strings.TrimSpace(input.Query)

	listings, err := s.jobs.List(ctx, query)
	if err != nil {
		return s.handleError(ctx, err, "listing jobs", logrus.Fields{"query": query})
	}

	data := templates.JobListData{
		Query:     query,
		Jobs:      make([]templates.JobCard, 0, len(listings)),
		CanCreate: s.jobs.CheckCreate(actorFromContext(ctx)) == nil,
	}

	for _, listing := range listings {
		data.Jobs = append(data.Jobs, templates.JobCard{
			URL:      jobURL(listing.ID),
			Title:    listing.Title,
			Company:  listing.Company,
			Location: listing.Location,
			Excerpt:  listing.Excerpt,
			Posted:   formatDate(listing.CreatedAt),
		})
	}

	if query != "" {
		for _, term := range s.jobs.RelatedSearches(ctx, query) {
			data.Related = append(data.Related, templates.RelatedSearch{
				Term: term,
				URL:  "/jobs?" + url.Values{"q": {term}}.Encode(),
			})
		}
	}

	title := "Jobs"
	if query != "" {
		title = "Jobs matching " + query
	}

	return s.renderPage(ctx, stdhttp.StatusOK, templates.JobListPage(s.pageFor(ctx, title, input.Notice), data), "job list")
}

func (s *Server) newJobFormHandler(ctx context.Context, input *noticeInput) (*htmlResponse, error) {
	if err := s.jobs.CheckCreate(actorFromContext(ctx)); err != nil {
		return redirectResponse(stdhttp.StatusFound, withNotice("/jobs", noticeAdminRequired)), nil
	}

	return s.renderJobForm(ctx, stdhttp.StatusOK, newJobForm(templates.JobFormValues{}, nil), input.Notice)
}

func (s *Server) createJobHandler(ctx context.Context, input *formInput) (*htmlResponse, error) {
	defer input.RawBody.RemoveAll()

	values := jobFormValues(&input.RawBody)
	job, err := s.jobs.Create(ctx, actorFromContext(ctx), jobInput(values))
	if err != nil {
		switch {
		case eris.Is(err, jobs.ErrAdminRequired):
			return redirectResponse(stdhttp.StatusSeeOther, withNotice("/jobs", noticeAdminRequired)), nil
		case validate.IsValidation(err):
			return s.renderJobForm(ctx, stdhttp.StatusUnprocessableEntity, newJobForm(values, validate.Fields(err)), "")
		default:
			return s.handleError(ctx, err, "creating job", nil)
		}
	}

	return redirectResponse(stdhttp.StatusSeeOther, withNotice(jobURL(job.ID), noticeJobCreated)), nil
}

func (s *Server) jobDetailHandler(ctx context.Context, input *jobPathInput) (*htmlResponse, error) {
	actor := actorFromContext(ctx)

	detail, err := s.jobs.Detail(ctx, input.ID, actor)
	if err != nil {
		return s.handleError(ctx, err, "loading job", logrus.Fields{"job_id": input.ID})
	}

	data := templates.JobDetailData{
		Title:           detail.Title,
		Company:         detail.Company,
		Location:        detail.Location,
		Posted:          formatDate(detail.CreatedAt),
		DescriptionHTML: detail.DescriptionHTML,
		EditURL:         jobURL(detail.ID) + "/edit",
		DeleteURL:       jobURL(detail.ID) + "/delete",
		ApplyURL:        jobURL(detail.ID) + "/apply",
		CanManage:       detail.CanManage,
		HasApplied:      detail.HasApplied,
		CanApply:        actor.Authenticated() && !detail.HasApplied,
	}

	if !actor.Authenticated() {
		data.LoginURL = loginURL(jobURL(detail.ID))
	}

	for _, applicant := range detail.Applicants {
		data.Applicants = append(data.Applicants, templates.ApplicantRow{
			Name:       applicant.ApplicantName,
			Email:      applicant.ApplicantEmail,
			ResumeName: applicant.ResumeName,
			ResumeURL:  fmt.Sprintf("%s/applicants/%d/resume", jobURL(detail.ID), applicant.ID),
			AppliedAt:  formatDate(applicant.CreatedAt),
		})
	}

	return s.renderPage(ctx, stdhttp.StatusOK, templates.JobDetailPage(s.pageFor(ctx, detail.Title, input.Notice), data), "job detail")
}

func (s *Server) editJobFormHandler(ctx context.Context, input *jobPathInput) (*htmlResponse, error) {
	job, err := s.jobs.Manageable(ctx, actorFromContext(ctx), input.ID)
	if err != nil {
		return s.manageError(ctx, err, input.ID, "/edit")
	}

	values := templates.JobFormValues{
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
	}

	return s.renderJobForm(ctx, stdhttp.StatusOK, editJobForm(job.ID, values, nil), input.Notice)
}

func (s *Server) updateJobHandler(ctx context.Context, input *jobPathFormInput) (*htmlResponse, error) {
	defer input.RawBody.RemoveAll()

	values := jobFormValues(&input.RawBody)
	job, err := s.jobs.Update(ctx, actorFromContext(ctx), input.ID, jobInput(values))
	if err != nil {
		if validate.IsValidation(err) {
			return s.renderJobForm(ctx, stdhttp.StatusUnprocessableEntity, editJobForm(input.ID, values, validate.Fields(err)), "")
		}
		return s.manageError(ctx, err, input.ID, "/edit")
	}

	return redirectResponse(stdhttp.StatusSeeOther, withNotice(jobURL(job.ID), noticeJobUpdated)), nil
}

func (s *Server) deleteJobFormHandler(ctx context.Context, input *jobPathInput) (*htmlResponse, error) {
	job, err := s.jobs.Manageable(ctx, actorFromContext(ctx), input.ID)
	if err != nil {
		return s.manageError(ctx, err, input.ID, "/delete")
	}

	data := templates.JobDeleteData{
		Title:     job.Title,
		Action:    jobURL(job.ID) + "/delete",
		CancelURL: jobURL(job.ID),
	}

	return s.renderPage(ctx, stdhttp.StatusOK, templates.JobDeletePage(s.pageFor(ctx, "Delete "+job.Title, input.Notice), data), "delete confirmation")
}

func (s *Server) deleteJobHandler(ctx context.Context, input *jobPathFormInput) (*htmlResponse, error) {
	defer input.RawBody.RemoveAll()

	if err := s.jobs.Delete(ctx, actorFromContext(ctx), input.ID); err != nil {
		return s.manageError(ctx, err, input.ID, "/delete")
	}

	return redirectResponse(stdhttp.StatusSeeOther, withNotice("/jobs", noticeJobDeleted)), nil
}

func (s *Server) applyFormHandler(ctx context.Context, input *jobPathInput) (*htmlResponse, error) {
	actor := actorFromContext(ctx)

	detail, err := s.jobs.Detail(ctx, input.ID, actor)
	if err != nil {
		return s.handleError(ctx, err, "loading job for application", logrus.Fields{"job_id": input.ID})
	}

	if !actor.Authenticated() {
		return s.handleError(ctx, jobs.ErrAuthRequired, "application requires login", logrus.Fields{"job_id": input.ID})
	}

	if detail.HasApplied {
		return redirectResponse(stdhttp.StatusFound, withNotice(jobURL(detail.ID), noticeAlreadyApplied)), nil
	}

	return s.renderApplyForm(ctx, stdhttp.StatusOK, &detail.Job, "", input.Notice)
}

func (s *Server) applyHandler(ctx context.Context, input *jobPathFormInput) (*htmlResponse, error) {
	defer input.RawBody.RemoveAll()

	fields := logrus.Fields{"job_id": input.ID}

	var upload *jobs.ResumeUpload
	if header := formFile(&input.RawBody, "resume"); header != nil {
		file, err := header.Open()
		if err != nil {
			return s.handleError(ctx, eris.Wrap(err, "opening uploaded resume"), "opening uploaded resume", fields)
		}
		defer file.Close()

		upload = &jobs.ResumeUpload{
			Filename: header.Filename,
			Size:     header.Size,
			Content:  file,
		}
	}

	_, err := s.jobs.Apply(ctx, actorFromContext(ctx), input.ID, upload)
	if err == nil {
		return redirectResponse(stdhttp.StatusSeeOther, withNotice(jobURL(input.ID), noticeApplied)), nil
	}

	switch {
	case eris.Is(err, jobs.ErrAlreadyApplied):
		return redirectResponse(stdhttp.StatusSeeOther, withNotice(jobURL(input.ID), noticeAlreadyApplied)), nil
	case eris.Is(err, jobs.ErrResumeRequired), eris.Is(err, jobs.ErrInvalidResume):
		detail, loadErr := s.jobs.Detail(ctx, input.ID, actorFromContext(ctx))
		if loadErr != nil {
			return s.handleError(ctx, loadErr, "reloading job for application", fields)
		}
		_, message := classifyError(err)
		return s.renderApplyForm(ctx, stdhttp.StatusBadRequest, &detail.Job, message, "")
	default:
		return s.handleError(ctx, err, "submitting application", fields)
	}
}

func (s *Server) resumeHandler(ctx context.Context, input *resumeInput) (*huma.StreamResponse, error) {
	fields := logrus.Fields{"job_id": input.ID, "applicant_id": input.ApplicantID}

	file, err := s.jobs.Resume(ctx, actorFromContext(ctx), input.ID, input.ApplicantID)
	if err != nil {
		resp, _ := s.handleError(ctx, err, "downloading resume", fields)
		return &huma.StreamResponse{Body: func(hctx huma.Context) {
			hctx.SetHeader("Content-Type", resp.ContentType)
			hctx.SetStatus(resp.Status)
			_, _ = hctx.BodyWriter().Write(resp.Body)
		}}, nil
	}

	return &huma.StreamResponse{Body: func(hctx huma.Context) {
		defer file.Body.Close()

		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		hctx.SetHeader("Content-Type", contentType)
		hctx.SetHeader("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
		hctx.SetHeader("Cache-Control", "private, no-store")
		hctx.SetHeader("X-Content-Type-Options", "nosniff")
		hctx.SetStatus(stdhttp.StatusOK)

		if _, err := io.Copy(hctx.BodyWriter(), file.Body); err != nil {
			s.recordError(ctx, err, "streaming resume", fields)
		}
	}}, nil
}

// manageError maps failures of owner-only job operations. Anonymous users are sent to login.
func (s *Server) manageError(ctx context.Context, err error, id uint, suffix string) (*htmlResponse, error) {
	if eris.Is(err, jobs.ErrAuthRequired) {
		return redirectResponse(stdhttp.StatusFound, loginURL(jobURL(id)+suffix)), nil
	}
	return s.handleError(ctx, err, "managing job", logrus.Fields{"job_id": id})
}

func (s *Server) renderJobForm(ctx context.Context, status int, data templates.JobFormData, notice string) (*htmlResponse, error) {
	return s.renderPage(ctx, status, templates.JobFormPage(s.pageFor(ctx, data.Heading, notice), data), "job form")
}

func (s *Server) renderApplyForm(ctx context.Context, status int, job *jobs.Job, message, notice string) (*htmlResponse, error) {
	data := templates.ApplyData{
		JobTitle:  job.Title,
		Action:    jobURL(job.ID) + "/apply",
		CancelURL: jobURL(job.ID),
		Accept:    resumeAccept,
		MaxSize:   formatBytes(s.maxResumeBytes),
		Error:     message,
	}
	return s.renderPage(ctx, status, templates.ApplyPage(s.pageFor(ctx, "Apply for "+job.Title, notice), data), "application form")
}

func newJobForm(values templates.JobFormValues, fieldErrors map[string]string) templates.JobFormData {
	return templates.JobFormData{
		Heading:   "Post a job",
		Action:    "/jobs/new",
		Submit:    "Create job",
		CancelURL: "/jobs",
		Values:    values,
		Errors:    fieldErrors,
	}
}

func editJobForm(id uint, values templates.JobFormValues, fieldErrors map[string]string) templates.JobFormData {
	return templates.JobFormData{
		Heading:   "Edit job",
		Action:    jobURL(id) + "/edit",
		Submit:    "Save changes",
		CancelURL: jobURL(id),
		Values:    values,
		Errors:    fieldErrors,
	}
}

func jobFormValues(form *multipart.Form) templates.JobFormValues {
	return templates.JobFormValues{
		Title:       formValue(form, "job_title"),
		Company:     formValue(form, "company"),
		Location:    formValue(form, "location"),
		Description: formValue(form, "job_description"),
	}
}

func jobInput(values templates.JobFormValues) jobs.Input {
	return jobs.Input{
		Title:       values.Title,
		Company:     values.Company,
		Location:    values.Location,
		Description: values.Description,
	}
}

func jobURL(id uint) string {
	return fmt.Sprintf("/jobs/%d", id)
}

package jobs

import (
	"context"
	"fmt"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"jobboard/app/internal/domain/llm"
	"jobboard/app/internal/platform/content"
	"jobboard/app/internal/platform/validate"
)

const (
	// DefaultMaxResumeBytes applies when ServiceOptions.MaxResumeBytes is zero.
	DefaultMaxResumeBytes = 5 << 20
	// RelatedSearchLimit caps the number of suggestions shown next to search results.
	RelatedSearchLimit = 5

	maxQueryLength   = 200
	excerptRuneLimit = 180
)

// Service defines the job board operations.
type Service interface {
	CheckCreate(actor Actor) error
	Create(ctx context.Context, actor Actor, input Input) (*Job, error)
	List(ctx context.Context, query string) ([]Listing, error)
	Detail(ctx context.Context, id uint, viewer Actor) (*Detail, error)
	Manageable(ctx context.Context, actor Actor, id uint) (*Job, error)
	Update(ctx context.Context, actor Actor, id uint, input Input) (*Job, error)
	Delete(ctx context.Context, actor Actor, id uint) error
	Apply(ctx context.Context, actor Actor, id uint, upload *ResumeUpload) (*Applicant, error)
	Resume(ctx context.Context, actor Actor, jobID, applicantID uint) (*ResumeFile, error)
	RelatedSearches(ctx context.Context, query string) []string
}

// Input is the validated shape of the job form.
type Input struct {
	Title       string `form:"job_title" validate:"notblank,max=200"`
	Company     string `form:"company" validate:"max=200"`
	Location    string `form:"location" validate:"notblank,max=200"`
	Description string `form:"job_description" validate:"notblank,max=20000"`
}

// ServiceOptions configures the jobs service. Suggester is optional.
type ServiceOptions struct {
	Repository     Repository
	Resumes        ResumeStore
	Suggester      llm.Suggester
	Logger         *logrus.Logger
	SentryHub      *sentry.Hub
	MaxResumeBytes int64
	NewKey         func() string
}

type service struct {
	repo           Repository
	resumes        ResumeStore
	suggester      llm.Suggester
	logger         *logrus.Logger
	sentryHub      *sentry.Hub
	maxResumeBytes int64
	newKey         func() string
}

var _ Service = (*service)(nil)

// NewService wires the jobs service with its dependencies.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.Repository == nil {
		return nil, eris.New("jobs repository is required")
	}
	if opts.Resumes == nil {
		return nil, eris.New("resume store is required")
	}

	maxBytes := opts.MaxResumeBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxResumeBytes
	}

	newKey := opts.NewKey
	if newKey == nil {
		newKey = func() string { return uuid.NewString() }
	}

	return &service{
		repo:           opts.Repository,
		resumes:        opts.Resumes,
		suggester:      opts.Suggester,
		logger:         opts.Logger,
		sentryHub:      opts.SentryHub,
		maxResumeBytes: maxBytes,
		newKey:         newKey,
	}, nil
}

func (s *service) CheckCreate(actor Actor) error {
	if !actor.Authenticated() || !actor.Admin {
		return ErrAdminRequired
	}
	return nil
}

func (s *service) Create(ctx context.Context, actor Actor, input Input) (*Job, error) {
	if err := s.CheckCreate(actor); err != nil {
		return nil, err
	}

	input = normalizeInput(input)
	if err := validate.Struct(input); err != nil {
		return nil, eris.Wrap(err, "validating job")
	}

	job := &Job{
		OwnerID:     actor.UserID,
		Title:       input.Title,
		Company:     input.Company,
		Location:    input.Location,
		Description: input.Description,
	}

	if err := s.repo.Create(ctx, job); err != nil {
		s.recordError(logrus.Fields{"owner_id": actor.UserID}, err, "creating job")
		return nil, eris.Wrap(err, "creating job")
	}

	return job, nil
}

func (s *service) List(ctx context.Context, query string) ([]Listing, error) {
	query = normalizeQuery(query)

	jobs, err := s.repo.List(ctx, query)
	if err != nil {
		s.recordError(logrus.Fields{"query": query}, err, "listing jobs")
		return nil, eris.Wrap(err, "listing jobs")
	}

	listings := make([]Listing, 0, len(jobs))
	for _, job := range jobs {
		listings = append(listings, Listing{
			Job:     job,
			Excerpt: content.Excerpt(s.renderDescription(job), excerptRuneLimit),
		})
	}

	return listings, nil
}

func (s *service) Detail(ctx context.Context, id uint, viewer Actor) (*Detail, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{
		Job:             *job,
		DescriptionHTML: s.renderDescription(*job),
		CanManage:       canManage(viewer, job),
	}

	if viewer.Authenticated() {
		applied, err := s.repo.HasApplied(ctx, job.ID, viewer.UserID)
		if err != nil {
			s.recordError(logrus.Fields{"job_id": job.ID, "user_id": viewer.UserID}, err, "checking application")
			return nil, eris.Wrap(err, "checking application")
		}
		detail.HasApplied = applied
	}

	if detail.CanManage {
		applicants, err := s.repo.ListApplicants(ctx, job.ID)
		if err != nil {
			s.recordError(logrus.Fields{"job_id": job.ID}, err, "listing applicants")
			return nil, eris.Wrap(err, "listing applicants")
		}
		detail.Applicants = applicants
	}

	return detail, nil
}

func (s *service) Manageable(ctx context.Context, actor Actor, id uint) (*Job, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthRequired
	}

	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canManage(actor, job) {
		return nil, eris.Wrapf(ErrForbidden, "job %d", id)
	}

	return job, nil
}

func (s *service) Update(ctx context.Context, actor Actor, id uint, input Input) (*Job, error) {
	job, err := s.Manageable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	input = normalizeInput(input)
	if err := validate.Struct(input); err != nil {
		return nil, eris.Wrap(err, "validating job")
	}

	job.Title = input.Title
	job.Company = input.Company
	job.Location = input.Location
	job.Description = input.Description

	if err := s.repo.Update(ctx, job); err != nil {
		s.recordError(logrus.Fields{"job_id": id}, err, "updating job")
		return nil, eris.Wrapf(err, "updating job %d", id)
	}

	return job, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id uint) error {
	job, err := s.Manageable(ctx, actor, id)
	if err != nil {
		return err
	}

	applicants, err := s.repo.ListApplicants(ctx, job.ID)
	if err != nil {
		s.recordError(logrus.Fields{"job_id": id}, err, "listing applicants before delete")
		return eris.Wrapf(err, "listing applicants for job %d", id)
	}

	if err := s.repo.Delete(ctx, job.ID); err != nil {
		s.recordError(logrus.Fields{"job_id": id}, err, "deleting job")
		return eris.Wrapf(err, "deleting job %d", id)
	}

	for _, applicant := range applicants {
		if err := s.resumes.Delete(ctx, applicant.ResumeKey); err != nil {
			s.recordError(logrus.Fields{"job_id": id, "key": applicant.ResumeKey}, err, "deleting stored resume")
		}
	}

	return nil
}

func (s *service) Apply(ctx context.Context, actor Actor, id uint, upload *ResumeUpload) (*Applicant, error) {
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.Authenticated() {
		return nil, ErrAuthRequired
	}

	applied, err := s.repo.HasApplied(ctx, job.ID, actor.UserID)
	if err != nil {
		s.recordError(logrus.Fields{"job_id": job.ID, "user_id": actor.UserID}, err, "checking application")
		return nil, eris.Wrap(err, "checking application")
	}
	if applied {
		return nil, eris.Wrapf(ErrAlreadyApplied, "job %d", job.ID)
	}

	resume, err := inspectResume(upload, s.maxResumeBytes)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("resumes/%d/%s%s", job.ID, s.newKey(), resume.extension)
	if err := s.resumes.Put(ctx, key, upload.Content, upload.Size, resume.contentType); err != nil {
		s.recordError(logrus.Fields{"job_id": job.ID, "key": key}, err, "storing resume")
		return nil, eris.Wrap(err, "storing resume")
	}

	applicant := &Applicant{
		JobID:             job.ID,
		UserID:            actor.UserID,
		ResumeKey:         key,
		ResumeName:        resume.name,
		ResumeContentType: resume.contentType,
		ResumeSize:        upload.Size,
	}

	if err := s.repo.CreateApplicant(ctx, applicant); err != nil {
		if deleteErr := s.resumes.Delete(ctx, key); deleteErr != nil {
			s.recordError(logrus.Fields{"key": key}, deleteErr, "removing orphaned resume")
		}
		if eris.Is(err, ErrAlreadyApplied) {
			return nil, err
		}
		s.recordError(logrus.Fields{"job_id": job.ID, "user_id": actor.UserID}, err, "creating applicant")
		return nil, eris.Wrap(err, "creating applicant")
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"job_id":  job.ID,
			"user_id": actor.UserID,
			"size":    upload.Size,
		}).Info("application submitted")
	}

	return applicant, nil
}

func (s *service) Resume(ctx context.Context, actor Actor, jobID, applicantID uint) (*ResumeFile, error) {
	if !actor.Authenticated() {
		return nil, ErrAuthRequired
	}

	job, err := s.load(ctx, jobID)
	if err != nil {
		return nil, err
	}

	applicant, err := s.repo.GetApplicant(ctx, jobID, applicantID)
	if err != nil {
		s.recordError(logrus.Fields{"job_id": jobID, "applicant_id": applicantID}, err, "loading applicant")
		return nil, eris.Wrap(err, "loading applicant")
	}
	if applicant == nil {
		return nil, eris.Wrapf(ErrApplicantNotFound, "applicant %d of job %d", applicantID, jobID)
	}

	if !canManage(actor, job) && applicant.UserID != actor.UserID {
		return nil, eris.Wrapf(ErrForbidden, "resume of applicant %d", applicantID)
	}

	body, err := s.resumes.Open(ctx, applicant.ResumeKey)
	if err != nil {
		s.recordError(logrus.Fields{"key": applicant.ResumeKey}, err, "opening stored resume")
		return nil, eris.Wrap(err, "opening stored resume")
	}

	return &ResumeFile{
		Name:        applicant.ResumeName,
		ContentType: applicant.ResumeContentType,
		Size:        applicant.ResumeSize,
		Body:        body,
	}, nil
}

func (s *service) RelatedSearches(ctx context.Context, query string) []string {
	query = normalizeQuery(query)
	if s.suggester == nil || query == "" {
		return nil
	}

	suggestions, err := s.suggester.Suggest(ctx, query, RelatedSearchLimit)
	if err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"query": query,
				"error": err.Error(),
			}).Warn("related search suggestions failed")
		}
		return nil
	}

	seen := map[string]struct{}{strings.ToLower(query): {}}
	related := make([]string, 0, len(suggestions))
	for _, suggestion := range suggestions {
		trimmed := strings.TrimSpace(suggestion)
		key := strings.ToLower(trimmed)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		related = append(related, trimmed)
		if len(related) == RelatedSearchLimit {
			break
		}
	}

	return related
}

func (s *service) load(ctx context.Context, id uint) (*Job, error) {
	if id == 0 {
		return nil, eris.Wrap(ErrJobNotFound, "job id is required")
	}

	job, err := s.repo.Get(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"job_id": id}, err, "loading job")
		return nil, eris.Wrapf(err, "loading job %d", id)
	}
	if job == nil {
		return nil, eris.Wrapf(ErrJobNotFound, "job %d", id)
	}

	return job, nil
}

func (s *service) renderDescription(job Job) string {
	rendered, err := content.Render(job.Description)
	if err != nil {
		s.recordError(logrus.Fields{"job_id": job.ID}, err, "rendering job description")
		return content.Sanitize(job.Description)
	}
	return rendered
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}

func canManage(actor Actor, job *Job) bool {
	if !actor.Authenticated() || job == nil {
		return false
	}
	return actor.Admin || job.OwnerID == actor.UserID
}

func normalizeInput(input Input) Input {
	input.Title = strings.TrimSpace(input.Title)
	input.Company = strings.TrimSpace(input.Company)
	input.Location = strings.TrimSpace(input.Location)
	input.Description = strings.TrimSpace(input.Description)
	return input
}

func normalizeQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if runes := []rune(query); len(runes) > maxQueryLength {
		query = string(runes[:maxQueryLength])
	}
	return query
}

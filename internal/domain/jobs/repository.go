package jobs

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
)

var (
	ErrJobNotFound       = eris.New("job not found")
	ErrApplicantNotFound = eris.New("applicant not found")
	ErrAdminRequired     = eris.New("only admin users can create jobs")
	ErrAuthRequired      = eris.New("authentication required")
	ErrForbidden         = eris.New("not allowed to manage this job")
	ErrAlreadyApplied    = eris.New("already applied for this job")
	ErrResumeRequired    = eris.New("resume is required")
	ErrInvalidResume     = eris.New("resume rejected")
)

// Repository defines persistence operations supported by the jobs domain.
// Getters return nil without error when nothing matches.
type Repository interface {
	Create(ctx context.Context, job *Job) error
	Update(ctx context.Context, job *Job) error
	// Delete removes the job together with its applicants.
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*Job, error)
	// List returns jobs newest first, filtered case-insensitively on title, description or location.
	List(ctx context.Context, query string) ([]Job, error)

	ListApplicants(ctx context.Context, jobID uint) ([]Applicant, error)
	HasApplied(ctx context.Context, jobID, userID uint) (bool, error)
	// CreateApplicant reports ErrAlreadyApplied when the user already applied.
	CreateApplicant(ctx context.Context, applicant *Applicant) error
	GetApplicant(ctx context.Context, jobID, applicantID uint) (*Applicant, error)
}

// ResumeStore keeps resume files keyed by an opaque object key.
type ResumeStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

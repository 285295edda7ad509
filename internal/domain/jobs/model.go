package jobs

import (
	"io"
	"time"
)

// Job is a posting created by an admin.
type Job struct {
	ID          uint
	OwnerID     uint
	Title       string
	Company     string
	Location    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Applicant is one user's application to a job, with the stored resume metadata.
type Applicant struct {
	ID                uint
	JobID             uint
	UserID            uint
	ResumeKey         string
	ResumeName        string
	ResumeContentType string
	ResumeSize        int64
	CreatedAt         time.Time

	// Filled by repository reads for display.
	ApplicantName  string
	ApplicantEmail string
}

// Actor is the user performing an operation. A zero UserID means anonymous.
type Actor struct {
	UserID uint
	Admin  bool
}

// Authenticated reports whether the actor is logged in.
func (a Actor) Authenticated() bool {
	return a.UserID != 0
}

// Listing is a job prepared for the list page.
type Listing struct {
	Job
	Excerpt string
}

// Detail is a job prepared for its own page.
type Detail struct {
	Job
	DescriptionHTML string
	Applicants      []Applicant
	HasApplied      bool
	CanManage       bool
}

// ResumeUpload is a resume file received from a form.
type ResumeUpload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// ResumeFile is an opened stored resume. Callers must close Body.
type ResumeFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

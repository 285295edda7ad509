package jobs

import (
	"time"

	"gorm.io/gorm"
)

// JobRecord represents a job posting persisted in the database.
type JobRecord struct {
	gorm.Model
	OwnerID     uint   `gorm:"index;not null"`
	Title       string `gorm:"size:200;not null"`
	Company     string `gorm:"size:200"`
	Location    string `gorm:"size:200;not null"`
	Description string `gorm:"type:text;not null"`
}

func (JobRecord) TableName() string {
	return "jobs"
}

// ApplicantRecord stores one user's application to a job. A user applies at most once per job.
type ApplicantRecord struct {
	ID                uint      `gorm:"primaryKey"`
	JobID             uint      `gorm:"uniqueIndex:idx_job_applicants_job_user;not null"`
	Job               JobRecord `gorm:"constraint:OnDelete:CASCADE"`
	UserID            uint      `gorm:"uniqueIndex:idx_job_applicants_job_user;index;not null"`
	ResumeKey         string    `gorm:"size:512;not null"`
	ResumeName        string    `gorm:"size:255;not null"`
	ResumeContentType string    `gorm:"size:255;not null"`
	ResumeSize        int64     `gorm:"not null"`
	CreatedAt         time.Time
}

func (ApplicantRecord) TableName() string {
	return "job_applicants"
}

// applicantRow is the read model joined with the applicant's account.
type applicantRow struct {
	ID                uint
	JobID             uint
	UserID            uint
	ResumeKey         string
	ResumeName        string
	ResumeContentType string
	ResumeSize        int64
	CreatedAt         time.Time
	ApplicantName     string
	ApplicantEmail    string
}

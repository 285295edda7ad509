package jobs

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainjobs "jobboard/app/internal/domain/jobs"
)

// Repository persists jobs and applicants using a Gorm database connection.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

var _ domainjobs.Repository = (*Repository)(nil)

func (r *Repository) Create(ctx context.Context, job *domainjobs.Job) error {
	if job == nil {
		return eris.New("job is nil")
	}

	record := toJobRecord(job)
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.logError(logrus.Fields{"owner_id": job.OwnerID}, err, "creating job")
		return eris.Wrap(err, "creating job")
	}

	job.ID = record.ID
	job.CreatedAt = record.CreatedAt
	job.UpdatedAt = record.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, job *domainjobs.Job) error {
	if job == nil || job.ID == 0 {
		return eris.New("persisted job is required")
	}

	result := r.db.WithContext(ctx).Model(&JobRecord{}).Where("id = ?", job.ID).Updates(map[string]any{
		"title":       job.Title,
		"company":     job.Company,
		"location":    job.Location,
		"description": job.Description,
	})
	if result.Error != nil {
		r.logError(logrus.Fields{"job_id": job.ID}, result.Error, "updating job")
		return eris.Wrapf(result.Error, "updating job %d", job.ID)
	}
	if result.RowsAffected == 0 {
		return eris.Wrapf(domainjobs.ErrJobNotFound, "job %d", job.ID)
	}

	return nil
}

// Delete removes the job and its applicants in one transaction.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&ApplicantRecord{}).Error; err != nil {
			return eris.Wrap(err, "deleting applicants")
		}

		result := tx.Delete(&JobRecord{}, id)
		if result.Error != nil {
			return eris.Wrap(result.Error, "deleting job")
		}
		if result.RowsAffected == 0 {
			return eris.Wrapf(domainjobs.ErrJobNotFound, "job %d", id)
		}
		return nil
	})
	if err != nil && !eris.Is(err, domainjobs.ErrJobNotFound) {
		r.logError(logrus.Fields{"job_id": id}, err, "deleting job")
	}
	return err
}

func (r *Repository) Get(ctx context.Context, id uint) (*domainjobs.Job, error) {
	var record JobRecord

	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"job_id": id}, err, "fetching job")
		return nil, eris.Wrapf(err, "fetching job %d", id)
	}

	return toDomainJob(&record), nil
}

func (r *Repository) List(ctx context.Context, query string) ([]domainjobs.Job, error) {
	var records []JobRecord

	tx := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		pattern := "%" + escapeLike(strings.ToLower(trimmed)) + "%"
		tx = tx.Where(
			"LOWER(title) LIKE ? ESCAPE '\\' OR LOWER(description) LIKE ? ESCAPE '\\' OR LOWER(location) LIKE ? ESCAPE '\\'",
			pattern, pattern, pattern,
		)
	}

	if err := tx.Find(&records).Error; err != nil {
		r.logError(logrus.Fields{"query": query}, err, "listing jobs")
		return nil, eris.Wrap(err, "listing jobs")
	}

	jobs := make([]domainjobs.Job, 0, len(records))
	for i := range records {
		jobs = append(jobs, *toDomainJob(&records[i]))
	}

	return jobs, nil
}

func (r *Repository) ListApplicants(ctx context.Context, jobID uint) ([]domainjobs.Applicant, error) {
	var rows []applicantRow

	err := r.applicantQuery(ctx).
		Where("job_applicants.job_id = ?", jobID).
		Order("job_applicants.created_at ASC").
		Order("job_applicants.id ASC").
		Scan(&rows).Error
	if err != nil {
		r.logError(logrus.Fields{"job_id": jobID}, err, "listing applicants")
		return nil, eris.Wrapf(err, "listing applicants for job %d", jobID)
	}

	applicants := make([]domainjobs.Applicant, 0, len(rows))
	for i := range rows {
		applicants = append(applicants, toDomainApplicant(&rows[i]))
	}

	return applicants, nil
}

func (r *Repository) HasApplied(ctx context.Context, jobID, userID uint) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).Model(&ApplicantRecord{}).
		Where("job_id = ? AND user_id = ?", jobID, userID).
		Count(&count).Error
	if err != nil {
		r.logError(logrus.Fields{"job_id": jobID, "user_id": userID}, err, "checking application")
		return false, eris.Wrap(err, "checking application")
	}

	return count > 0, nil
}

// CreateApplicant stores an application. The (job, user) unique index maps to ErrAlreadyApplied.
func (r *Repository) CreateApplicant(ctx context.Context, applicant *domainjobs.Applicant) error {
	if applicant == nil {
		return eris.New("applicant is nil")
	}

	record := &ApplicantRecord{
		JobID:             applicant.JobID,
		UserID:            applicant.UserID,
		ResumeKey:         applicant.ResumeKey,
		ResumeName:        applicant.ResumeName,
		ResumeContentType: applicant.ResumeContentType,
		ResumeSize:        applicant.ResumeSize,
	}

	if err := r.db.WithContext(ctx).Omit("Job").Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return eris.Wrapf(domainjobs.ErrAlreadyApplied, "job %d user %d", applicant.JobID, applicant.UserID)
		}
		r.logError(logrus.Fields{"job_id": applicant.JobID, "user_id": applicant.UserID}, err, "creating applicant")
		return eris.Wrap(err, "creating applicant")
	}

	applicant.ID = record.ID
	applicant.CreatedAt = record.CreatedAt
	return nil
}

func (r *Repository) GetApplicant(ctx context.Context, jobID, applicantID uint) (*domainjobs.Applicant, error) {
	var rows []applicantRow

	err := r.applicantQuery(ctx).
		Where("job_applicants.job_id = ? AND job_applicants.id = ?", jobID, applicantID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		r.logError(logrus.Fields{"job_id": jobID, "applicant_id": applicantID}, err, "fetching applicant")
		return nil, eris.Wrap(err, "fetching applicant")
	}

	if len(rows) == 0 {
		return nil, nil
	}

	applicant := toDomainApplicant(&rows[0])
	return &applicant, nil
}

func (r *Repository) applicantQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("job_applicants").
		Select("job_applicants.*, COALESCE(users.name, '') AS applicant_name, COALESCE(users.email, '') AS applicant_email").
		Joins("LEFT JOIN users ON users.id = job_applicants.user_id")
}

func (r *Repository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil || err == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") || strings.Contains(lower, "duplicate key")
}

func toJobRecord(job *domainjobs.Job) *JobRecord {
	return &JobRecord{
		OwnerID:     job.OwnerID,
		Title:       job.Title,
		Company:     job.Company,
		Location:    job.Location,
		Description: job.Description,
	}
}

func toDomainJob(record *JobRecord) *domainjobs.Job {
	return &domainjobs.Job{
		ID:          record.ID,
		OwnerID:     record.OwnerID,
		Title:       record.Title,
		Company:     record.Company,
		Location:    record.Location,
		Description: record.Description,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toDomainApplicant(row *applicantRow) domainjobs.Applicant {
	return domainjobs.Applicant{
		ID:                row.ID,
		JobID:             row.JobID,
		UserID:            row.UserID,
		ResumeKey:         row.ResumeKey,
		ResumeName:        row.ResumeName,
		ResumeContentType: row.ResumeContentType,
		ResumeSize:        row.ResumeSize,
		CreatedAt:         row.CreatedAt,
		ApplicantName:     row.ApplicantName,
		ApplicantEmail:    row.ApplicantEmail,
	}
}

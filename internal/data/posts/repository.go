package posts

import (
	"context"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainposts "jobboard/app/internal/domain/posts"
	"jobboard/app/internal/domain/slug"
)

// Repository persists posts using a Gorm database connection.
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

var (
	_ domainposts.Repository = (*Repository)(nil)
	_ slug.Checker           = (*Repository)(nil)
)

// SlugExists reports whether any post, including soft-deleted ones, already holds value.
func (r *Repository) SlugExists(ctx context.Context, value string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).Unscoped().Model(&PostRecord{}).Where("slug = ?", value).Count(&count).Error
	if err != nil {
		r.logError(logrus.Fields{"slug": value}, err, "checking post slug")
		return false, eris.Wrapf(err, "checking post slug: %s", value)
	}

	return count > 0, nil
}

// Create stores a new post. A unique index violation is reported as ErrDuplicateSlug.
func (r *Repository) Create(ctx context.Context, post *domainposts.Post) error {
	if post == nil {
		return eris.New("post is nil")
	}

	trimmedSlug := strings.TrimSpace(post.Slug)
	if trimmedSlug == "" {
		return eris.New("post slug is required")
	}

	record := &PostRecord{
		AuthorID: post.AuthorID,
		Content:  post.Content,
		Slug:     trimmedSlug,
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return eris.Wrapf(domainposts.ErrDuplicateSlug, "slug: %s", trimmedSlug)
		}
		r.logError(logrus.Fields{"slug": trimmedSlug}, err, "creating post")
		return eris.Wrapf(err, "creating post: %s", trimmedSlug)
	}

	post.ID = record.ID
	post.Slug = record.Slug
	post.CreatedAt = record.CreatedAt
	post.UpdatedAt = record.UpdatedAt
	return nil
}

// GetBySlug returns the post for the provided slug or nil when not found.
func (r *Repository) GetBySlug(ctx context.Context, value string) (*domainposts.Post, error) {
	var record PostRecord

	err := r.db.WithContext(ctx).First(&record, "slug = ?", value).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"slug": value}, err, "fetching post by slug")
		return nil, eris.Wrapf(err, "fetching post by slug: %s", value)
	}

	return toDomainPost(&record), nil
}

// List returns the newest posts first.
func (r *Repository) List(ctx context.Context, limit int) ([]domainposts.Post, error) {
	var records []PostRecord

	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		r.logError(nil, err, "listing posts")
		return nil, eris.Wrap(err, "listing posts")
	}

	posts := make([]domainposts.Post, 0, len(records))
	for i := range records {
		posts = append(posts, *toDomainPost(&records[i]))
	}

	return posts, nil
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

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "unique") || strings.Contains(lower, "duplicate key")
}

func toDomainPost(record *PostRecord) *domainposts.Post {
	if record == nil {
		return nil
	}

	return &domainposts.Post{
		ID:        record.ID,
		AuthorID:  record.AuthorID,
		Content:   record.Content,
		Slug:      strings.TrimSpace(record.Slug),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

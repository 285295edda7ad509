package posts

import (
	"context"

	"github.com/rotisserie/eris"
)

var (
	// ErrPostNotFound is returned when no post matches the requested slug.
	ErrPostNotFound = eris.New("post not found")
	// ErrDuplicateSlug is returned by repositories when the slug unique index rejects an insert.
	ErrDuplicateSlug = eris.New("post slug already exists")
)

// Repository defines persistence operations supported by the posts domain.
type Repository interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, post *Post) error
	// GetBySlug returns nil without error when the slug is unknown.
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	List(ctx context.Context, limit int) ([]Post, error)
}

package posts

import (
	"time"

	"jobboard/app/internal/domain/slug"
)

// Post is an entry in the posts feed. Its slug is derived from Content once, before the first save.
type Post struct {
	ID        uint
	AuthorID  uint
	Content   string
	Slug      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

var _ slug.Record = (*Post)(nil)

func (p *Post) SlugValue() string  { return p.Slug }
func (p *Post) SetSlug(s string)   { p.Slug = s }
func (p *Post) SlugSource() string { return p.Content }

// View is a post prepared for display.
type View struct {
	Post
	HTML    string
	Excerpt string
}

package posts

import "gorm.io/gorm"

// PostRecord represents a feed post persisted in the database.
type PostRecord struct {
	gorm.Model
	AuthorID uint   `gorm:"index;not null"`
	Content  string `gorm:"type:text;not null"`
	Slug     string `gorm:"size:255;uniqueIndex:idx_posts_slug;not null"`
}

// TableName defines the table name for the Post model.
func (PostRecord) TableName() string {
	return "posts"
}

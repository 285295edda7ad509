package accounts

import (
	"time"

	"gorm.io/gorm"
)

// UserRecord represents a registered account persisted in the database.
type UserRecord struct {
	gorm.Model
	Email        string `gorm:"size:254;uniqueIndex:idx_users_email;not null"`
	Name         string `gorm:"size:100;not null"`
	PasswordHash string `gorm:"size:100;not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
}

func (UserRecord) TableName() string {
	return "users"
}

// SessionRecord stores an opaque login token.
type SessionRecord struct {
	ID        uint       `gorm:"primaryKey"`
	Token     string     `gorm:"size:64;uniqueIndex:idx_sessions_token;not null"`
	UserID    uint       `gorm:"index;not null"`
	User      UserRecord `gorm:"constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	CreatedAt time.Time
}

func (SessionRecord) TableName() string {
	return "sessions"
}

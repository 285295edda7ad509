package accounts

import "time"

// User is a registered account. Admins may post jobs.
type User struct {
	ID           uint
	Email        string
	Name         string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session binds an opaque cookie token to a user until ExpiresAt.
type Session struct {
	ID        uint
	Token     string
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

package accounts

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
)

var (
	ErrEmailTaken         = eris.New("email already registered")
	ErrInvalidCredentials = eris.New("invalid email or password")
	ErrSessionNotFound    = eris.New("session not found or expired")
)

// Repository defines persistence operations for users and sessions.
// Getters return nil without error when nothing matches.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id uint) (*User, error)

	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

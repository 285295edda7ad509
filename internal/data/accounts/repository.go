package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	domainaccounts "jobboard/app/internal/domain/accounts"
)

// Repository persists users and sessions using a Gorm database connection.
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

var _ domainaccounts.Repository = (*Repository)(nil)

// CreateUser stores a new user. A taken email is reported as ErrEmailTaken.
func (r *Repository) CreateUser(ctx context.Context, user *domainaccounts.User) error {
	if user == nil {
		return eris.New("user is nil")
	}

	record := &UserRecord{
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		IsAdmin:      user.IsAdmin,
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isUniqueViolation(err) {
			return eris.Wrapf(domainaccounts.ErrEmailTaken, "email: %s", user.Email)
		}
		r.logError(logrus.Fields{"email": user.Email}, err, "creating user")
		return eris.Wrap(err, "creating user")
	}

	user.ID = record.ID
	user.CreatedAt = record.CreatedAt
	user.UpdatedAt = record.UpdatedAt
	return nil
}

// UpdateUser saves name, password hash and admin flag of an existing user.
func (r *Repository) UpdateUser(ctx context.Context, user *domainaccounts.User) error {
	if user == nil || user.ID == 0 {
		return eris.New("persisted user is required")
	}

	result := r.db.WithContext(ctx).Model(&UserRecord{}).Where("id = ?", user.ID).Updates(map[string]any{
		"name":          user.Name,
		"password_hash": user.PasswordHash,
		"is_admin":      user.IsAdmin,
	})
	if result.Error != nil {
		r.logError(logrus.Fields{"user_id": user.ID}, result.Error, "updating user")
		return eris.Wrapf(result.Error, "updating user %d", user.ID)
	}
	if result.RowsAffected == 0 {
		return eris.Errorf("user %d not found", user.ID)
	}

	return nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domainaccounts.User, error) {
	return r.findUser(ctx, logrus.Fields{"email": email}, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*domainaccounts.User, error) {
	return r.findUser(ctx, logrus.Fields{"user_id": id}, "id = ?", id)
}

func (r *Repository) findUser(ctx context.Context, fields logrus.Fields, query string, arg any) (*domainaccounts.User, error) {
	var record UserRecord

	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(fields, err, "fetching user")
		return nil, eris.Wrap(err, "fetching user")
	}

	return toDomainUser(&record), nil
}

func (r *Repository) CreateSession(ctx context.Context, session *domainaccounts.Session) error {
	if session == nil {
		return eris.New("session is nil")
	}

	record := &SessionRecord{
		Token:     session.Token,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Omit("User").Create(record).Error; err != nil {
		r.logError(logrus.Fields{"user_id": session.UserID}, err, "creating session")
		return eris.Wrap(err, "creating session")
	}

	session.ID = record.ID
	return nil
}

func (r *Repository) GetSession(ctx context.Context, token string) (*domainaccounts.Session, error) {
	var record SessionRecord

	if err := r.db.WithContext(ctx).First(&record, "token = ?", token).Error; err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(nil, err, "fetching session")
		return nil, eris.Wrap(err, "fetching session")
	}

	return &domainaccounts.Session{
		ID:        record.ID,
		Token:     record.Token,
		UserID:    record.UserID,
		ExpiresAt: record.ExpiresAt,
		CreatedAt: record.CreatedAt,
	}, nil
}

func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&SessionRecord{}).Error; err != nil {
		r.logError(nil, err, "deleting session")
		return eris.Wrap(err, "deleting session")
	}
	return nil
}

func (r *Repository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&SessionRecord{})
	if result.Error != nil {
		r.logError(nil, result.Error, "deleting expired sessions")
		return 0, eris.Wrap(result.Error, "deleting expired sessions")
	}
	return result.RowsAffected, nil
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

func toDomainUser(record *UserRecord) *domainaccounts.User {
	return &domainaccounts.User{
		ID:           record.ID,
		Email:        record.Email,
		Name:         record.Name,
		PasswordHash: record.PasswordHash,
		IsAdmin:      record.IsAdmin,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
}

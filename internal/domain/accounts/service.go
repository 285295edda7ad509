package accounts

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"jobboard/app/internal/platform/validate"
)

const (
	// DefaultSessionTTL applies when ServiceOptions.SessionTTL is zero.
	DefaultSessionTTL = 7 * 24 * time.Hour

	tokenBytes = 32
)

// Service defines account and session operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	CreateSession(ctx context.Context, userID uint) (*Session, error)
	ResolveSession(ctx context.Context, token string) (*User, error)
	DeleteSession(ctx context.Context, token string) error
	PruneSessions(ctx context.Context) (int64, error)
	EnsureAdmin(ctx context.Context, input RegisterInput) (*User, bool, error)
	SessionTTL() time.Duration
}

// RegisterInput is the validated shape of a sign-up form.
type RegisterInput struct {
	Email    string `form:"email" validate:"required,email,max=254"`
	Name     string `form:"name" validate:"notblank,max=100"`
	Password string `form:"password" validate:"min=8,max=72,maxbytes=72"`
}

// ServiceOptions configures the accounts service.
type ServiceOptions struct {
	Repository   Repository
	Logger       *logrus.Logger
	SentryHub    *sentry.Hub
	SessionTTL   time.Duration
	PasswordCost int
	Now          func() time.Time
}

type service struct {
	repo         Repository
	logger       *logrus.Logger
	sentryHub    *sentry.Hub
	sessionTTL   time.Duration
	passwordCost int
	now          func() time.Time
}

var _ Service = (*service)(nil)

// NewService wires the accounts service with its dependencies.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.Repository == nil {
		return nil, eris.New("accounts repository is required")
	}

	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	cost := opts.PasswordCost
	if cost == 0 {
		cost = DefaultPasswordCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, eris.Errorf("password cost %d out of range", cost)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &service{
		repo:         opts.Repository,
		logger:       opts.Logger,
		sentryHub:    opts.SentryHub,
		sessionTTL:   ttl,
		passwordCost: cost,
		now:          now,
	}, nil
}

func (s *service) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	input = normalizeInput(input)
	if err := validate.Struct(input); err != nil {
		return nil, eris.Wrap(err, "validating registration")
	}

	existing, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil {
		s.recordError(logrus.Fields{"email": input.Email}, err, "looking up user by email")
		return nil, eris.Wrap(err, "looking up user by email")
	}
	if existing != nil {
		return nil, eris.Wrapf(ErrEmailTaken, "email: %s", input.Email)
	}

	hash, err := hashPassword(input.Password, s.passwordCost)
	if err != nil {
		return nil, err
	}

	user := &User{Email: input.Email, Name: input.Name, PasswordHash: hash}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if eris.Is(err, ErrEmailTaken) {
			return nil, err
		}
		s.recordError(logrus.Fields{"email": input.Email}, err, "creating user")
		return nil, eris.Wrap(err, "creating user")
	}

	return user, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	normalized := normalizeEmail(email)
	if normalized == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(ctx, normalized)
	if err != nil {
		s.recordError(logrus.Fields{"email": normalized}, err, "looking up user for login")
		return nil, eris.Wrap(err, "looking up user for login")
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := verifyPassword(user.PasswordHash, password); err != nil {
		if eris.Is(err, ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		s.recordError(logrus.Fields{"user_id": user.ID}, err, "verifying password")
		return nil, err
	}

	return user, nil
}

func (s *service) CreateSession(ctx context.Context, userID uint) (*Session, error) {
	if userID == 0 {
		return nil, eris.New("user id is required")
	}

	token, err := generateToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		s.recordError(logrus.Fields{"user_id": userID}, err, "creating session")
		return nil, eris.Wrap(err, "creating session")
	}

	return session, nil
}

func (s *service) ResolveSession(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrSessionNotFound
	}

	session, err := s.repo.GetSession(ctx, token)
	if err != nil {
		s.recordError(nil, err, "loading session")
		return nil, eris.Wrap(err, "loading session")
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.Expired(s.now()) {
		if err := s.repo.DeleteSession(ctx, token); err != nil {
			s.recordError(logrus.Fields{"user_id": session.UserID}, err, "deleting expired session")
		}
		return nil, ErrSessionNotFound
	}

	user, err := s.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		s.recordError(logrus.Fields{"user_id": session.UserID}, err, "loading session user")
		return nil, eris.Wrap(err, "loading session user")
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}

	return user, nil
}

func (s *service) DeleteSession(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	if err := s.repo.DeleteSession(ctx, token); err != nil {
		s.recordError(nil, err, "deleting session")
		return eris.Wrap(err, "deleting session")
	}

	return nil
}

func (s *service) PruneSessions(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpiredSessions(ctx, s.now().UTC())
	if err != nil {
		s.recordError(nil, err, "pruning expired sessions")
		return 0, eris.Wrap(err, "pruning expired sessions")
	}

	if removed > 0 && s.logger != nil {
		s.logger.WithField("removed", removed).Info("pruned expired sessions")
	}

	return removed, nil
}

// EnsureAdmin creates the admin account or promotes and re-keys an existing one.
// The boolean reports whether a new user was created.
func (s *service) EnsureAdmin(ctx context.Context, input RegisterInput) (*User, bool, error) {
	input = normalizeInput(input)
	if err := validate.Struct(input); err != nil {
		return nil, false, eris.Wrap(err, "validating admin account")
	}

	hash, err := hashPassword(input.Password, s.passwordCost)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.repo.GetUserByEmail(ctx, input.Email)
	if err != nil {
		return nil, false, eris.Wrap(err, "looking up admin by email")
	}

	if existing != nil {
		existing.IsAdmin = true
		existing.PasswordHash = hash
		if input.Name != "" {
			existing.Name = input.Name
		}
		if err := s.repo.UpdateUser(ctx, existing); err != nil {
			return nil, false, eris.Wrap(err, "promoting existing user")
		}
		return existing, false, nil
	}

	user := &User{Email: input.Email, Name: input.Name, PasswordHash: hash, IsAdmin: true}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, false, eris.Wrap(err, "creating admin user")
	}

	return user, true, nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}

func normalizeInput(input RegisterInput) RegisterInput {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	return input
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", eris.Wrap(err, "generating session token")
	}
	return hex.EncodeToString(buf), nil
}

package accounts

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"jobboard/app/internal/platform/validate"
)

func TestServiceRegisterHashesPassword(t *testing.T) {
	t.Parallel()

	service, repo, _ := newTestService(t)

	user, err := service.Register(context.Background(), RegisterInput{
		Email:    "  Ada@Example.COM ",
		Name:     " Ada ",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.Email != "ada@example.com" {
		t.Fatalf("expected normalised email, got %q", user.Email)
	}

	if user.Name != "Ada" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}

	if user.IsAdmin {
		t.Fatalf("expected regular user")
	}

	if user.PasswordHash == "correct horse" {
		t.Fatalf("expected password to be hashed")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")); err != nil {
		t.Fatalf("expected hash to match password: %v", err)
	}

	if len(repo.users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(repo.users))
	}
}

func TestServiceRegisterRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)
	ctx := context.Background()

	input := RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "correct horse"}
	if _, err := service.Register(ctx, input); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	input.Email = "ADA@example.com"
	_, err := service.Register(ctx, input)
	if !eris.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestServiceRegisterValidatesInput(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)

	_, err := service.Register(context.Background(), RegisterInput{Email: "not-an-email", Name: "", Password: "short"})
	if !validate.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	fields := validate.Fields(err)
	for _, field := range []string{"email", "name", "password"} {
		if fields[field] == "" {
			t.Fatalf("expected message for %s, got %v", field, fields)
		}
	}
}

func TestServiceRegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)

	// 72 runes but 144 bytes: within the character limit, over what bcrypt accepts.
	password := strings.Repeat("é", 72)
	_, err := service.Register(context.Background(), RegisterInput{Email: "ada@example.com", Name: "Ada", Password: password})
	if !validate.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if msg := validate.Fields(err)["password"]; msg != "must be at most 72 bytes" {
		t.Fatalf("expected byte limit message, got %q", msg)
	}

	if _, err := service.Register(context.Background(), RegisterInput{Email: "bob@example.com", Name: "Bob", Password: strings.Repeat("é", 36)}); err != nil {
		t.Fatalf("expected 72-byte password to be accepted, got %v", err)
	}
}

func TestServiceAuthenticate(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	user, err := service.Authenticate(ctx, " ADA@example.com ", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("expected user %d, got %d", registered.ID, user.ID)
	}

	cases := []struct{ email, password string }{
		{"ada@example.com", "wrong horse"},
		{"nobody@example.com", "correct horse"},
		{"ada@example.com", ""},
		{"", "correct horse"},
	}
	for _, tc := range cases {
		if _, err := service.Authenticate(ctx, tc.email, tc.password); !eris.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %q/%q, got %v", tc.email, tc.password, err)
		}
	}
}

func TestServiceSessionLifecycle(t *testing.T) {
	t.Parallel()

	service, repo, clock := newTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	session, err := service.CreateSession(ctx, user.ID)
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	if len(session.Token) != tokenBytes*2 {
		t.Fatalf("expected %d hex characters, got %d", tokenBytes*2, len(session.Token))
	}

	if !session.ExpiresAt.Equal(clock.now().UTC().Add(time.Hour)) {
		t.Fatalf("expected expiry one hour from now, got %s", session.ExpiresAt)
	}

	resolved, err := service.ResolveSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("ResolveSession returned error: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, resolved.ID)
	}

	if err := service.DeleteSession(ctx, session.Token); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}

	if _, err := service.ResolveSession(ctx, session.Token); !eris.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after logout, got %v", err)
	}

	if len(repo.sessions) != 0 {
		t.Fatalf("expected no sessions left, got %d", len(repo.sessions))
	}
}

func TestServiceResolveSessionExpires(t *testing.T) {
	t.Parallel()

	service, repo, clock := newTestService(t)
	ctx := context.Background()

	session, err := service.CreateSession(ctx, 42)
	if err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	clock.advance(2 * time.Hour)

	if _, err := service.ResolveSession(ctx, session.Token); !eris.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for expired session, got %v", err)
	}

	if _, ok := repo.sessions[session.Token]; ok {
		t.Fatalf("expected expired session to be removed")
	}

	if _, err := service.ResolveSession(ctx, "   "); !eris.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for blank token, got %v", err)
	}
}

func TestServicePruneSessions(t *testing.T) {
	t.Parallel()

	service, repo, clock := newTestService(t)
	ctx := context.Background()

	if _, err := service.CreateSession(ctx, 1); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}
	clock.advance(90 * time.Minute)
	if _, err := service.CreateSession(ctx, 2); err != nil {
		t.Fatalf("CreateSession returned error: %v", err)
	}

	removed, err := service.PruneSessions(ctx)
	if err != nil {
		t.Fatalf("PruneSessions returned error: %v", err)
	}

	if removed != 1 || len(repo.sessions) != 1 {
		t.Fatalf("expected one session pruned and one kept, got removed=%d kept=%d", removed, len(repo.sessions))
	}
}

func TestServiceEnsureAdmin(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)
	ctx := context.Background()

	admin, created, err := service.EnsureAdmin(ctx, RegisterInput{Email: "root@example.com", Name: "Root", Password: "first password"})
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if !created || !admin.IsAdmin {
		t.Fatalf("expected a new admin, got created=%v admin=%v", created, admin.IsAdmin)
	}

	again, created, err := service.EnsureAdmin(ctx, RegisterInput{Email: "ROOT@example.com", Name: "Root", Password: "second password"})
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}
	if created {
		t.Fatalf("expected existing admin to be reused")
	}
	if again.ID != admin.ID {
		t.Fatalf("expected same user id %d, got %d", admin.ID, again.ID)
	}

	if _, err := service.Authenticate(ctx, "root@example.com", "second password"); err != nil {
		t.Fatalf("expected new password to be active: %v", err)
	}
}

func TestServiceEnsureAdminPromotesUser(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := service.Register(ctx, RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "correct horse"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	promoted, created, err := service.EnsureAdmin(ctx, RegisterInput{Email: "ada@example.com", Name: "Ada", Password: "correct horse"})
	if err != nil {
		t.Fatalf("EnsureAdmin returned error: %v", err)
	}

	if created || promoted.ID != user.ID || !promoted.IsAdmin {
		t.Fatalf("expected user %d to be promoted, got %+v created=%v", user.ID, promoted, created)
	}
}

func TestNewServiceValidatesOptions(t *testing.T) {
	t.Parallel()

	if _, err := NewService(ServiceOptions{}); err == nil {
		t.Fatalf("expected error without repository")
	}

	if _, err := NewService(ServiceOptions{Repository: newStubRepository(), PasswordCost: 99}); err == nil {
		t.Fatalf("expected error for out of range cost")
	}

	service, err := NewService(ServiceOptions{Repository: newStubRepository()})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	if service.SessionTTL() != DefaultSessionTTL {
		t.Fatalf("expected default ttl %s, got %s", DefaultSessionTTL, service.SessionTTL())
	}
}

type testClock struct {
	mu      sync.Mutex
	current time.Time
}

func (c *testClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *testClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

func newTestService(t *testing.T) (Service, *stubRepository, *testClock) {
	t.Helper()

	repo := newStubRepository()
	clock := &testClock{current: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	service, err := NewService(ServiceOptions{
		Repository:   repo,
		Logger:       logger,
		SessionTTL:   time.Hour,
		PasswordCost: bcrypt.MinCost,
		Now:          clock.now,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	return service, repo, clock
}

type stubRepository struct {
	mu       sync.Mutex
	users    map[uint]User
	sessions map[string]Session
	nextID   uint
}

var _ Repository = (*stubRepository)(nil)

func newStubRepository() *stubRepository {
	return &stubRepository{users: make(map[uint]User), sessions: make(map[string]Session)}
}

func (s *stubRepository) CreateUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
	}

	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = *user
	return nil
}

func (s *stubRepository) UpdateUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return eris.New("user not found")
	}
	s.users[user.ID] = *user
	return nil
}

func (s *stubRepository) GetUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (s *stubRepository) GetUserByID(_ context.Context, id uint) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (s *stubRepository) CreateSession(_ context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.Token] = *session
	return nil
}

func (s *stubRepository) GetSession(_ context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *stubRepository) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *stubRepository) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed, nil
}

package accounts

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"

	"jobboard/app/internal/data/database"
	domainaccounts "jobboard/app/internal/domain/accounts"
)

func TestRepositoryUsers(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	user := &domainaccounts.User{Email: "ada@example.com", Name: "Ada", PasswordHash: "hash"}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected generated id")
	}

	byEmail, err := repo.GetUserByEmail(ctx, " ADA@example.com ")
	if err != nil {
		t.Fatalf("GetUserByEmail returned error: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("expected user %d by email, got %+v", user.ID, byEmail)
	}

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID returned error: %v", err)
	}
	if byID == nil || byID.Email != "ada@example.com" {
		t.Fatalf("unexpected user by id: %+v", byID)
	}

	missing, err := repo.GetUserByID(ctx, 999)
	if err != nil || missing != nil {
		t.Fatalf("expected nil user without error, got %+v, %v", missing, err)
	}

	err = repo.CreateUser(ctx, &domainaccounts.User{Email: "ada@example.com", Name: "Other", PasswordHash: "hash"})
	if !eris.Is(err, domainaccounts.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRepositoryUpdateUser(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	user := &domainaccounts.User{Email: "root@example.com", Name: "Root", PasswordHash: "old"}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	user.IsAdmin = true
	user.PasswordHash = "new"
	if err := repo.UpdateUser(ctx, user); err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}

	fetched, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID returned error: %v", err)
	}
	if !fetched.IsAdmin || fetched.PasswordHash != "new" {
		t.Fatalf("expected updated user, got %+v", fetched)
	}

	if err := repo.UpdateUser(ctx, &domainaccounts.User{ID: 999}); err == nil {
		t.Fatalf("expected error updating missing user")
	}
}

func TestRepositorySessions(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	user := &domainaccounts.User{Email: "ada@example.com", Name: "Ada", PasswordHash: "hash"}
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}

	now := time.Now().UTC()
	live := &domainaccounts.Session{Token: "live", UserID: user.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	stale := &domainaccounts.Session{Token: "stale", UserID: user.ID, CreatedAt: now, ExpiresAt: now.Add(-time.Minute)}

	for _, session := range []*domainaccounts.Session{live, stale} {
		if err := repo.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}
	}

	fetched, err := repo.GetSession(ctx, "live")
	if err != nil {
		t.Fatalf("GetSession returned error: %v", err)
	}
	if fetched == nil || fetched.UserID != user.ID {
		t.Fatalf("unexpected session: %+v", fetched)
	}

	removed, err := repo.DeleteExpiredSessions(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions returned error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 expired session removed, got %d", removed)
	}

	if err := repo.DeleteSession(ctx, "live"); err != nil {
		t.Fatalf("DeleteSession returned error: %v", err)
	}

	gone, err := repo.GetSession(ctx, "live")
	if err != nil || gone != nil {
		t.Fatalf("expected deleted session, got %+v, %v", gone, err)
	}
}

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := database.Open(database.Options{Path: filepath.Join(t.TempDir(), "accounts.db")})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := database.Close(db); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	if err := db.AutoMigrate(&UserRecord{}, &SessionRecord{}); err != nil {
		t.Fatalf("AutoMigrate returned error: %v", err)
	}

	repo, err := NewRepository(db, nil)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}
	return repo
}

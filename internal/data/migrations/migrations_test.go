package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"jobboard/app/internal/data/database"
)

func TestMigrateCreatesTables(t *testing.T) {
	t.Parallel()

	db, err := database.Open(database.Options{Path: filepath.Join(t.TempDir(), "migrate.db")})
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	ctx := context.Background()
	if err := Migrate(ctx, db, nil); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	// A second run must be a no-op.
	if err := Migrate(ctx, db, nil); err != nil {
		t.Fatalf("second Migrate returned error: %v", err)
	}

	for _, table := range []string{"users", "sessions", "posts", "jobs", "job_applicants"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %s to exist", table)
		}
	}

	if !db.Migrator().HasIndex("posts", "idx_posts_slug") {
		t.Fatalf("expected unique slug index on posts")
	}

	if !db.Migrator().HasIndex("job_applicants", "idx_job_applicants_job_user") {
		t.Fatalf("expected unique application index")
	}
}

func TestMigrateRequiresDB(t *testing.T) {
	t.Parallel()

	if err := Migrate(context.Background(), nil, nil); err == nil {
		t.Fatalf("expected error without database")
	}
}

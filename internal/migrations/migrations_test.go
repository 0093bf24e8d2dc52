package migrations_test

import (
	"context"
	"testing"

	"github.com/playperu/lovequiz/internal/database"
	"github.com/playperu/lovequiz/internal/migrations"
)

func TestMigrations(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	// Verify all tables exist by querying sqlite_master.
	want := []string{"quiz_sessions", "quiz_results"}

	for _, table := range want {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found: %v", table, err)
		}
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(db); err != nil {
		t.Fatalf("second run (should be no-op): %v", err)
	}

	v, err := migrations.Version(db)
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
}

func TestIdempotencyKeyUnique(t *testing.T) {
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO quiz_sessions (id, fingerprint_hash) VALUES ('s1', 'fp')`); err != nil {
		t.Fatalf("inserting session: %v", err)
	}

	insert := `INSERT INTO quiz_results (id, session_id, fingerprint_hash, archetype_slug, scores, answers, idempotency_key)
		VALUES (?, 's1', 'fp', 'golden-partner', '{}', '{}', 'quiz:v1:abc')`
	if _, err := db.Exec(insert, "r1"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := db.Exec(insert, "r2"); err == nil {
		t.Fatal("second insert with the same idempotency key succeeded")
	}
}

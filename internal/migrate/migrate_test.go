package migrate_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/lwerth/INFO510-public/internal/migrate"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("libsql", "file:"+filepath.Join(t.TempDir(), "migrate_test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoadMigrations(t *testing.T) {
	all, err := migrate.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations failed: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("no migrations embedded")
	}
	if all[0].Version != 1 || all[0].Name != "init" {
		t.Errorf("first migration = %d_%s, want 1_init", all[0].Version, all[0].Name)
	}
	for i, m := range all {
		if i > 0 && m.Version <= all[i-1].Version {
			t.Errorf("migrations out of order at index %d", i)
		}
		if !strings.Contains(m.UpSQL, "CREATE TABLE") {
			t.Errorf("migration %d up SQL looks empty", m.Version)
		}
	}
	if all[0].DownSQL == "" {
		t.Error("init migration has no down SQL")
	}
}

func TestRunAll_Idempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := migrate.RunAll(ctx, db); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	version, dirty, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if dirty {
		t.Error("schema left dirty")
	}
	if version < 1 {
		t.Errorf("version = %d after RunAll", version)
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		t.Fatalf("second RunAll failed: %v", err)
	}
	again, _, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if again != version {
		t.Errorf("version moved from %d to %d on a no-op run", version, again)
	}

	// The migrated schema is actually usable.
	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, analysis, dataset, method, seed, chains, draws, duration_ms, created_at)
		VALUES ('r1', 'hoops', 'basketball.csv', 'direct', 1, 1, 10, 5, '2026-01-01T00:00:00Z')
	`)
	if err != nil {
		t.Errorf("insert into migrated schema failed: %v", err)
	}
}

func TestMigrateDownTo_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if err := migrate.RunAll(ctx, db); err != nil {
		t.Fatalf("RunAll failed: %v", err)
	}
	current, _, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}

	all, err := migrate.LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations failed: %v", err)
	}
	if err := migrate.MigrateDownTo(ctx, db, all, current, 0); err != nil {
		t.Fatalf("MigrateDownTo failed: %v", err)
	}

	version, dirty, err := migrate.GetCurrentVersion(ctx, db)
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 || dirty {
		t.Errorf("after rollback version = %d, dirty = %v", version, dirty)
	}
	if _, err := db.ExecContext(ctx, `SELECT COUNT(*) FROM runs`); err == nil {
		t.Error("runs table still present after rollback")
	}
}

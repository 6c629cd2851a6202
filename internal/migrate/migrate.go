// Package migrate applies the embedded schema migrations to the run
// store, tracking the applied version and a dirty flag in the
// schema_migrations table.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lwerth/INFO510-public/migrations"
)

// Migration is one versioned schema step with its up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// EnsureMigrationsTable creates the bookkeeping table when missing.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// GetCurrentVersion reports the applied version and whether a previous
// migration died halfway. A fresh database is version 0.
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version, dirty int
	err := db.QueryRowContext(ctx,
		`SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`,
	).Scan(&version, &dirty)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, dirty == 1, nil
}

func setVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version == 0 {
		return nil
	}
	d := 0
	if dirty {
		d = 1
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, d)
	return err
}

var upFile = regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

// LoadMigrations reads the embedded migration files, sorted by version.
// A missing down file leaves DownSQL empty, which blocks rollback past
// that version.
func LoadMigrations() ([]Migration, error) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return nil, err
	}

	var out []Migration
	for _, entry := range entries {
		m := upFile.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		version, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("bad migration version in %s: %w", entry.Name(), err)
		}

		up, err := fs.ReadFile(migrations.FS, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name(), err)
		}
		down, _ := fs.ReadFile(migrations.FS, fmt.Sprintf("%03d_%s.down.sql", version, m[2]))

		out = append(out, Migration{
			Version: version,
			Name:    m[2],
			UpSQL:   string(up),
			DownSQL: string(down),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// apply runs one migration in the given direction, marking the version
// dirty for its duration so an interrupted run is detected later.
func apply(ctx context.Context, db *sql.DB, m Migration, up bool) error {
	direction, script := "up", m.UpSQL
	target := m.Version
	if !up {
		direction, script = "down", m.DownSQL
		target = m.Version - 1
	}

	fmt.Printf("  %s %d_%s...\n", direction, m.Version, m.Name)

	if err := setVersion(ctx, db, m.Version, true); err != nil {
		return fmt.Errorf("marking version %d dirty: %w", m.Version, err)
	}
	for _, stmt := range strings.Split(script, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d %s: %w", m.Version, direction, err)
		}
	}
	if err := setVersion(ctx, db, target, false); err != nil {
		return fmt.Errorf("recording version %d: %w", target, err)
	}
	return nil
}

// MigrateUp applies every migration past the current version.
func MigrateUp(ctx context.Context, db *sql.DB, all []Migration, current int) error {
	applied := 0
	for _, m := range all {
		if m.Version <= current {
			continue
		}
		if err := apply(ctx, db, m, true); err != nil {
			return err
		}
		applied++
	}
	if applied == 0 {
		fmt.Println("No migrations to run")
		return nil
	}
	version, _, _ := GetCurrentVersion(ctx, db)
	fmt.Printf("Migrated to version %d (%d applied)\n", version, applied)
	return nil
}

// MigrateUpTo applies migrations up to and including the target version.
func MigrateUpTo(ctx context.Context, db *sql.DB, all []Migration, current, target int) error {
	for _, m := range all {
		if m.Version <= current || m.Version > target {
			continue
		}
		if err := apply(ctx, db, m, true); err != nil {
			return err
		}
	}
	fmt.Printf("Migrated to version %d\n", target)
	return nil
}

// MigrateDownTo rolls back until target is the applied version.
func MigrateDownTo(ctx context.Context, db *sql.DB, all []Migration, current, target int) error {
	for i := len(all) - 1; i >= 0; i-- {
		m := all[i]
		if m.Version > current || m.Version <= target {
			continue
		}
		if m.DownSQL == "" {
			return fmt.Errorf("no down migration for version %d", m.Version)
		}
		if err := apply(ctx, db, m, false); err != nil {
			return err
		}
	}
	fmt.Printf("Migrated to version %d\n", target)
	return nil
}

// RunAll brings a database to the latest schema. The migrate command
// drives the finer-grained helpers above; everything else uses this.
func RunAll(ctx context.Context, db *sql.DB) error {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	current, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d", current)
	}

	all, err := LoadMigrations()
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	for _, m := range all {
		if m.Version <= current {
			continue
		}
		if err := apply(ctx, db, m, true); err != nil {
			return err
		}
	}
	return nil
}

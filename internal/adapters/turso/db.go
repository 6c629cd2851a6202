package turso

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/lwerth/INFO510-public/internal/util"
)

// NewDB opens the run store. BAYESLAB_DATABASE_URL overrides the default
// local file under the XDG data directory; BAYESLAB_AUTH_TOKEN is appended
// for remote Turso databases.
func NewDB() (*sql.DB, error) {
	dbURL := os.Getenv("BAYESLAB_DATABASE_URL")
	if dbURL == "" {
		dataDir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory: %w", err)
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dbURL = "file:" + filepath.Join(dataDir, "bayeslab.db")
	}

	if authToken := os.Getenv("BAYESLAB_AUTH_TOKEN"); authToken != "" {
		dbURL = fmt.Sprintf("%s?authToken=%s", dbURL, authToken)
	}

	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Minimal idle pool since Turso aggressively closes idle streams.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(0)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

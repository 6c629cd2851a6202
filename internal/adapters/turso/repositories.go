package turso

import (
	"database/sql"

	"github.com/lwerth/INFO510-public/internal/ports"
)

// Repositories holds all turso repository implementations as port interfaces.
type Repositories struct {
	Runs      ports.RunRepository
	Summaries ports.SummaryRepository
}

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Runs:      NewRunRepository(db),
		Summaries: NewSummaryRepository(db),
	}
}

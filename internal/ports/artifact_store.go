package ports

import "context"

// ArtifactStore persists per-run files (draw matrices, figures, the
// report) outside the database.
type ArtifactStore interface {
	Store(ctx context.Context, runID, name string, data []byte) (storedPath string, err error)
	Get(ctx context.Context, runID, name string) ([]byte, error)
	List(ctx context.Context, runID string) ([]string, error)
	Exists(ctx context.Context, runID, name string) (bool, error)
	Delete(ctx context.Context, runID string) error
}

package storage

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lwerth/INFO510-public/internal/util"
)

// ArtifactStorage keeps per-run artifacts (draw matrices, figures, the
// report) as gzip-compressed files under the XDG data directory. Callers
// use logical names like draws.csv; compression is transparent.
type ArtifactStorage struct {
	baseDir string
}

func NewArtifactStorage() (*ArtifactStorage, error) {
	baseDir, err := util.GetXDGDataDir()
	if err != nil {
		return nil, err
	}

	runsDir := filepath.Join(baseDir, "runs")
	if err := os.MkdirAll(runsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runs directory: %w", err)
	}

	return &ArtifactStorage{baseDir: runsDir}, nil
}

// checkSegments rejects run ids and artifact names that would resolve
// outside the runs directory. Both come from callers that pass them
// straight into file paths, including URL path values.
func checkSegments(segments ...string) error {
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return fmt.Errorf("invalid artifact path segment %q", seg)
		}
	}
	return nil
}

func (s *ArtifactStorage) Store(ctx context.Context, runID, name string, data []byte) (string, error) {
	if err := checkSegments(runID, name); err != nil {
		return "", err
	}

	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	destPath := s.getPath(runID, name)
	dest, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file: %w", err)
	}
	defer func() { _ = dest.Close() }()

	gw := gzip.NewWriter(dest)
	if _, err := gw.Write(data); err != nil {
		return "", fmt.Errorf("failed to compress artifact: %w", err)
	}
	if err := gw.Close(); err != nil {
		return "", fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return destPath, nil
}

func (s *ArtifactStorage) Get(ctx context.Context, runID, name string) ([]byte, error) {
	if err := checkSegments(runID, name); err != nil {
		return nil, err
	}
	path := s.getPath(runID, name)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact file: %w", err)
	}
	defer func() { _ = file.Close() }()

	gr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() { _ = gr.Close() }()

	data, err := io.ReadAll(gr)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	return data, nil
}

// List returns the logical artifact names stored for a run, sorted.
// A run with no artifacts yields an empty list, not an error.
func (s *ArtifactStorage) List(ctx context.Context, runID string) ([]string, error) {
	if err := checkSegments(runID); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.baseDir, runID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read run directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".gz") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".gz"))
	}
	return names, nil
}

func (s *ArtifactStorage) Exists(ctx context.Context, runID, name string) (bool, error) {
	if err := checkSegments(runID, name); err != nil {
		return false, err
	}
	_, err := os.Stat(s.getPath(runID, name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Delete removes a run's entire artifact directory.
func (s *ArtifactStorage) Delete(ctx context.Context, runID string) error {
	if err := checkSegments(runID); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.baseDir, runID)); err != nil {
		return fmt.Errorf("failed to delete run artifacts: %w", err)
	}
	return nil
}

func (s *ArtifactStorage) getPath(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name+".gz")
}

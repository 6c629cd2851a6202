package ports_test

import (
	"testing"

	"github.com/lwerth/INFO510-public/internal/adapters/otel"
	"github.com/lwerth/INFO510-public/internal/adapters/storage"
	"github.com/lwerth/INFO510-public/internal/adapters/turso"
	"github.com/lwerth/INFO510-public/internal/ports"
)

// Compile-time interface conformance checks.
// These verify that concrete adapters properly implement their port interfaces.

func TestRunRepositoryConformance(t *testing.T) {
	var _ ports.RunRepository = (*turso.RunRepository)(nil)
}

func TestSummaryRepositoryConformance(t *testing.T) {
	var _ ports.SummaryRepository = (*turso.SummaryRepository)(nil)
}

func TestArtifactStoreConformance(t *testing.T) {
	var _ ports.ArtifactStore = (*storage.ArtifactStorage)(nil)
}

func TestMetricsExporterConformance(t *testing.T) {
	var _ ports.MetricsExporter = (*otel.Exporter)(nil)
	var _ ports.MetricsExporter = (*otel.NoOpExporter)(nil)
}

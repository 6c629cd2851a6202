package ports

import "context"

// MetricsExporter exports run metrics to an external observability system.
type MetricsExporter interface {
	// ExportRunMetrics exports metrics for a completed analysis run.
	ExportRunMetrics(ctx context.Context, m *RunMetrics) error
	// Close shuts down the exporter and flushes any pending metrics.
	Close(ctx context.Context) error
}

// RunMetrics describes one completed run for the metrics pipeline.
type RunMetrics struct {
	RunID    string
	Analysis string
	Method   string

	Chains     int64
	Draws      int64
	DurationMs int64

	// Sampler health, zero when the run had no MCMC component.
	Acceptance float64
	MaxRHat    float64
}

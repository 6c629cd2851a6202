package domain

import "time"

// Run is one completed analysis invocation, persisted for later browsing.
type Run struct {
	ID         string
	Analysis   string // "incumbency", "bikes", "hoops"
	Dataset    string
	Method     string // "direct", "grid", "mcmc"
	Seed       uint64
	Chains     int64
	Draws      int64
	DurationMs int64
	Headline   *string
	Notes      []string
	CreatedAt  time.Time
}

// RunStats holds aggregate counters across all stored runs.
type RunStats struct {
	RunCount        int64
	TotalDraws      int64
	TotalDurationMs int64
	LastRunAt       *time.Time
}

// AnalysisCount is the number of stored runs for one analysis.
type AnalysisCount struct {
	Analysis string
	RunCount int64
}

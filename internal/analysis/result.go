// Package analysis runs the course models end to end: load the data,
// draw from the posterior, summarize the draws.
package analysis

import (
	"time"

	"github.com/lwerth/INFO510-public/internal/domain"
	"github.com/lwerth/INFO510-public/internal/grid"
)

// Result is the common product of one analysis run. Columns holds the
// pooled posterior draws per parameter, aligned with Names and
// Summaries. Surface and Streets are set only by the bike analysis.
type Result struct {
	Analysis   string
	Dataset    string
	Method     string
	Seed       uint64
	Chains     int
	Duration   time.Duration
	Names      []string
	Columns    [][]float64
	Summaries  []domain.ParamSummary
	Notes      []string
	Headline   string
	Acceptance float64 // proposal acceptance rate, MCMC only

	Surface *grid.Grid
	Streets []domain.StreetCount
}

// DrawCount is the number of posterior draws per parameter.
func (r *Result) DrawCount() int64 {
	if len(r.Columns) == 0 {
		return 0
	}
	return int64(len(r.Columns[0]))
}

// NewRun stamps the result into its storable record.
func (r *Result) NewRun(id string, createdAt time.Time) domain.Run {
	headline := r.Headline
	run := domain.Run{
		ID:         id,
		Analysis:   r.Analysis,
		Dataset:    r.Dataset,
		Method:     r.Method,
		Seed:       r.Seed,
		Chains:     int64(r.Chains),
		Draws:      r.DrawCount(),
		DurationMs: r.Duration.Milliseconds(),
		Notes:      r.Notes,
		CreatedAt:  createdAt,
	}
	if headline != "" {
		run.Headline = &headline
	}
	return run
}

// Summary looks up a parameter summary by name, nil when absent.
func (r *Result) Summary(name string) *domain.ParamSummary {
	for i := range r.Summaries {
		if r.Summaries[i].Name == name {
			return &r.Summaries[i]
		}
	}
	return nil
}

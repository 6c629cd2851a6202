// Package stats computes posterior draw summaries and convergence
// diagnostics shared by all analyses.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lwerth/INFO510-public/internal/domain"
)

// Summarize computes the posterior summary for one parameter's draws.
// The caller fills in RunID and Ord before persisting.
func Summarize(name string, draws []float64) domain.ParamSummary {
	sorted := make([]float64, len(draws))
	copy(sorted, draws)
	sort.Float64s(sorted)

	return domain.ParamSummary{
		Name:   name,
		Mean:   stat.Mean(draws, nil),
		SD:     stat.StdDev(draws, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q025:   stat.Quantile(0.025, stat.Empirical, sorted, nil),
		Q25:    stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q75:    stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Q975:   stat.Quantile(0.975, stat.Empirical, sorted, nil),
	}
}

// SummarizeAll summarizes a named column of draws per parameter.
// Columns and names must have equal length.
func SummarizeAll(names []string, columns [][]float64) []domain.ParamSummary {
	out := make([]domain.ParamSummary, 0, len(names))
	for i, name := range names {
		s := Summarize(name, columns[i])
		s.Ord = int64(i)
		out = append(out, s)
	}
	return out
}

package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/lwerth/INFO510-public/internal/dataset"
	"github.com/lwerth/INFO510-public/internal/domain"
	"github.com/lwerth/INFO510-public/internal/regress"
	"github.com/lwerth/INFO510-public/internal/stats"
)

// IncumbencyOptions configure the election regression.
type IncumbencyOptions struct {
	PrevYear int
	Year     int
	DataDir  string // read <year>.asc files from this directory instead of the embedded data
	Draws    int
	Seed     uint64
}

// Incumbency regresses the Democratic vote share on the previous
// election's share and the incumbency indicator over paired contested
// districts, then simulates the coefficient posterior under the
// noninformative prior.
func Incumbency(ctx context.Context, opts IncumbencyOptions) (*Result, error) {
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prev, err := loadYear(opts.DataDir, opts.PrevYear)
	if err != nil {
		return nil, fmt.Errorf("loading %d returns: %w", opts.PrevYear, err)
	}
	cur, err := loadYear(opts.DataDir, opts.Year)
	if err != nil {
		return nil, fmt.Errorf("loading %d returns: %w", opts.Year, err)
	}

	paired := dataset.PairYears(prev, cur)
	if len(paired.Pairs) < 4 {
		return nil, fmt.Errorf("only %d contested district pairs, need at least 4", len(paired.Pairs))
	}

	n := len(paired.Pairs)
	rows := make([]float64, 0, 3*n)
	y := make([]float64, n)
	for i, p := range paired.Pairs {
		rows = append(rows, 1, p.PrevShare, float64(p.Incumbency))
		y[i] = p.Share
	}

	fit, err := regress.LeastSquares(mat.NewDense(n, 3, rows), y)
	if err != nil {
		return nil, fmt.Errorf("fitting vote share regression: %w", err)
	}

	draws := opts.Draws
	if draws <= 0 {
		draws = 4000
	}
	betas, sigmas, err := fit.Simulate(draws, rand.NewPCG(opts.Seed, 0))
	if err != nil {
		return nil, fmt.Errorf("simulating posterior: %w", err)
	}

	names := []string{"intercept", "prev_share", "incumbency", "sigma"}
	columns := make([][]float64, 4)
	for j := 0; j < 3; j++ {
		col := make([]float64, len(betas))
		for i := range betas {
			col[i] = betas[i][j]
		}
		columns[j] = col
	}
	columns[3] = sigmas

	res := &Result{
		Analysis:  "incumbency",
		Dataset:   fmt.Sprintf("house %d-%d", opts.PrevYear, opts.Year),
		Method:    "direct",
		Seed:      opts.Seed,
		Chains:    1,
		Names:     names,
		Columns:   columns,
		Summaries: stats.SummarizeAll(names, columns),
	}

	res.Notes = append(res.Notes,
		fmt.Sprintf("%d contested district pairs (%d dropped as uncontested, %d unmatched across years)",
			n, paired.Uncontested, paired.Unmatched),
		fmt.Sprintf("least squares: incumbency %.4f (se %.4f), residual sd %.4f on %d df",
			fit.Coef[2], fit.StdErrors()[2], math.Sqrt(fit.S2), fit.DF),
	)

	inc := res.Summary("incumbency")
	positive := shareAbove(columns[2], 0)
	res.Headline = fmt.Sprintf("incumbency advantage %.3f of the vote share (95%% interval %.3f to %.3f, positive with probability %.3f)",
		inc.Mean, inc.Q025, inc.Q975, positive)

	res.Duration = time.Since(started)
	return res, nil
}

func loadYear(dir string, year int) ([]domain.ElectionReturn, error) {
	if dir == "" {
		return dataset.LoadElectionYear(year)
	}
	return dataset.ReadElectionsFile(filepath.Join(dir, fmt.Sprintf("%d.asc", year)))
}

// shareAbove is the fraction of draws strictly above the threshold.
func shareAbove(draws []float64, threshold float64) float64 {
	if len(draws) == 0 {
		return 0
	}
	n := 0
	for _, v := range draws {
		if v > threshold {
			n++
		}
	}
	return float64(n) / float64(len(draws))
}

package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lwerth/INFO510-public/internal/dataset"
	"github.com/lwerth/INFO510-public/internal/domain"
	"github.com/lwerth/INFO510-public/internal/grid"
	"github.com/lwerth/INFO510-public/internal/mcmc"
	"github.com/lwerth/INFO510-public/internal/stats"
)

// BikesOptions configure the hierarchical binomial analysis.
type BikesOptions struct {
	DataFile string // survey CSV path, empty for the embedded data
	Route    *bool  // keep only streets with (true) or without (false) a bike route; nil keeps all
	Method   string // "grid" or "mcmc", empty means grid
	Draws    int    // hyperparameter draws; kept draws per chain for mcmc
	Chains   int
	BurnIn   int
	Thin     int
	Seed     uint64

	// Grid window in the transformed coordinates u = log(alpha/beta),
	// v = log(alpha+beta). A zero window is centered on the pooled
	// proportion automatically.
	GridUMin, GridUMax float64
	GridVMin, GridVMax float64
	GridPoints         int
}

// Bikes fits the hierarchical binomial model to the street counts:
// y_j ~ Binomial(n_j, theta_j) with theta_j ~ Beta(alpha, beta) and the
// diffuse hyperprior p(alpha, beta) proportional to (alpha+beta)^(-5/2).
// The hyperparameter posterior is computed either on a 2-D grid in the
// transformed coordinates or by random walk Metropolis; street level
// proportions are then drawn from their conditional Beta posteriors.
func Bikes(ctx context.Context, opts BikesOptions) (*Result, error) {
	started := time.Now()

	counts, label, err := loadStreetCounts(opts)
	if err != nil {
		return nil, err
	}
	if len(counts) < 2 {
		return nil, fmt.Errorf("need at least 2 streets after filtering, have %d", len(counts))
	}

	var totalBikes, totalVehicles int64
	for _, c := range counts {
		totalBikes += c.Bicycles
		totalVehicles += c.Total()
	}
	pooled := float64(totalBikes) / float64(totalVehicles)

	target := hyperTarget(counts)

	method := opts.Method
	if method == "" {
		method = "grid"
	}
	draws := opts.Draws
	if draws <= 0 {
		draws = 4000
		if method == "mcmc" {
			draws = 1000
		}
	}

	res := &Result{
		Analysis: "bikes",
		Dataset:  label,
		Method:   method,
		Seed:     opts.Seed,
		Chains:   1,
		Streets:  counts,
	}

	var us, vs []float64
	var chainsU, chainsV [][]float64

	switch method {
	case "grid":
		uMin, uMax := opts.GridUMin, opts.GridUMax
		if uMin == 0 && uMax == 0 {
			center := math.Log(pooled / (1 - pooled))
			uMin, uMax = center-1.1, center+1.1
		}
		vMin, vMax := opts.GridVMin, opts.GridVMax
		if vMin == 0 && vMax == 0 {
			vMin, vMax = 0.5, 5.5
		}
		points := opts.GridPoints
		if points <= 0 {
			points = 120
		}

		surface, err := grid.New(grid.Axis(uMin, uMax, points), grid.Axis(vMin, vMax, points), grid.LogDensity(target))
		if err != nil {
			return nil, fmt.Errorf("building hyperparameter grid: %w", err)
		}
		res.Surface = surface

		rng := rand.New(rand.NewPCG(opts.Seed, 0))
		us, vs = surface.Sample(draws, rng)

		res.Notes = append(res.Notes, fmt.Sprintf("grid %dx%d on u=[%.2f, %.2f], v=[%.2f, %.2f]",
			points, points, uMin, uMax, vMin, vMax))
		if edge := surface.EdgeMass(); edge > 1e-3 {
			res.Notes = append(res.Notes, fmt.Sprintf("warning: %.1f%% of the posterior mass sits on the grid boundary, widen the window", 100*edge))
		}

	case "mcmc":
		chains := opts.Chains
		if chains <= 0 {
			chains = 4
		}
		burnIn := opts.BurnIn
		if burnIn <= 0 {
			burnIn = 1000
		}
		thin := opts.Thin
		if thin <= 0 {
			thin = 1
		}

		cfg := mcmc.Config{
			Iterations: draws * thin,
			BurnIn:     burnIn,
			Thin:       thin,
			Chains:     chains,
			Seed:       opts.Seed,
			Step:       []float64{0.5, 1.0},
			Start:      []float64{math.Log(pooled / (1 - pooled)), 2.0},
		}
		run, err := mcmc.Run(ctx, func(p []float64) float64 { return target(p[0], p[1]) }, cfg)
		if err != nil {
			return nil, fmt.Errorf("sampling hyperparameters: %w", err)
		}

		us, vs = run.Pooled(0), run.Pooled(1)
		chainsU, chainsV = run.Column(0), run.Column(1)
		res.Chains = chains
		res.Acceptance = run.AcceptanceRate()
		res.Notes = append(res.Notes, fmt.Sprintf("%d chains of %d kept draws (burn-in %d, thin %d), acceptance %.2f",
			chains, draws, burnIn, thin, res.Acceptance))

	default:
		return nil, fmt.Errorf("unknown method %q, want grid or mcmc", method)
	}

	nDraws := len(us)
	alphas := make([]float64, nDraws)
	betas := make([]float64, nDraws)
	popMeans := make([]float64, nDraws)
	priorSizes := make([]float64, nDraws)
	for i := range us {
		alphas[i], betas[i] = hyperFromTransformed(us[i], vs[i])
		popMeans[i] = sigmoid(us[i])
		priorSizes[i] = math.Exp(vs[i])
	}

	thetaRng := rand.New(rand.NewPCG(opts.Seed, 101))
	names := []string{"alpha", "beta", "pop_mean", "prior_size"}
	columns := [][]float64{alphas, betas, popMeans, priorSizes}
	for _, c := range counts {
		col := make([]float64, nDraws)
		y := float64(c.Bicycles)
		miss := float64(c.Total()) - y
		for i := range col {
			col[i] = distuv.Beta{Alpha: alphas[i] + y, Beta: betas[i] + miss, Src: thetaRng}.Rand()
		}
		names = append(names, fmt.Sprintf("theta[%s]", c.Street))
		columns = append(columns, col)
	}

	res.Names = names
	res.Columns = columns
	res.Summaries = stats.SummarizeAll(names, columns)

	if method == "mcmc" && res.Chains > 1 {
		attachHyperDiagnostics(res, chainsU, chainsV)
	}

	res.Notes = append([]string{fmt.Sprintf("%d streets, %d bicycles of %d vehicles (pooled proportion %.3f)",
		len(counts), totalBikes, totalVehicles, pooled)}, res.Notes...)

	pm := res.Summary("pop_mean")
	res.Headline = fmt.Sprintf("population mean bicycle share %.3f (95%% interval %.3f to %.3f)",
		pm.Mean, pm.Q025, pm.Q975)

	res.Duration = time.Since(started)
	return res, nil
}

func loadStreetCounts(opts BikesOptions) ([]domain.StreetCount, string, error) {
	var counts []domain.StreetCount
	var err error
	label := "city bike survey"
	if opts.DataFile == "" {
		counts, err = dataset.LoadStreets()
	} else {
		counts, err = dataset.ReadStreetsFile(opts.DataFile)
		label = opts.DataFile
	}
	if err != nil {
		return nil, "", fmt.Errorf("loading street counts: %w", err)
	}

	if opts.Route != nil {
		counts = dataset.FilterRoute(counts, *opts.Route)
		if *opts.Route {
			label += " (bike routes)"
		} else {
			label += " (no bike routes)"
		}
	}
	return counts, label, nil
}

// hyperTarget returns the log posterior density of (u, v) with
// u = log(alpha/beta) and v = log(alpha+beta). The beta-binomial
// likelihood term drops the constant binomial coefficients; the
// Jacobian alpha*beta of the transform is included.
func hyperTarget(counts []domain.StreetCount) func(u, v float64) float64 {
	type obs struct{ y, miss float64 }
	data := make([]obs, len(counts))
	for i, c := range counts {
		data[i] = obs{y: float64(c.Bicycles), miss: float64(c.Total() - c.Bicycles)}
	}

	return func(u, v float64) float64 {
		logAlpha := v + u - softplus(u)
		logBeta := v - softplus(u)
		alpha := math.Exp(logAlpha)
		beta := math.Exp(logBeta)
		if alpha <= 0 || beta <= 0 || math.IsInf(alpha, 1) || math.IsInf(beta, 1) {
			return math.Inf(-1)
		}

		lp := logAlpha + logBeta - 2.5*v
		lbAB := lbeta(alpha, beta)
		for _, d := range data {
			lp += lbeta(alpha+d.y, beta+d.miss) - lbAB
		}
		return lp
	}
}

func hyperFromTransformed(u, v float64) (alpha, beta float64) {
	alpha = math.Exp(v + u - softplus(u))
	beta = math.Exp(v - softplus(u))
	return alpha, beta
}

func attachHyperDiagnostics(res *Result, chainsU, chainsV [][]float64) {
	transform := func(f func(u, v float64) float64) [][]float64 {
		out := make([][]float64, len(chainsU))
		for c := range chainsU {
			col := make([]float64, len(chainsU[c]))
			for i := range col {
				col[i] = f(chainsU[c][i], chainsV[c][i])
			}
			out[c] = col
		}
		return out
	}

	perName := map[string][][]float64{
		"alpha":      transform(func(u, v float64) float64 { a, _ := hyperFromTransformed(u, v); return a }),
		"beta":       transform(func(u, v float64) float64 { _, b := hyperFromTransformed(u, v); return b }),
		"pop_mean":   transform(func(u, v float64) float64 { return sigmoid(u) }),
		"prior_size": transform(func(u, v float64) float64 { return math.Exp(v) }),
	}

	for name, chains := range perName {
		d := stats.Diagnose(chains)
		s := res.Summary(name)
		if s == nil {
			continue
		}
		if !math.IsNaN(d.RHat) {
			rhat := d.RHat
			s.RHat = &rhat
		}
		if !math.IsNaN(d.ESS) {
			ess := d.ESS
			s.ESS = &ess
		}
	}
}

// softplus is log(1+exp(x)) computed without overflow.
func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func lbeta(a, b float64) float64 {
	la, _ := math.Lgamma(a)
	lb, _ := math.Lgamma(b)
	lab, _ := math.Lgamma(a + b)
	return la + lb - lab
}

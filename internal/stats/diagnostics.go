package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// ChainDiag holds convergence diagnostics for one parameter.
type ChainDiag struct {
	RHat float64
	ESS  float64
}

// Diagnose computes the split potential scale reduction factor and a
// crude effective sample size for one parameter, one slice per chain.
// Fewer than two chains, or chains too short to split, yield NaN RHat.
// Chains of unequal length are truncated to the shortest.
func Diagnose(chains [][]float64) ChainDiag {
	d := ChainDiag{RHat: math.NaN(), ESS: math.NaN()}
	if len(chains) == 0 {
		return d
	}

	n := len(chains[0])
	for _, c := range chains[1:] {
		if len(c) < n {
			n = len(c)
		}
	}
	if n < 4 {
		return d
	}

	half := n / 2
	var seqs [][]float64
	for _, c := range chains {
		seqs = append(seqs, c[:half], c[half:2*half])
	}

	d.ESS = effectiveSampleSize(chains, n)
	if len(chains) < 2 {
		return d
	}

	means := make([]float64, len(seqs))
	vars := make([]float64, len(seqs))
	for i, s := range seqs {
		means[i], vars[i] = stat.MeanVariance(s, nil)
	}

	w := stat.Mean(vars, nil)
	b := float64(half) * stat.Variance(means, nil)
	if w <= 0 {
		return d
	}

	varPlus := float64(half-1)/float64(half)*w + b/float64(half)
	d.RHat = math.Sqrt(varPlus / w)
	return d
}

// effectiveSampleSize estimates N/(1+2*sum of autocorrelations), summing
// lags until the chain-averaged autocorrelation first drops below zero.
func effectiveSampleSize(chains [][]float64, n int) float64 {
	total := float64(len(chains) * n)

	maxLag := n - 1
	if maxLag > 200 {
		maxLag = 200
	}

	tau := 1.0
	for lag := 1; lag <= maxLag; lag++ {
		rho := 0.0
		for _, c := range chains {
			rho += autocorr(c[:n], lag)
		}
		rho /= float64(len(chains))
		if rho < 0 {
			break
		}
		tau += 2 * rho
	}

	ess := total / tau
	if ess > total {
		ess = total
	}
	return ess
}

func autocorr(x []float64, lag int) float64 {
	n := len(x)
	mean := stat.Mean(x, nil)

	var num, den float64
	for i := 0; i < n; i++ {
		d := x[i] - mean
		den += d * d
	}
	if den == 0 {
		return 0
	}
	for i := 0; i+lag < n; i++ {
		num += (x[i] - mean) * (x[i+lag] - mean)
	}
	return num / den
}

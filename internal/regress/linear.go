// Package regress fits the normal linear model under the standard
// noninformative prior and simulates from the joint posterior of the
// coefficients and the error scale.
package regress

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Fit holds the least squares solution and the factors needed for
// posterior simulation.
type Fit struct {
	Coef   []float64 // least squares coefficients
	S2     float64   // residual variance, RSS/(n-k)
	DF     int       // residual degrees of freedom
	xtxInv *mat.SymDense
}

// LeastSquares solves the normal equations for the design matrix x and
// response y via a Cholesky factorization. x must have more rows than
// columns and full column rank.
func LeastSquares(x *mat.Dense, y []float64) (*Fit, error) {
	n, k := x.Dims()
	if len(y) != n {
		return nil, fmt.Errorf("design has %d rows but response has %d values", n, len(y))
	}
	if n <= k {
		return nil, fmt.Errorf("need more observations than coefficients: %d rows, %d columns", n, k)
	}

	xtx := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			var sum float64
			for r := 0; r < n; r++ {
				sum += x.At(r, i) * x.At(r, j)
			}
			xtx.SetSym(i, j, sum)
		}
	}

	xty := mat.NewVecDense(k, nil)
	for i := 0; i < k; i++ {
		var sum float64
		for r := 0; r < n; r++ {
			sum += x.At(r, i) * y[r]
		}
		xty.SetVec(i, sum)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(xtx); !ok {
		return nil, errors.New("design matrix is singular or ill conditioned")
	}

	beta := mat.NewVecDense(k, nil)
	if err := chol.SolveVecTo(beta, xty); err != nil {
		return nil, fmt.Errorf("solving normal equations: %w", err)
	}

	inv := mat.NewSymDense(k, nil)
	if err := chol.InverseTo(inv); err != nil {
		return nil, fmt.Errorf("inverting X'X: %w", err)
	}

	var rss float64
	for r := 0; r < n; r++ {
		fitted := 0.0
		for j := 0; j < k; j++ {
			fitted += x.At(r, j) * beta.AtVec(j)
		}
		resid := y[r] - fitted
		rss += resid * resid
	}

	coef := make([]float64, k)
	for j := range coef {
		coef[j] = beta.AtVec(j)
	}

	return &Fit{
		Coef:   coef,
		S2:     rss / float64(n-k),
		DF:     n - k,
		xtxInv: inv,
	}, nil
}

// StdErrors returns the classical standard error of each coefficient.
func (f *Fit) StdErrors() []float64 {
	out := make([]float64, len(f.Coef))
	for j := range out {
		out[j] = math.Sqrt(f.S2 * f.xtxInv.At(j, j))
	}
	return out
}

// Simulate draws from the joint posterior under the prior
// p(beta, sigma^2) proportional to 1/sigma^2: sigma^2 is DF*S2 over a
// chi-squared variate with DF degrees of freedom, and beta given sigma
// is normal around the least squares solution with covariance
// sigma^2 (X'X)^-1. Returns one row per draw plus the sigma draws.
func (f *Fit) Simulate(nDraws int, src rand.Source) (betas [][]float64, sigmas []float64, err error) {
	if nDraws <= 0 {
		return nil, nil, fmt.Errorf("draw count must be positive, got %d", nDraws)
	}

	k := len(f.Coef)
	zero := make([]float64, k)
	normal, ok := distmv.NewNormal(zero, f.xtxInv, src)
	if !ok {
		return nil, nil, errors.New("posterior covariance is not positive definite")
	}
	chi2 := distuv.ChiSquared{K: float64(f.DF), Src: src}

	betas = make([][]float64, nDraws)
	sigmas = make([]float64, nDraws)
	scale := float64(f.DF) * f.S2

	u := make([]float64, k)
	for i := 0; i < nDraws; i++ {
		sigma := math.Sqrt(scale / chi2.Rand())
		sigmas[i] = sigma

		normal.Rand(u)
		draw := make([]float64, k)
		for j := range draw {
			draw[j] = f.Coef[j] + sigma*u[j]
		}
		betas[i] = draw
	}
	return betas, sigmas, nil
}

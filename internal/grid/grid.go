// Package grid approximates a two dimensional posterior density by
// evaluating the un-normalized log density on a regular grid,
// normalizing the exponentiated surface, and sampling by inversion.
package grid

import (
	"errors"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// LogDensity evaluates an un-normalized log posterior at (x, y).
type LogDensity func(x, y float64) float64

// Grid is a normalized discrete approximation of a joint density.
// Cell (i, j) covers the rectangle centered on (xs[i], ys[j]).
type Grid struct {
	xs, ys []float64
	prob   []float64 // row-major: prob[i*len(ys)+j]
	margX  []float64
	dx, dy float64
}

// Axis returns n evenly spaced values from lo to hi inclusive.
func Axis(lo, hi float64, n int) []float64 {
	vals := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	return vals
}

// New evaluates logPost on the cross product of xs and ys, subtracts the
// maximum for stability, exponentiates, and normalizes to total mass one.
// Cells evaluating to NaN are treated as impossible. Axes must be evenly
// spaced with at least two values each.
func New(xs, ys []float64, logPost LogDensity) (*Grid, error) {
	if len(xs) < 2 || len(ys) < 2 {
		return nil, errors.New("grid axes need at least two values each")
	}

	logp := make([]float64, len(xs)*len(ys))
	for i, x := range xs {
		for j, y := range ys {
			v := logPost(x, y)
			if math.IsNaN(v) {
				v = math.Inf(-1)
			}
			logp[i*len(ys)+j] = v
		}
	}

	logZ := floats.LogSumExp(logp)
	if math.IsInf(logZ, -1) {
		return nil, errors.New("log density is zero everywhere on the grid")
	}

	g := &Grid{
		xs:    xs,
		ys:    ys,
		prob:  make([]float64, len(logp)),
		margX: make([]float64, len(xs)),
		dx:    xs[1] - xs[0],
		dy:    ys[1] - ys[0],
	}
	for idx, v := range logp {
		p := math.Exp(v - logZ)
		g.prob[idx] = p
		g.margX[idx/len(ys)] += p
	}
	return g, nil
}

// MarginalX returns the marginal probabilities of the x axis cells.
func (g *Grid) MarginalX() []float64 {
	out := make([]float64, len(g.margX))
	copy(out, g.margX)
	return out
}

// Sample draws n points by inversion: an x cell from the marginal, a y
// cell from the conditional given x, each jittered uniformly within half
// a grid step so draws are continuous.
func (g *Grid) Sample(n int, rng *rand.Rand) (xs, ys []float64) {
	xs = make([]float64, n)
	ys = make([]float64, n)
	ny := len(g.ys)

	for k := 0; k < n; k++ {
		i := pick(g.margX, 1, rng)
		row := g.prob[i*ny : (i+1)*ny]
		j := pick(row, g.margX[i], rng)

		xs[k] = g.xs[i] + (rng.Float64()-0.5)*g.dx
		ys[k] = g.ys[j] + (rng.Float64()-0.5)*g.dy
	}
	return xs, ys
}

// pick draws an index proportional to weights, whose sum is total.
func pick(weights []float64, total float64, rng *rand.Rand) int {
	target := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}

// Mean returns the mean of the discrete distribution on each axis.
func (g *Grid) Mean() (mx, my float64) {
	ny := len(g.ys)
	for i, x := range g.xs {
		for j, y := range g.ys {
			p := g.prob[i*ny+j]
			mx += x * p
			my += y * p
		}
	}
	return mx, my
}

// Mode returns the cell center with the highest probability.
func (g *Grid) Mode() (x, y float64) {
	best := 0
	for idx, p := range g.prob {
		if p > g.prob[best] {
			best = idx
		}
	}
	ny := len(g.ys)
	return g.xs[best/ny], g.ys[best%ny]
}

// EdgeMass reports the probability mass sitting on the boundary cells.
// A large value means the grid window clips the posterior.
func (g *Grid) EdgeMass() float64 {
	nx, ny := len(g.xs), len(g.ys)
	var mass float64
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			if i == 0 || i == nx-1 || j == 0 || j == ny-1 {
				mass += g.prob[i*ny+j]
			}
		}
	}
	return mass
}

// Dims, Z, X and Y implement the plotter GridXYZ interface so the grid
// can be rendered as a heat map without copying.
func (g *Grid) Dims() (c, r int) { return len(g.xs), len(g.ys) }

func (g *Grid) Z(c, r int) float64 { return g.prob[c*len(g.ys)+r] }

func (g *Grid) X(c int) float64 { return g.xs[c] }

func (g *Grid) Y(r int) float64 { return g.ys[r] }

// Package mcmc implements random walk Metropolis sampling with
// independently seeded concurrent chains.
package mcmc

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// LogTarget evaluates an un-normalized log posterior.
type LogTarget func(params []float64) float64

// Config controls one sampling run.
type Config struct {
	Iterations int // post burn-in iterations per chain
	BurnIn     int
	Thin       int // keep every Thin-th draw; zero means keep all
	Chains     int
	Seed       uint64
	Step       []float64 // proposal standard deviation per dimension
	Start      []float64 // center of the over-dispersed chain starts
}

// Chain holds one chain's kept draws and acceptance counts.
type Chain struct {
	Draws    [][]float64
	Accepted int
	Proposed int
}

// AcceptanceRate is the fraction of proposals accepted, burn-in included.
func (c Chain) AcceptanceRate() float64 {
	if c.Proposed == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(c.Proposed)
}

// Result holds every chain from one run.
type Result struct {
	Chains []Chain
}

// Column gathers parameter d's draws, one slice per chain.
func (r *Result) Column(d int) [][]float64 {
	out := make([][]float64, len(r.Chains))
	for c, ch := range r.Chains {
		col := make([]float64, len(ch.Draws))
		for i, draw := range ch.Draws {
			col[i] = draw[d]
		}
		out[c] = col
	}
	return out
}

// Pooled concatenates every chain's draws for parameter d.
func (r *Result) Pooled(d int) []float64 {
	var out []float64
	for _, ch := range r.Chains {
		for _, draw := range ch.Draws {
			out = append(out, draw[d])
		}
	}
	return out
}

// Draws is the total number of kept draws across chains.
func (r *Result) Draws() int64 {
	var n int64
	for _, ch := range r.Chains {
		n += int64(len(ch.Draws))
	}
	return n
}

// AcceptanceRate is the overall acceptance fraction across chains.
func (r *Result) AcceptanceRate() float64 {
	var accepted, proposed int
	for _, ch := range r.Chains {
		accepted += ch.Accepted
		proposed += ch.Proposed
	}
	if proposed == 0 {
		return 0
	}
	return float64(accepted) / float64(proposed)
}

// Run samples the target with cfg.Chains random walk Metropolis chains,
// each on its own goroutine with its own generator stream. Output is
// deterministic for a fixed seed regardless of scheduling.
func Run(ctx context.Context, target LogTarget, cfg Config) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	if cfg.Thin < 1 {
		cfg.Thin = 1
	}

	result := &Result{Chains: make([]Chain, cfg.Chains)}

	g, ctx := errgroup.WithContext(ctx)
	for c := 0; c < cfg.Chains; c++ {
		g.Go(func() error {
			chain, err := runChain(ctx, target, cfg, c)
			if err != nil {
				return err
			}
			result.Chains[c] = chain
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

func validate(cfg Config) error {
	if cfg.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.Chains <= 0 {
		return fmt.Errorf("chains must be positive, got %d", cfg.Chains)
	}
	if len(cfg.Start) == 0 {
		return fmt.Errorf("start point is empty")
	}
	if len(cfg.Step) != len(cfg.Start) {
		return fmt.Errorf("step has %d dimensions, start has %d", len(cfg.Step), len(cfg.Start))
	}
	for d, s := range cfg.Step {
		if s <= 0 {
			return fmt.Errorf("step %d must be positive, got %g", d, s)
		}
	}
	return nil
}

func runChain(ctx context.Context, target LogTarget, cfg Config, idx int) (Chain, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(idx)))
	dim := len(cfg.Start)

	cur := make([]float64, dim)
	for d := range cur {
		cur[d] = cfg.Start[d] + 2*cfg.Step[d]*rng.NormFloat64()
	}
	curLog := target(cur)
	if math.IsInf(curLog, -1) || math.IsNaN(curLog) {
		return Chain{}, fmt.Errorf("chain %d starts at an impossible point", idx)
	}

	total := cfg.BurnIn + cfg.Iterations
	chain := Chain{Draws: make([][]float64, 0, cfg.Iterations/cfg.Thin)}

	prop := make([]float64, dim)
	for it := 0; it < total; it++ {
		if it%512 == 0 {
			select {
			case <-ctx.Done():
				return Chain{}, ctx.Err()
			default:
			}
		}

		for d := range prop {
			prop[d] = cur[d] + cfg.Step[d]*rng.NormFloat64()
		}
		propLog := target(prop)

		chain.Proposed++
		if accept(curLog, propLog, rng) {
			copy(cur, prop)
			curLog = propLog
			chain.Accepted++
		}

		if it >= cfg.BurnIn && (it-cfg.BurnIn)%cfg.Thin == 0 {
			draw := make([]float64, dim)
			copy(draw, cur)
			chain.Draws = append(chain.Draws, draw)
		}
	}
	return chain, nil
}

// accept applies the Metropolis rule. NaN from the target rejects the
// proposal rather than poisoning the chain.
func accept(curLog, propLog float64, rng *rand.Rand) bool {
	if math.IsNaN(propLog) || math.IsInf(propLog, -1) {
		return false
	}
	if propLog >= curLog {
		return true
	}
	return math.Log(rng.Float64()) < propLog-curLog
}

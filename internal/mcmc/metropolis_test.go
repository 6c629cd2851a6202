package mcmc

import (
	"context"
	"math"
	"testing"
)

func standardNormal(p []float64) float64 {
	return -p[0] * p[0] / 2
}

func TestRun_RecoversStandardNormal(t *testing.T) {
	cfg := Config{
		Iterations: 3000,
		BurnIn:     1000,
		Chains:     4,
		Seed:       42,
		Step:       []float64{2.4},
		Start:      []float64{0},
	}

	res, err := Run(context.Background(), standardNormal, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	draws := res.Pooled(0)
	if len(draws) != 12000 {
		t.Fatalf("expected 12000 pooled draws, got %d", len(draws))
	}

	var sum, sum2 float64
	for _, v := range draws {
		sum += v
		sum2 += v * v
	}
	n := float64(len(draws))
	mean := sum / n
	sd := math.Sqrt(sum2/n - mean*mean)

	if math.Abs(mean) > 0.15 {
		t.Errorf("mean: expected near 0, got %.4f", mean)
	}
	if math.Abs(sd-1) > 0.15 {
		t.Errorf("sd: expected near 1, got %.4f", sd)
	}

	rate := res.AcceptanceRate()
	if rate < 0.2 || rate > 0.7 {
		t.Errorf("acceptance rate: expected a sane band for step 2.4, got %.3f", rate)
	}
}

func TestRun_TwoDimensionalTarget(t *testing.T) {
	target := func(p []float64) float64 {
		dx := p[0] - 2
		dy := p[1] + 1
		return -dx*dx/2 - dy*dy/(2*9)
	}

	cfg := Config{
		Iterations: 4000,
		BurnIn:     1000,
		Chains:     3,
		Seed:       7,
		Step:       []float64{1.2, 3.6},
		Start:      []float64{0, 0},
	}

	res, err := Run(context.Background(), target, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	meanOf := func(vals []float64) float64 {
		var s float64
		for _, v := range vals {
			s += v
		}
		return s / float64(len(vals))
	}

	if m := meanOf(res.Pooled(0)); math.Abs(m-2) > 0.25 {
		t.Errorf("mean x: expected near 2, got %.4f", m)
	}
	if m := meanOf(res.Pooled(1)); math.Abs(m+1) > 0.6 {
		t.Errorf("mean y: expected near -1, got %.4f", m)
	}
}

func TestRun_DeterministicForFixedSeed(t *testing.T) {
	cfg := Config{
		Iterations: 200,
		BurnIn:     50,
		Chains:     2,
		Seed:       99,
		Step:       []float64{1},
		Start:      []float64{0},
	}

	first, err := Run(context.Background(), standardNormal, cfg)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := Run(context.Background(), standardNormal, cfg)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	for c := range first.Chains {
		a, b := first.Chains[c].Draws, second.Chains[c].Draws
		if len(a) != len(b) {
			t.Fatalf("chain %d: draw counts differ", c)
		}
		for i := range a {
			if a[i][0] != b[i][0] {
				t.Fatalf("chain %d draw %d: %.10f vs %.10f", c, i, a[i][0], b[i][0])
			}
		}
	}
}

func TestRun_Thinning(t *testing.T) {
	cfg := Config{
		Iterations: 1000,
		BurnIn:     100,
		Thin:       10,
		Chains:     2,
		Seed:       1,
		Step:       []float64{1},
		Start:      []float64{0},
	}

	res, err := Run(context.Background(), standardNormal, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for c, ch := range res.Chains {
		if len(ch.Draws) != 100 {
			t.Errorf("chain %d: expected 100 thinned draws, got %d", c, len(ch.Draws))
		}
	}
	if res.Draws() != 200 {
		t.Errorf("expected 200 total draws, got %d", res.Draws())
	}
}

func TestRun_ImpossibleStart(t *testing.T) {
	target := func(p []float64) float64 { return math.Inf(-1) }

	cfg := Config{
		Iterations: 100,
		Chains:     1,
		Seed:       1,
		Step:       []float64{1},
		Start:      []float64{0},
	}

	if _, err := Run(context.Background(), target, cfg); err == nil {
		t.Error("expected error for an everywhere impossible target")
	}
}

func TestRun_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero iterations", Config{Chains: 1, Step: []float64{1}, Start: []float64{0}}},
		{"zero chains", Config{Iterations: 10, Step: []float64{1}, Start: []float64{0}}},
		{"empty start", Config{Iterations: 10, Chains: 1, Step: []float64{1}}},
		{"step dimension mismatch", Config{Iterations: 10, Chains: 1, Step: []float64{1, 1}, Start: []float64{0}}},
		{"negative step", Config{Iterations: 10, Chains: 1, Step: []float64{-1}, Start: []float64{0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(context.Background(), standardNormal, tt.cfg); err == nil {
				t.Error("expected a config error")
			}
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{
		Iterations: 100000,
		Chains:     2,
		Seed:       1,
		Step:       []float64{1},
		Start:      []float64{0},
	}

	if _, err := Run(ctx, standardNormal, cfg); err == nil {
		t.Error("expected context cancellation error")
	}
}

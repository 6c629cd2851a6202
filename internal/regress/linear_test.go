package regress

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLeastSquares_KnownSolution(t *testing.T) {
	// y on {0,1,2,3} with an intercept: slope 0.6, intercept 0.1, RSS 0.2.
	x := mat.NewDense(4, 2, []float64{
		1, 0,
		1, 1,
		1, 2,
		1, 3,
	})
	y := []float64{0, 1, 1, 2}

	fit, err := LeastSquares(x, y)
	if err != nil {
		t.Fatalf("LeastSquares: %v", err)
	}

	if math.Abs(fit.Coef[0]-0.1) > 1e-9 {
		t.Errorf("intercept: expected 0.1, got %.6f", fit.Coef[0])
	}
	if math.Abs(fit.Coef[1]-0.6) > 1e-9 {
		t.Errorf("slope: expected 0.6, got %.6f", fit.Coef[1])
	}
	if fit.DF != 2 {
		t.Errorf("DF: expected 2, got %d", fit.DF)
	}
	if math.Abs(fit.S2-0.1) > 1e-9 {
		t.Errorf("S2: expected 0.1, got %.6f", fit.S2)
	}

	se := fit.StdErrors()
	if len(se) != 2 || se[0] <= 0 || se[1] <= 0 {
		t.Errorf("StdErrors: expected two positive values, got %v", se)
	}
}

func TestLeastSquares_ExactFit(t *testing.T) {
	x := mat.NewDense(5, 2, []float64{
		1, 1,
		1, 2,
		1, 3,
		1, 4,
		1, 5,
	})
	y := []float64{3, 5, 7, 9, 11} // exactly 1 + 2x

	fit, err := LeastSquares(x, y)
	if err != nil {
		t.Fatalf("LeastSquares: %v", err)
	}

	if math.Abs(fit.Coef[0]-1) > 1e-9 || math.Abs(fit.Coef[1]-2) > 1e-9 {
		t.Errorf("coefficients: expected (1, 2), got (%.6f, %.6f)", fit.Coef[0], fit.Coef[1])
	}
	if fit.S2 > 1e-18 {
		t.Errorf("S2: expected zero residual variance, got %g", fit.S2)
	}
}

func TestLeastSquares_Errors(t *testing.T) {
	tests := []struct {
		name string
		x    *mat.Dense
		y    []float64
	}{
		{
			name: "response length mismatch",
			x:    mat.NewDense(3, 2, []float64{1, 0, 1, 1, 1, 2}),
			y:    []float64{1, 2},
		},
		{
			name: "too few observations",
			x:    mat.NewDense(2, 2, []float64{1, 0, 1, 1}),
			y:    []float64{1, 2},
		},
		{
			name: "duplicate column",
			x:    mat.NewDense(4, 2, []float64{1, 1, 1, 1, 1, 1, 1, 1}),
			y:    []float64{1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LeastSquares(tt.x, tt.y); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSimulate_PosteriorCentersOnFit(t *testing.T) {
	// 30 points on y = 2 + 0.5x with an alternating residual pattern.
	n := 30
	rows := make([]float64, 0, 2*n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		rows = append(rows, 1, float64(i))
		resid := 0.2
		if i%2 == 1 {
			resid = -0.2
		}
		y[i] = 2 + 0.5*float64(i) + resid
	}
	x := mat.NewDense(n, 2, rows)

	fit, err := LeastSquares(x, y)
	if err != nil {
		t.Fatalf("LeastSquares: %v", err)
	}

	betas, sigmas, err := fit.Simulate(4000, rand.NewPCG(11, 17))
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	if len(betas) != 4000 || len(sigmas) != 4000 {
		t.Fatalf("expected 4000 draws, got %d betas, %d sigmas", len(betas), len(sigmas))
	}

	var meanIntercept, meanSlope, meanSigma float64
	for i := range betas {
		meanIntercept += betas[i][0]
		meanSlope += betas[i][1]
		meanSigma += sigmas[i]
	}
	meanIntercept /= 4000
	meanSlope /= 4000
	meanSigma /= 4000

	if math.Abs(meanIntercept-fit.Coef[0]) > 0.02 {
		t.Errorf("posterior intercept mean: expected near %.4f, got %.4f", fit.Coef[0], meanIntercept)
	}
	if math.Abs(meanSlope-fit.Coef[1]) > 0.002 {
		t.Errorf("posterior slope mean: expected near %.4f, got %.4f", fit.Coef[1], meanSlope)
	}

	s := math.Sqrt(fit.S2)
	if math.Abs(meanSigma-s) > 0.05 {
		t.Errorf("posterior sigma mean: expected near %.4f, got %.4f", s, meanSigma)
	}
}

func TestSimulate_RejectsBadDrawCount(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 1, 1})
	fit, err := LeastSquares(x, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("LeastSquares: %v", err)
	}

	if _, _, err := fit.Simulate(0, rand.NewPCG(1, 2)); err == nil {
		t.Error("expected error for zero draws")
	}
}

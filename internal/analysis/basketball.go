package analysis

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lwerth/INFO510-public/internal/dataset"
	"github.com/lwerth/INFO510-public/internal/domain"
	"github.com/lwerth/INFO510-public/internal/stats"
)

// HoopsOptions configure the score distribution analysis.
type HoopsOptions struct {
	DataFile string // game log CSV path, empty for the embedded season
	Measure  string // "margin" or "total", empty means margin
	Draws    int
	Seed     uint64
}

// Hoops fits a normal model with unknown mean and variance to a
// per-game score measure under the noninformative prior p(mu, sigma^2)
// proportional to 1/sigma^2, then simulates the joint posterior and the
// posterior predictive distribution for the next game.
func Hoops(ctx context.Context, opts HoopsOptions) (*Result, error) {
	started := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	games, label, err := loadGames(opts)
	if err != nil {
		return nil, err
	}
	if len(games) < 3 {
		return nil, fmt.Errorf("need at least 3 games, have %d", len(games))
	}

	measure := opts.Measure
	if measure == "" {
		measure = "margin"
	}
	var ys []float64
	switch measure {
	case "margin":
		ys = dataset.Margins(games)
	case "total":
		ys = dataset.Totals(games)
	default:
		return nil, fmt.Errorf("unknown measure %q, want margin or total", measure)
	}

	draws := opts.Draws
	if draws <= 0 {
		draws = 4000
	}

	n := len(ys)
	mean, variance := stat.MeanVariance(ys, nil)
	sd := math.Sqrt(variance)

	rng := rand.New(rand.NewPCG(opts.Seed, 0))
	chi := distuv.ChiSquared{K: float64(n - 1), Src: rng}
	sqrtN := math.Sqrt(float64(n))

	mus := make([]float64, draws)
	sigmas := make([]float64, draws)
	preds := make([]float64, draws)
	for i := range mus {
		sigma := math.Sqrt(float64(n-1) * variance / chi.Rand())
		mu := mean + sigma*rng.NormFloat64()/sqrtN
		mus[i] = mu
		sigmas[i] = sigma
		preds[i] = mu + sigma*rng.NormFloat64()
	}

	names := []string{"mu", "sigma", "pred"}
	columns := [][]float64{mus, sigmas, preds}

	res := &Result{
		Analysis:  "hoops",
		Dataset:   label,
		Method:    "direct",
		Seed:      opts.Seed,
		Chains:    1,
		Names:     names,
		Columns:   columns,
		Summaries: stats.SummarizeAll(names, columns),
	}

	first, last := games[0].Date, games[len(games)-1].Date
	res.Notes = append(res.Notes, fmt.Sprintf("%d games from %s to %s",
		len(games), first.Format("2006-01-02"), last.Format("2006-01-02")))
	res.Notes = append(res.Notes, fmt.Sprintf("sample %s mean %.2f, sd %.2f", measure, mean, sd))

	pred := res.Summary("pred")
	switch measure {
	case "margin":
		winShare := shareAbove(preds, 0)
		observed := float64(dataset.HomeWins(games)) / float64(len(games))
		res.Notes = append(res.Notes, fmt.Sprintf("observed home win rate %.3f", observed))
		res.Headline = fmt.Sprintf("predicted home margin %.1f (95%% interval %.1f to %.1f), P(home win) %.2f",
			pred.Mean, pred.Q025, pred.Q975, winShare)
	case "total":
		res.Headline = fmt.Sprintf("predicted total score %.0f (95%% interval %.0f to %.0f)",
			pred.Mean, pred.Q025, pred.Q975)
	}

	res.Duration = time.Since(started)
	return res, nil
}

func loadGames(opts HoopsOptions) ([]domain.Game, string, error) {
	if opts.DataFile == "" {
		games, err := dataset.LoadGames()
		if err != nil {
			return nil, "", fmt.Errorf("loading game log: %w", err)
		}
		return games, "1987-88 season game log", nil
	}
	games, err := dataset.ReadGamesFile(opts.DataFile)
	if err != nil {
		return nil, "", fmt.Errorf("loading game log: %w", err)
	}
	return games, opts.DataFile, nil
}

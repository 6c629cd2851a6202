package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/lwerth/INFO510-public/internal/analysis"
	"github.com/lwerth/INFO510-public/internal/config"
	"github.com/lwerth/INFO510-public/internal/domain"
)

func TestResolveInt(t *testing.T) {
	defer func() { cfg = config.Config{} }()

	cmd := &cobra.Command{Use: "test"}
	var draws int
	cmd.Flags().IntVar(&draws, "draws", 4000, "")

	cfg = config.Config{Draws: 2000}
	if got := resolveInt(cmd, "draws", draws, cfg.Draws); got != 2000 {
		t.Errorf("unset flag should take config value, got %d", got)
	}

	if err := cmd.Flags().Set("draws", "500"); err != nil {
		t.Fatal(err)
	}
	if got := resolveInt(cmd, "draws", draws, cfg.Draws); got != 500 {
		t.Errorf("set flag should win over config, got %d", got)
	}

	cfg = config.Config{}
	cmd2 := &cobra.Command{Use: "test"}
	cmd2.Flags().IntVar(&draws, "draws", 4000, "")
	draws = 4000
	if got := resolveInt(cmd2, "draws", draws, cfg.Draws); got != 4000 {
		t.Errorf("no config should keep the flag default, got %d", got)
	}
}

func TestResolveSeed(t *testing.T) {
	defer func() { cfg = config.Config{} }()

	cmd := &cobra.Command{Use: "test"}
	var seed uint64
	cmd.Flags().Uint64Var(&seed, "seed", 0, "")

	cfg = config.Config{Seed: 7}
	if got := resolveSeed(cmd, seed); got != 7 {
		t.Errorf("config seed should apply, got %d", got)
	}

	if err := cmd.Flags().Set("seed", "42"); err != nil {
		t.Fatal(err)
	}
	seed = 42
	if got := resolveSeed(cmd, seed); got != 42 {
		t.Errorf("flag seed should win, got %d", got)
	}

	cfg = config.Config{}
	cmd2 := &cobra.Command{Use: "test"}
	cmd2.Flags().Uint64Var(&seed, "seed", 0, "")
	if got := resolveSeed(cmd2, 0); got == 0 {
		t.Error("unset seed should be replaced with a nonzero one")
	}
}

func TestWriteSummaryTable(t *testing.T) {
	rhat := 1.01
	ess := 850.0
	summaries := []domain.ParamSummary{
		{Name: "mu", Mean: 1.234, SD: 0.5, Q025: 0.3, Median: 1.2, Q975: 2.2},
		{Name: "sigma", Mean: 2.0, SD: 0.25, Q025: 1.6, Median: 2.0, Q975: 2.5, RHat: &rhat, ESS: &ess},
	}

	var buf strings.Builder
	writeSummaryTable(&buf, summaries)
	out := buf.String()

	for _, want := range []string{"PARAM", "RHAT", "ESS", "mu", "1.234", "1.010", "850", "-"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummaryTable_NoDiagnostics(t *testing.T) {
	summaries := []domain.ParamSummary{
		{Name: "mu", Mean: 1, SD: 1, Q025: -1, Median: 1, Q975: 3},
	}

	var buf strings.Builder
	writeSummaryTable(&buf, summaries)

	if strings.Contains(buf.String(), "RHAT") {
		t.Errorf("single-chain table should drop diagnostics columns:\n%s", buf.String())
	}
}

func TestWriteShrinkageTable(t *testing.T) {
	res := &analysis.Result{
		Streets: []domain.StreetCount{
			{Street: "Main St", BikeRoute: true, Bicycles: 16, Others: 58},
		},
		Names: []string{"theta[Main St]"},
		Summaries: []domain.ParamSummary{
			{Name: "theta[Main St]", Mean: 0.2, SD: 0.04, Q025: 0.13, Q25: 0.17, Q75: 0.23, Median: 0.2, Q975: 0.29},
		},
	}

	var buf strings.Builder
	writeShrinkageTable(&buf, res)
	out := buf.String()

	for _, want := range []string{"Main St", "16/74", "0.216", "0.200", "50% INTERVAL", "0.170 to 0.230", "0.130 to 0.290"} {
		if !strings.Contains(out, want) {
			t.Errorf("shrinkage table missing %q:\n%s", want, out)
		}
	}
}

func TestShortIDAndTruncate(t *testing.T) {
	if got := shortID("4f1f3c2a-aaaa-bbbb-cccc-dddddddddddd"); got != "4f1f3c2a" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID should keep short ids, got %q", got)
	}
	if got := truncate("a long headline that keeps going and going", 20); len(got) != 20 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate = %q", got)
	}
}

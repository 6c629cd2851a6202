package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lwerth/INFO510-public/internal/analysis"
	"github.com/lwerth/INFO510-public/internal/domain"
)

// resolveInt applies a config file default to a flag the user left alone.
func resolveInt(cmd *cobra.Command, name string, flagVal, cfgVal int) int {
	if cmd.Flags().Changed(name) || cfgVal == 0 {
		return flagVal
	}
	return cfgVal
}

// resolveSeed picks the RNG seed: explicit flag, then config file, then
// the clock. The seed ends up in the run record either way, so every
// run stays reproducible.
func resolveSeed(cmd *cobra.Command, flagVal uint64) uint64 {
	if cmd.Flags().Changed("seed") {
		return flagVal
	}
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	if flagVal != 0 {
		return flagVal
	}
	return uint64(time.Now().UnixNano())
}

func printResult(res *analysis.Result) {
	fmt.Printf("%s: %s [%s, seed %d, %s]\n\n",
		res.Analysis, res.Dataset, res.Method, res.Seed,
		res.Duration.Round(time.Millisecond))

	writeSummaryTable(os.Stdout, res.Summaries)

	if len(res.Notes) > 0 {
		fmt.Println()
		for _, n := range res.Notes {
			fmt.Printf("  %s\n", n)
		}
	}

	fmt.Println()
	fmt.Println(res.Headline)
}

// writeSummaryTable prints the posterior summary in the aligned table
// style. Diagnostics columns appear only when some parameter has them.
func writeSummaryTable(out io.Writer, summaries []domain.ParamSummary) {
	hasDiag := false
	for _, s := range summaries {
		if s.RHat != nil || s.ESS != nil {
			hasDiag = true
			break
		}
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if hasDiag {
		fmt.Fprintln(w, "PARAM\tMEAN\tSD\t2.5%\tMEDIAN\t97.5%\tRHAT\tESS")
		fmt.Fprintln(w, "-----\t----\t--\t----\t------\t-----\t----\t---")
	} else {
		fmt.Fprintln(w, "PARAM\tMEAN\tSD\t2.5%\tMEDIAN\t97.5%")
		fmt.Fprintln(w, "-----\t----\t--\t----\t------\t-----")
	}
	for _, s := range summaries {
		if hasDiag {
			fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%s\t%s\n",
				s.Name, s.Mean, s.SD, s.Q025, s.Median, s.Q975,
				fmtFloatPtr(s.RHat, "%.3f"), fmtFloatPtr(s.ESS, "%.0f"))
		} else {
			fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n",
				s.Name, s.Mean, s.SD, s.Q025, s.Median, s.Q975)
		}
	}
	w.Flush()
}

// writeShrinkageTable prints the per-street comparison of raw
// proportions against their posterior summaries.
func writeShrinkageTable(out io.Writer, res *analysis.Result) {
	if len(res.Streets) == 0 {
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STREET\tBIKES/TOTAL\tRAW\tPOSTERIOR\t50% INTERVAL\t95% INTERVAL")
	fmt.Fprintln(w, "------\t-----------\t---\t---------\t------------\t------------")
	for _, c := range res.Streets {
		s := res.Summary(fmt.Sprintf("theta[%s]", c.Street))
		if s == nil {
			continue
		}
		lo50, hi50 := s.Interval50()
		lo95, hi95 := s.Interval95()
		fmt.Fprintf(w, "%s\t%d/%d\t%.3f\t%.3f\t%.3f to %.3f\t%.3f to %.3f\n",
			c.Street, c.Bicycles, c.Total(), c.Proportion(), s.Median,
			lo50, hi50, lo95, hi95)
	}
	w.Flush()
}

func fmtFloatPtr(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

// saveResult persists the run with its artifacts and reports the id.
func saveResult(ctx context.Context, res *analysis.Result) error {
	return withApp(ctx, func(app *AppContext) error {
		run, err := app.Runner.Save(ctx, res)
		if err != nil {
			return err
		}
		fmt.Printf("\nSaved run %s\n", run.ID)
		return nil
	})
}

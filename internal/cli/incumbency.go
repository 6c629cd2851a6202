package cli

import (
	"github.com/spf13/cobra"

	"github.com/lwerth/INFO510-public/internal/analysis"
)

var incumbencyCmd = &cobra.Command{
	Use:   "incumbency",
	Short: "Incumbency advantage regression on House election returns",
	Long: `Regress the Democratic vote share on the previous election's share and
the incumbency indicator over paired contested districts, then simulate
the coefficient posterior under the noninformative prior.

Examples:
  bayeslab incumbency                     # 1986 -> 1988 with the bundled returns
  bayeslab incumbency --draws 10000 --seed 42
  bayeslab incumbency --data ./returns    # read <year>.asc files from a directory`,
	RunE: runIncumbency,
}

var (
	incumbencyYear   int
	incumbencyPrev   int
	incumbencyData   string
	incumbencyDraws  int
	incumbencySeed   uint64
	incumbencyNoSave bool
)

func init() {
	rootCmd.AddCommand(incumbencyCmd)

	incumbencyCmd.Flags().IntVar(&incumbencyYear, "year", 1988, "Election year to model")
	incumbencyCmd.Flags().IntVar(&incumbencyPrev, "prev-year", 0, "Previous election year (default: year minus 2)")
	incumbencyCmd.Flags().StringVar(&incumbencyData, "data", "", "Directory with <year>.asc files (default: embedded data)")
	incumbencyCmd.Flags().IntVar(&incumbencyDraws, "draws", 4000, "Posterior draws")
	incumbencyCmd.Flags().Uint64Var(&incumbencySeed, "seed", 0, "RNG seed (0 picks one)")
	incumbencyCmd.Flags().BoolVar(&incumbencyNoSave, "no-save", false, "Print the summary without storing the run")
}

func runIncumbency(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	prev := incumbencyPrev
	if prev == 0 {
		prev = incumbencyYear - 2
	}

	res, err := analysis.Incumbency(ctx, analysis.IncumbencyOptions{
		PrevYear: prev,
		Year:     incumbencyYear,
		DataDir:  incumbencyData,
		Draws:    resolveInt(cmd, "draws", incumbencyDraws, cfg.Draws),
		Seed:     resolveSeed(cmd, incumbencySeed),
	})
	if err != nil {
		return err
	}

	printResult(res)

	if incumbencyNoSave {
		return nil
	}
	return saveResult(ctx, res)
}

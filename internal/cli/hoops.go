package cli

import (
	"github.com/spf13/cobra"

	"github.com/lwerth/INFO510-public/internal/analysis"
)

var hoopsCmd = &cobra.Command{
	Use:   "hoops",
	Short: "Normal model of basketball score margins and totals",
	Long: `Fit a normal model with unknown mean and variance to a per-game score
measure, then simulate the joint posterior and the posterior predictive
distribution for the next game.

Examples:
  bayeslab hoops                 # home margin with the bundled game log
  bayeslab hoops --stat total
  bayeslab hoops --data games.csv --draws 10000`,
	RunE: runHoops,
}

var (
	hoopsData   string
	hoopsStat   string
	hoopsDraws  int
	hoopsSeed   uint64
	hoopsNoSave bool
)

func init() {
	rootCmd.AddCommand(hoopsCmd)

	hoopsCmd.Flags().StringVar(&hoopsData, "data", "", "Game log CSV (default: embedded season)")
	hoopsCmd.Flags().StringVar(&hoopsStat, "stat", "margin", "Score measure: margin or total")
	hoopsCmd.Flags().IntVar(&hoopsDraws, "draws", 4000, "Posterior draws")
	hoopsCmd.Flags().Uint64Var(&hoopsSeed, "seed", 0, "RNG seed (0 picks one)")
	hoopsCmd.Flags().BoolVar(&hoopsNoSave, "no-save", false, "Print the summary without storing the run")
}

func runHoops(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	res, err := analysis.Hoops(ctx, analysis.HoopsOptions{
		DataFile: hoopsData,
		Measure:  hoopsStat,
		Draws:    resolveInt(cmd, "draws", hoopsDraws, cfg.Draws),
		Seed:     resolveSeed(cmd, hoopsSeed),
	})
	if err != nil {
		return err
	}

	printResult(res)

	if hoopsNoSave {
		return nil
	}
	return saveResult(ctx, res)
}

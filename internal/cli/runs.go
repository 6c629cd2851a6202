package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lwerth/INFO510-public/internal/domain"
	"github.com/lwerth/INFO510-public/internal/ports"
	"github.com/lwerth/INFO510-public/internal/util"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Browse and manage stored runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored runs",
	Long: `List stored analysis runs, newest first.

Examples:
  bayeslab runs list                    # Last 10 runs
  bayeslab runs list --last 50
  bayeslab runs list --analysis bikes`,
	RunE: runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's posterior summary",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var runsRmCmd = &cobra.Command{
	Use:   "rm <run-id>",
	Short: "Delete a run and its artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsRm,
}

var (
	runsLast     int
	runsAnalysis string
)

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsRmCmd)

	runsListCmd.Flags().IntVarP(&runsLast, "last", "n", 10, "Number of runs to show")
	runsListCmd.Flags().StringVarP(&runsAnalysis, "analysis", "a", "", "Filter by analysis (incumbency, bikes, hoops)")
}

func runRunsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(app *AppContext) error {
		opts := ports.ListRunsOptions{Limit: runsLast}
		if runsAnalysis != "" {
			opts.Analysis = &runsAnalysis
		}

		runs, err := app.Runs.List(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tANALYSIS\tMETHOD\tDRAWS\tTIME\tCREATED\tHEADLINE")
		fmt.Fprintln(w, "--\t--------\t------\t-----\t----\t-------\t--------")
		for _, r := range runs {
			headline := ""
			if r.Headline != nil {
				headline = truncate(*r.Headline, 60)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				shortID(r.ID), r.Analysis, r.Method,
				util.FormatNumber(r.Draws),
				util.FormatDurationMs(r.DurationMs),
				r.CreatedAt.Format("2006-01-02 15:04"),
				headline)
		}
		return w.Flush()
	})
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(app *AppContext) error {
		run, err := resolveRun(cmd, app, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Run %s\n", run.ID)
		fmt.Printf("  analysis: %s\n", run.Analysis)
		fmt.Printf("  dataset:  %s\n", run.Dataset)
		fmt.Printf("  method:   %s\n", run.Method)
		fmt.Printf("  seed:     %d\n", run.Seed)
		fmt.Printf("  chains:   %d\n", run.Chains)
		fmt.Printf("  draws:    %d\n", run.Draws)
		fmt.Printf("  time:     %s\n", util.FormatDurationMs(run.DurationMs))
		fmt.Printf("  created:  %s\n", run.CreatedAt.Format("2006-01-02 15:04:05 UTC"))
		fmt.Println()

		summaries, err := app.Summaries.ListByRunID(ctx, run.ID)
		if err != nil {
			return fmt.Errorf("failed to load summaries: %w", err)
		}
		rows := make([]domain.ParamSummary, len(summaries))
		for i, s := range summaries {
			rows[i] = *s
		}
		writeSummaryTable(os.Stdout, rows)

		if len(run.Notes) > 0 {
			fmt.Println()
			for _, n := range run.Notes {
				fmt.Printf("  %s\n", n)
			}
		}
		if run.Headline != nil {
			fmt.Println()
			fmt.Println(*run.Headline)
		}

		artifacts, err := app.Artifacts.List(ctx, run.ID)
		if err == nil && len(artifacts) > 0 {
			fmt.Printf("\nArtifacts: %s\n", strings.Join(artifacts, ", "))
		}
		return nil
	})
}

func runRunsRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(app *AppContext) error {
		run, err := resolveRun(cmd, app, args[0])
		if err != nil {
			return err
		}
		if err := app.Runner.Delete(ctx, run.ID); err != nil {
			return fmt.Errorf("failed to delete run: %w", err)
		}
		fmt.Printf("Deleted run %s\n", run.ID)
		return nil
	})
}

// resolveRun looks a run up by full id or unique prefix.
func resolveRun(cmd *cobra.Command, app *AppContext, id string) (*domain.Run, error) {
	ctx := cmd.Context()

	run, err := app.Runs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if run != nil {
		return run, nil
	}

	runs, err := app.Runs.List(ctx, ports.ListRunsOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	var match *domain.Run
	for _, r := range runs {
		if strings.HasPrefix(r.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", id)
			}
			match = r
		}
	}
	if match == nil {
		return nil, fmt.Errorf("run %q not found", id)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

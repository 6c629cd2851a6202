package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lwerth/INFO510-public/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "bayeslab",
	Short: "Bayesian analysis workbench for the course datasets",
	Long: `bayeslab runs the Bayesian analyses from the course notebooks against
the bundled datasets: the incumbency-advantage regression on House
election returns, the hierarchical binomial model of bicycle traffic,
and the normal model of basketball scores.

Each analysis prints a posterior summary table and, unless --no-save is
given, stores the run for later browsing with 'bayeslab runs' and
'bayeslab serve'.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfigFile,
}

var (
	configPath string
	verbose    bool

	// cfg holds file-provided defaults; flags the user sets win over it.
	cfg config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log sampler diagnostics to stderr")
}

func loadConfigFile(cmd *cobra.Command, args []string) error {
	if configPath == "" {
		return nil
	}
	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg = c
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

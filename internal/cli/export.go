package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lwerth/INFO510-public/internal/runner"
)

var exportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export a stored run's posterior draws",
	Long: `Re-emit a stored run's draw matrix for external analysis.

Examples:
  bayeslab export 4f1f3c2a --format csv > draws.csv
  bayeslab export 4f1f3c2a --format json --output draws.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format: csv, json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	return withApp(ctx, func(app *AppContext) error {
		run, err := resolveRun(cmd, app, args[0])
		if err != nil {
			return err
		}

		data, err := app.Artifacts.Get(ctx, run.ID, "draws.csv")
		if err != nil {
			return fmt.Errorf("failed to read draws artifact: %w", err)
		}
		names, columns, err := runner.DecodeDraws(data)
		if err != nil {
			return fmt.Errorf("failed to parse draws artifact: %w", err)
		}

		out := os.Stdout
		if exportOutput != "" {
			out, err = os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer func() { _ = out.Close() }()
		}

		switch exportFormat {
		case "csv":
			if _, err := out.Write(data); err != nil {
				return fmt.Errorf("failed to write CSV: %w", err)
			}
		case "json":
			if err := writeDrawsJSON(out, run.ID, names, columns); err != nil {
				return fmt.Errorf("failed to write JSON: %w", err)
			}
		default:
			return fmt.Errorf("unsupported format: %s (use csv or json)", exportFormat)
		}

		if exportOutput != "" {
			n := 0
			if len(columns) > 0 {
				n = len(columns[0])
			}
			fmt.Fprintf(os.Stderr, "Exported %d draws to %s\n", n, exportOutput)
		}
		return nil
	})
}

// exportedDraws is the JSON shape: parameter names plus the draw
// matrix in row-major order, one row per posterior draw.
type exportedDraws struct {
	RunID  string      `json:"run_id"`
	Params []string    `json:"params"`
	Draws  [][]float64 `json:"draws"`
}

func writeDrawsJSON(out io.Writer, runID string, names []string, columns [][]float64) error {
	doc := exportedDraws{RunID: runID, Params: names}
	if len(columns) > 0 {
		n := len(columns[0])
		doc.Draws = make([][]float64, n)
		for i := 0; i < n; i++ {
			row := make([]float64, len(columns))
			for j, col := range columns {
				row[j] = col[i]
			}
			doc.Draws[i] = row
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lwerth/INFO510-public/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local results browser",
	Long: `Start the local web server for browsing stored runs.

Examples:
  bayeslab serve               # Listen on 127.0.0.1:8080
  bayeslab serve --port 3000`,
	RunE: runServe,
}

var (
	serveHost string
	servePort int
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Address to bind")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	host := serveHost
	if !cmd.Flags().Changed("host") && cfg.Host != "" {
		host = cfg.Host
	}
	port := resolveInt(cmd, "port", servePort, cfg.Port)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	return withApp(ctx, func(app *AppContext) error {
		server := web.NewServer(host, port, app.Runs, app.Summaries, app.Artifacts, app.Logger)
		return server.Start(ctx)
	})
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"supportbot/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serve the support pipeline over HTTP.

Endpoints:
  GET  /health     readiness probe
  POST /api/query  run a query through the pipeline

Examples:
  supportbot serve
  supportbot serve --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	svc, closeStore, err := newService(cfg, GetRootDir())
	if err != nil {
		return err
	}
	defer closeStore()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(svc, newLogger(cfg))
	fmt.Printf("Listening on %s\n", addr)
	return srv.Run(addr)
}

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/tsis/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the risk settings, calculator and dashboard API",
	Long: `Run the HTTP API the calculator talks to, backed by the SQLite journal.

Routes (under /api/v1, bearer token required):
  GET  /risk-settings
  PUT  /risk-settings
  GET  /risk-settings/calculator?entry_price=&stop_price=
  GET  /dashboard/metrics
  POST /trades

Example:
  tsis serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	loc, err := cfg.Server.Location()
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(j, server.Options{
		Tokens:   cfg.Server.Tokens,
		Defaults: cfg.Server.Defaults,
		Location: loc,
		Metrics:  cfg.Metrics.Enabled,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, addr)
}

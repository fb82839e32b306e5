package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tsis/config"
	"github.com/rustyeddy/tsis/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tsis",
	Short: "Risk-based position size calculator",
	Long: `tsis sizes stock positions from an entry price, a stop price and your
risk settings, and tells you whether the trade fits your daily loss budget.

It provides tools for:
  - Sizing a position locally or against the risk calculator service
  - Viewing stop-distance variations of a trade
  - Keeping a history of recent calculations
  - Editing risk settings
  - Recording closed trades for daily P&L
  - Serving the risk settings and calculator API`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	cfgFile  string
	envFile  string
	logLevel string

	cfg    *config.Config
	logger = zap.NewNop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", ".env file to load (default ./.env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func setup(cmd *cobra.Command, args []string) error {
	var envFiles []string
	if envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	if err := config.LoadEnv(envFiles...); err != nil {
		return err
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}

	l, err := logging.New(c.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	cfg = c
	logger = l
	return nil
}

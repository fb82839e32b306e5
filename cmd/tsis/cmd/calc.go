package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tsis/calculator"
	"github.com/rustyeddy/tsis/risk"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Size a position from entry and stop prices",
	Long: `Calculate the recommended share count for a trade.

By default the risk settings and today's P&L are fetched from the API and the
calculation is validated by the server, then stored in the history.
With --offline the configured default settings are used and nothing is sent.

Examples:
  tsis calc --ticker AAPL --entry 100 --stop 95
  tsis calc --ticker TSLA --entry 250 --stop 260 --side short
  tsis calc --entry 100 --stop 95 --offline`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

var (
	calcTicker  string
	calcEntry   string
	calcStop    string
	calcSide    string
	calcOffline bool
	calcMatrix  bool
)

func init() {
	rootCmd.AddCommand(calcCmd)

	calcCmd.Flags().StringVarP(&calcTicker, "ticker", "t", "", "ticker symbol")
	calcCmd.Flags().StringVarP(&calcEntry, "entry", "e", "", "entry price (required)")
	calcCmd.Flags().StringVarP(&calcStop, "stop", "s", "", "stop price (required)")
	calcCmd.Flags().StringVar(&calcSide, "side", "", "long or short (default: last used)")
	calcCmd.Flags().BoolVar(&calcOffline, "offline", false, "use configured default settings, no API calls")
	calcCmd.Flags().BoolVar(&calcMatrix, "matrix", true, "show stop variations")
	calcCmd.MarkFlagRequired("entry")
	calcCmd.MarkFlagRequired("stop")
}

func runCalc(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	var opts []calculator.Option
	if calcOffline {
		opts = append(opts, calculator.WithSettings(cfg.Server.Defaults))
	}
	svc, err := newService(j, opts...)
	if err != nil {
		return err
	}

	if calcSide != "" {
		side, err := risk.ParseSide(calcSide)
		if err != nil {
			return err
		}
		svc.SetSide(side)
	}
	if cmd.Flags().Changed("ticker") {
		svc.SetTicker(calcTicker)
	}
	svc.SetEntryPrice(calcEntry)
	svc.SetStopPrice(calcStop)

	var calcErr error
	if !calcOffline {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := svc.Refresh(ctx, cfg.API.Token); err != nil {
			logger.Warn("refresh failed; using cached values", zap.Error(err))
		}
		calcErr = svc.Calculate(ctx, cfg.API.Token)
	}

	out := cmd.OutOrStdout()
	st := svc.State()
	renderResult(out, st)
	if calcMatrix {
		renderMatrix(out, st.Matrix)
	}

	switch {
	case calcErr == nil:
		return nil
	case errors.Is(calcErr, calculator.ErrInvalidInput):
		return fmt.Errorf("not calculated: %s", st.Message)
	default:
		return calcErr
	}
}

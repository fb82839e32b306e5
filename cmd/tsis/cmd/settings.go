package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rustyeddy/tsis/risk"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change risk settings",
	Long: `Read and update the risk settings held by the risk settings service.

Examples:
  tsis settings get
  tsis settings set --account-balance 25000 --risk-per-trade 0.005`,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the current risk settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update risk settings; only the flags given are changed",
	Args:  cobra.NoArgs,
	RunE:  runSettingsSet,
}

var settingsFlags struct {
	accountBalance float64
	maxLossDaily   float64
	maxPosition    float64
	maxShares      int64
	maxOrder       float64
	buyingPower    float64
	riskPerTrade   float64
	tradesPerDay   int64
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	f := settingsSetCmd.Flags()
	f.Float64Var(&settingsFlags.accountBalance, "account-balance", 0, "account balance")
	f.Float64Var(&settingsFlags.maxLossDaily, "max-loss-daily", 0, "maximum loss per day")
	f.Float64Var(&settingsFlags.maxPosition, "max-position", 0, "maximum position value")
	f.Int64Var(&settingsFlags.maxShares, "max-shares", 0, "maximum shares per trade")
	f.Float64Var(&settingsFlags.maxOrder, "max-order", 0, "maximum order value")
	f.Float64Var(&settingsFlags.buyingPower, "max-buying-power", 0, "maximum buying power")
	f.Float64Var(&settingsFlags.riskPerTrade, "risk-per-trade", 0, "risk per trade as a fraction (0.01 = 1%)")
	f.Int64Var(&settingsFlags.tradesPerDay, "max-trades-per-day", 0, "maximum trades per day")
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	rs, err := client.GetRiskSettings(cmd.Context(), cfg.API.Token)
	if err != nil {
		return fmt.Errorf("get settings: %w", err)
	}
	renderSettings(cmd.OutOrStdout(), rs)
	return nil
}

// settingsUpdate collects only the flags the user set.
func settingsUpdate(fs *pflag.FlagSet) risk.SettingsUpdate {
	var u risk.SettingsUpdate
	fl := func(name string, v float64, dst **float64) {
		if fs.Changed(name) {
			*dst = &v
		}
	}
	in := func(name string, v int64, dst **int64) {
		if fs.Changed(name) {
			*dst = &v
		}
	}
	fl("account-balance", settingsFlags.accountBalance, &u.AccountBalance)
	fl("max-loss-daily", settingsFlags.maxLossDaily, &u.MaxLossDaily)
	fl("max-position", settingsFlags.maxPosition, &u.MaxPosition)
	in("max-shares", settingsFlags.maxShares, &u.MaxSharesPerTrade)
	fl("max-order", settingsFlags.maxOrder, &u.MaxOrder)
	fl("max-buying-power", settingsFlags.buyingPower, &u.MaxBuyingPower)
	fl("risk-per-trade", settingsFlags.riskPerTrade, &u.RiskPerTradePercent)
	in("max-trades-per-day", settingsFlags.tradesPerDay, &u.MaxTradesPerDay)
	return u
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	u := settingsUpdate(cmd.Flags())
	if u.Empty() {
		return fmt.Errorf("nothing to update; pass at least one setting flag")
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	svc, err := newService(j)
	if err != nil {
		return err
	}
	rs, err := svc.SaveSettings(cmd.Context(), cfg.API.Token, u)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Risk settings updated")
	renderSettings(cmd.OutOrStdout(), rs)
	return nil
}

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tsis/journal"
	"github.com/rustyeddy/tsis/pkg/id"
	"github.com/rustyeddy/tsis/risk"
	"github.com/rustyeddy/tsis/server"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record and query closed trades",
	Long: `Record and display closed trades in the SQLite journal. Realized P&L of
today's trades reduces the remaining daily loss budget.

Trades are filed under the account of the configured API token, the same
account the server uses for that token.

Subcommands:
  add    - Record a closed trade
  trade  - Get details of a specific trade by ID
  today  - List trades closed today
  day    - List trades closed on a specific day

Examples:
  tsis journal add --ticker AAPL --shares 20 --entry 100 --exit 97.5
  tsis journal today
  tsis journal day 2024-01-15`,
}

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a closed trade",
	Args:  cobra.NoArgs,
	RunE:  runJournalAdd,
}

var journalTradeCmd = &cobra.Command{
	Use:   "trade <trade-id>",
	Short: "Get details of a specific trade",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrade,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List trades closed today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List trades closed on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalAdd struct {
	ticker string
	side   string
	shares int64
	entry  float64
	exit   float64
	reason string
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalAddCmd)
	journalCmd.AddCommand(journalTradeCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	f := journalAddCmd.Flags()
	f.StringVarP(&journalAdd.ticker, "ticker", "t", "", "ticker symbol (required)")
	f.StringVar(&journalAdd.side, "side", "long", "long or short")
	f.Int64Var(&journalAdd.shares, "shares", 0, "share count (required)")
	f.Float64Var(&journalAdd.entry, "entry", 0, "entry price (required)")
	f.Float64Var(&journalAdd.exit, "exit", 0, "exit price (required)")
	f.StringVar(&journalAdd.reason, "reason", "", "exit reason")
	journalAddCmd.MarkFlagRequired("ticker")
	journalAddCmd.MarkFlagRequired("shares")
	journalAddCmd.MarkFlagRequired("entry")
	journalAddCmd.MarkFlagRequired("exit")
}

func currentAccount() string {
	return server.AccountFor(cfg.API.Token)
}

func runJournalAdd(cmd *cobra.Command, args []string) error {
	side, err := risk.ParseSide(journalAdd.side)
	if err != nil {
		return err
	}
	if journalAdd.shares <= 0 || journalAdd.entry <= 0 || journalAdd.exit <= 0 {
		return fmt.Errorf("shares, entry and exit must be positive")
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	now := time.Now()
	rec := journal.TradeRecord{
		TradeID:    id.NewAt(now),
		Account:    currentAccount(),
		Ticker:     strings.ToUpper(strings.TrimSpace(journalAdd.ticker)),
		Side:       side,
		Shares:     journalAdd.shares,
		EntryPrice: journalAdd.entry,
		ExitPrice:  journalAdd.exit,
		OpenTime:   now,
		CloseTime:  now,
		RealizedPL: server.RealizedPL(side, journalAdd.shares, journalAdd.entry, journalAdd.exit),
		Reason:     journalAdd.reason,
	}
	if err := j.RecordTrade(rec); err != nil {
		return fmt.Errorf("record trade: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Recorded %s %s %d @ %.2f → %.2f (P&L $%.2f)\n",
		rec.TradeID, rec.Ticker, rec.Shares, rec.EntryPrice, rec.ExitPrice, rec.RealizedPL)
	return nil
}

func runJournalTrade(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetTrade(args[0])
	if err != nil {
		return fmt.Errorf("get trade: %w", err)
	}

	renderTrades(cmd.OutOrStdout(), []journal.TradeRecord{rec})
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Server.Location()
	if err != nil {
		return err
	}
	return listDay(cmd, time.Now().In(loc).Format(time.DateOnly))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	return listDay(cmd, args[0])
}

func listDay(cmd *cobra.Command, day string) error {
	loc, err := cfg.Server.Location()
	if err != nil {
		return err
	}
	t, err := time.ParseInLocation(time.DateOnly, day, loc)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	start, end := journal.DayBounds(t, loc)

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListTradesClosedBetween(currentAccount(), start, end)
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	renderTrades(cmd.OutOrStdout(), recs)
	return nil
}

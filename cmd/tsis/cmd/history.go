package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tsis/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or export recent calculations",
	Long: `The last calculations (up to 10) are kept with the calculator session.

Subcommands:
  list    - Show recent calculations
  export  - Write recent calculations to CSV or XLSX

Examples:
  tsis history list
  tsis history export -o history.xlsx`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent calculations",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recent calculations",
	Long: `Export recent calculations. The format follows the output extension
(.csv or .xlsx) unless --format is given. Output "-" writes CSV to stdout.`,
	Args: cobra.NoArgs,
	RunE: runHistoryExport,
}

var (
	historyOutput string
	historyFormat string
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	historyExportCmd.Flags().StringVarP(&historyOutput, "output", "o", "-", "output path")
	historyExportCmd.Flags().StringVar(&historyFormat, "format", "", "csv or xlsx")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	sess, err := j.Session(cfg.Journal.SessionKey).Load()
	if err != nil {
		return err
	}
	renderHistory(cmd.OutOrStdout(), sess.History)
	return nil
}

func exportFormat(format, output string) (string, error) {
	if format == "" {
		format = "csv"
		if strings.HasSuffix(strings.ToLower(output), ".xlsx") {
			format = "xlsx"
		}
	}
	format = strings.ToLower(format)
	switch format {
	case "csv":
		return format, nil
	case "xlsx":
		if output == "-" {
			return "", fmt.Errorf("xlsx export needs an output file")
		}
		return format, nil
	}
	return "", fmt.Errorf("unknown format %q (want csv or xlsx)", format)
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, err := exportFormat(historyFormat, historyOutput)
	if err != nil {
		return err
	}

	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	sess, err := j.Session(cfg.Journal.SessionKey).Load()
	if err != nil {
		return err
	}

	if format == "xlsx" {
		if err := journal.WriteHistoryXLSX(historyOutput, sess.History); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d calculations to %s\n", len(sess.History), historyOutput)
		return nil
	}

	if historyOutput == "-" {
		return journal.WriteHistoryCSV(cmd.OutOrStdout(), sess.History)
	}
	f, err := os.Create(historyOutput)
	if err != nil {
		return fmt.Errorf("create %s: %w", historyOutput, err)
	}
	if err := journal.WriteHistoryCSV(f, sess.History); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d calculations to %s\n", len(sess.History), historyOutput)
	return nil
}

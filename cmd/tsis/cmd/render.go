package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/rustyeddy/tsis/api"
	"github.com/rustyeddy/tsis/calculator"
	"github.com/rustyeddy/tsis/journal"
	"github.com/rustyeddy/tsis/risk"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.SetStyle(table.StyleRounded)
	return t
}

func money(x float64) string { return fmt.Sprintf("$%.2f", x) }

func statusColor(s risk.Status) text.Colors {
	switch s {
	case risk.Red:
		return text.Colors{text.FgRed, text.Bold}
	case risk.Orange:
		return text.Colors{text.FgYellow, text.Bold}
	}
	return text.Colors{text.FgGreen, text.Bold}
}

func renderStatus(w io.Writer, st calculator.State) {
	fmt.Fprintf(w, "%s  %s\n", statusColor(st.Status).Sprint(string(st.Status)), st.Message)
}

func renderResult(w io.Writer, st calculator.State) {
	renderStatus(w, st)
	if st.Result == nil {
		return
	}
	pc := st.Result

	ticker := st.Ticker
	if ticker == "" {
		ticker = "-"
	}
	t := newTable(w, fmt.Sprintf("POSITION %s %s", ticker, st.Side))
	t.AppendRows([]table.Row{
		{"Recommended shares", pc.RecommendedShares},
		{"Calculated shares", pc.CalculatedShares},
		{"Position value", money(pc.PositionValue)},
		{"Risk amount", money(pc.RiskAmount)},
		{"Risk percent", fmt.Sprintf("%.2f%%", pc.RiskPercent)},
		{"Risk per share", fmt.Sprintf("$%.4f", pc.RiskPerShare)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Max shares per trade", pc.LimitsApplied.MaxSharesPerTrade},
		{"Max position", money(pc.LimitsApplied.MaxPosition)},
		{"Max order", money(pc.LimitsApplied.MaxOrder)},
	})
	if st.Settings != nil {
		t.AppendSeparator()
		t.AppendRow(table.Row{"Daily risk remaining", money(st.Settings.RemainingDailyRisk(st.TodayPnL))})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignRight},
	})
	t.Render()
}

func renderMatrix(w io.Writer, rows []risk.VariationRow) {
	if len(rows) == 0 {
		return
	}
	t := newTable(w, "STOP VARIATIONS")
	t.AppendHeader(table.Row{"Stop", "Distance", "Distance %", "Shares", "Risk"})
	for _, r := range rows {
		t.AppendRow(table.Row{
			fmt.Sprintf("%.2f", r.StopPrice),
			fmt.Sprintf("%.2f", r.Distance),
			fmt.Sprintf("%.2f%%", r.DistancePercent),
			r.Shares,
			money(r.RiskAmount),
		})
	}
	t.Render()
}

func renderHistory(w io.Writer, items []calculator.HistoryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No calculations yet.")
		return
	}
	t := newTable(w, "RECENT CALCULATIONS")
	t.AppendHeader(table.Row{"Time", "Ticker", "Side", "Entry", "Stop", "Shares", "Risk"})
	for _, h := range items {
		t.AppendRow(table.Row{
			h.Timestamp.Local().Format("2006-01-02 15:04"),
			h.Ticker,
			h.Side,
			fmt.Sprintf("%.2f", h.EntryPrice),
			fmt.Sprintf("%.2f", h.StopPrice),
			h.Shares,
			money(h.RiskAmount),
		})
	}
	t.Render()
}

func renderSettings(w io.Writer, s risk.Settings) {
	t := newTable(w, "RISK SETTINGS")
	t.AppendRows([]table.Row{
		{"Account balance", money(s.AccountBalance)},
		{"Risk per trade", fmt.Sprintf("%.2f%% (%s)", s.RiskPerTradePercent*100, money(s.TargetRisk()))},
		{"Max daily loss", fmt.Sprintf("%s (%.1f%%)", money(s.MaxLossDaily), s.MaxLossDailyPercent*100)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Max shares per trade", s.MaxSharesPerTrade},
		{"Max position", fmt.Sprintf("%s (%.1f%%)", money(s.MaxPosition), s.MaxPositionPercent*100)},
		{"Max order", money(s.MaxOrder)},
		{"Max buying power", money(s.MaxBuyingPower)},
		{"Max trades per day", s.MaxTradesPerDay},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Alert thresholds", fmt.Sprintf("%.0f%% / %.0f%% / %.0f%%",
		s.AlertThreshold1*100, s.AlertThreshold2*100, s.AlertThreshold3*100)})
	t.Render()
}

func renderDashboard(w io.Writer, m api.DashboardMetrics) {
	t := newTable(w, "DASHBOARD")
	t.AppendRows([]table.Row{
		{"Today P&L", money(m.TodayPnL)},
		{"Week P&L", money(m.WeekPnL)},
		{"Month P&L", money(m.MonthPnL)},
		{"Total P&L", money(m.TotalPnL)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Trades", m.TotalTrades},
		{"Winners / losers", fmt.Sprintf("%d / %d", m.WinningTrades, m.LosingTrades)},
		{"Win rate", fmt.Sprintf("%.2f%%", m.WinRate)},
	})
	t.Render()
}

func renderTrades(w io.Writer, recs []journal.TradeRecord) {
	if len(recs) == 0 {
		fmt.Fprintln(w, "No trades.")
		return
	}
	t := newTable(w, "TRADES")
	t.AppendHeader(table.Row{"ID", "Closed", "Ticker", "Side", "Shares", "Entry", "Exit", "P&L", "Reason"})
	var total float64
	for _, r := range recs {
		total += r.RealizedPL
		t.AppendRow(table.Row{
			r.TradeID,
			r.CloseTime.Local().Format(time.DateTime),
			r.Ticker,
			r.Side,
			r.Shares,
			fmt.Sprintf("%.2f", r.EntryPrice),
			fmt.Sprintf("%.2f", r.ExitPrice),
			money(r.RealizedPL),
			r.Reason,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", "", "Total", money(total), ""})
	t.Render()
}

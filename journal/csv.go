package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/tsis/calculator"
)

var historyHeader = []string{"id", "timestamp", "ticker", "side", "entry_price", "stop_price", "shares", "risk_amount"}

// WriteHistoryCSV writes history items, one row each, after a header row.
func WriteHistoryCSV(w io.Writer, items []calculator.HistoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(historyHeader); err != nil {
		return err
	}
	for _, h := range items {
		if err := cw.Write([]string{
			h.ID,
			h.Timestamp.UTC().Format(time.RFC3339),
			h.Ticker,
			string(h.Side),
			f(h.EntryPrice),
			f(h.StopPrice),
			strconv.FormatInt(h.Shares, 10),
			f(h.RiskAmount),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

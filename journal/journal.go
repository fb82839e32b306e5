package journal

import (
	"time"

	"github.com/rustyeddy/tsis/risk"
)

// TradeRecord is a closed trade. Realized P&L of closed trades feeds the
// daily loss budget.
type TradeRecord struct {
	TradeID    string
	Account    string
	Ticker     string
	Side       risk.Side
	Shares     int64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Reason     string
}

// Summary aggregates realized P&L over a window.
type Summary struct {
	PnL     float64
	Trades  int
	Winners int
	Losers  int
}

// WinRate is the percentage of winning trades.
func (s Summary) WinRate() float64 {
	if s.Trades == 0 {
		return 0
	}
	return float64(s.Winners) / float64(s.Trades) * 100
}

type Journal interface {
	RecordTrade(TradeRecord) error
	Close() error
}

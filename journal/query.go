package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const tradeColumns = `trade_id, account, ticker, side, shares, entry_price, exit_price, open_time, close_time, realized_pl, reason`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (TradeRecord, error) {
	var rec TradeRecord
	var side string
	err := row.Scan(
		&rec.TradeID,
		&rec.Account,
		&rec.Ticker,
		&side,
		&rec.Shares,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.OpenTime,
		&rec.CloseTime,
		&rec.RealizedPL,
		&rec.Reason,
	)
	rec.Side = sideOf(side)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(tradeID string) (TradeRecord, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// ListTradesClosedBetween returns the account's trades whose close_time is
// within [start, end).
func (j *SQLite) ListTradesClosedBetween(account string, start, end time.Time) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE account = ? AND close_time >= ? AND close_time < ?
		ORDER BY close_time ASC`, account, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SummarizeBetween aggregates realized P&L of trades closed in [start, end).
func (j *SQLite) SummarizeBetween(account string, start, end time.Time) (Summary, error) {
	var s Summary
	var pnl sql.NullFloat64
	var winners, losers sql.NullInt64
	err := j.db.QueryRow(`
		SELECT COUNT(*),
		       SUM(realized_pl),
		       SUM(CASE WHEN realized_pl > 0 THEN 1 ELSE 0 END),
		       SUM(CASE WHEN realized_pl < 0 THEN 1 ELSE 0 END)
		FROM trades
		WHERE account = ? AND close_time >= ? AND close_time < ?`,
		account, start.UTC(), end.UTC()).Scan(&s.Trades, &pnl, &winners, &losers)
	if err != nil {
		return Summary{}, err
	}
	s.PnL = pnl.Float64
	s.Winners = int(winners.Int64)
	s.Losers = int(losers.Int64)
	return s, nil
}

// DayBounds returns [start of day, start of next day) for t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// WeekBounds starts the week on Monday.
func WeekBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start, _ := DayBounds(t, loc)
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

func MonthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/tsis/calculator"
	"github.com/rustyeddy/tsis/risk"
)

// SessionStore persists one calculator session under a fixed key. It
// implements calculator.Persistence.
type SessionStore struct {
	db  *sql.DB
	key string
}

var _ calculator.Persistence = (*SessionStore)(nil)

// Session returns the store for key. An empty key uses
// calculator.SessionKey.
func (j *SQLite) Session(key string) *SessionStore {
	if key == "" {
		key = calculator.SessionKey
	}
	return &SessionStore{db: j.db, key: key}
}

func sideOf(s string) risk.Side {
	if risk.Side(s) == risk.Short {
		return risk.Short
	}
	return risk.Long
}

// Load returns the saved session, newest history first. A key that was
// never saved yields an empty session.
func (s *SessionStore) Load() (calculator.Session, error) {
	var sess calculator.Session
	var side string
	err := s.db.QueryRow(`SELECT ticker, side FROM calculator_sessions WHERE session_key = ?`, s.key).
		Scan(&sess.Ticker, &side)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		sess.Side = risk.Long
	case err != nil:
		return calculator.Session{}, fmt.Errorf("load session %q: %w", s.key, err)
	default:
		sess.Side = sideOf(side)
	}

	rows, err := s.db.Query(`
		SELECT id, ts, ticker, side, entry_price, stop_price, shares, risk_amount
		FROM calc_history
		WHERE session_key = ?
		ORDER BY ts DESC, id DESC
		LIMIT ?`, s.key, calculator.HistoryCap)
	if err != nil {
		return calculator.Session{}, fmt.Errorf("load history %q: %w", s.key, err)
	}
	defer rows.Close()

	for rows.Next() {
		var h calculator.HistoryItem
		var hside string
		if err := rows.Scan(&h.ID, &h.Timestamp, &h.Ticker, &hside, &h.EntryPrice, &h.StopPrice, &h.Shares, &h.RiskAmount); err != nil {
			return calculator.Session{}, err
		}
		h.Side = sideOf(hside)
		sess.History = append(sess.History, h)
	}
	return sess, rows.Err()
}

// Save replaces the stored session.
func (s *SessionStore) Save(sess calculator.Session) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO calculator_sessions (session_key, ticker, side, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_key) DO UPDATE SET
			ticker = excluded.ticker,
			side = excluded.side,
			updated_at = excluded.updated_at`,
		s.key, sess.Ticker, string(sess.Side), time.Now().UTC()); err != nil {
		return fmt.Errorf("save session %q: %w", s.key, err)
	}

	if _, err := tx.Exec(`DELETE FROM calc_history WHERE session_key = ?`, s.key); err != nil {
		return fmt.Errorf("clear history %q: %w", s.key, err)
	}

	for i, h := range sess.History {
		if i == calculator.HistoryCap {
			break
		}
		if _, err := tx.Exec(`
			INSERT INTO calc_history
			(id, session_key, ts, ticker, side, entry_price, stop_price, shares, risk_amount)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			h.ID, s.key, h.Timestamp.UTC(), h.Ticker, string(h.Side),
			h.EntryPrice, h.StopPrice, h.Shares, h.RiskAmount); err != nil {
			return fmt.Errorf("save history item %s: %w", h.ID, err)
		}
	}

	return tx.Commit()
}

package calculator

import (
	"sync"
	"time"

	"github.com/rustyeddy/tsis/risk"
)

// HistoryCap is the number of server-validated calculations kept.
const HistoryCap = 10

// SessionKey is the namespaced key sessions are persisted under.
const SessionKey = "tsis-calculator"

// HistoryItem records one successful server-validated calculation.
type HistoryItem struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Ticker     string    `json:"ticker"`
	Side       risk.Side `json:"side"`
	EntryPrice float64   `json:"entry_price"`
	StopPrice  float64   `json:"stop_price"`
	Shares     int64     `json:"shares"`
	RiskAmount float64   `json:"risk_amount"`
}

// Session is the part of the calculator state that outlives a process:
// the last ticker and side, and the history, newest first.
type Session struct {
	Ticker  string        `json:"ticker"`
	Side    risk.Side     `json:"side"`
	History []HistoryItem `json:"history"`
}

// Persistence loads and saves a Session. Load on a store that has never
// been saved returns a zero Session and no error.
type Persistence interface {
	Load() (Session, error)
	Save(Session) error
}

// MemoryStore is a Persistence that keeps the session in memory.
type MemoryStore struct {
	mu    sync.Mutex
	saved Session
	saves int
}

func NewMemoryStore(initial Session) *MemoryStore {
	return &MemoryStore{saved: copySession(initial)}
}

func (m *MemoryStore) Load() (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySession(m.saved), nil
}

func (m *MemoryStore) Save(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = copySession(s)
	m.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func copySession(s Session) Session {
	s.History = append([]HistoryItem(nil), s.History...)
	return s
}

// pushHistory prepends item and drops entries beyond HistoryCap.
func pushHistory(history []HistoryItem, item HistoryItem) []HistoryItem {
	out := make([]HistoryItem, 0, HistoryCap)
	out = append(out, item)
	for _, h := range history {
		if len(out) == HistoryCap {
			break
		}
		out = append(out, h)
	}
	return out
}

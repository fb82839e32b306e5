package calculator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/tsis/monitoring"
	"github.com/rustyeddy/tsis/pkg/id"
	"github.com/rustyeddy/tsis/risk"
)

var (
	// ErrCalculationInFlight is returned by Calculate while another
	// server-validated calculation is outstanding.
	ErrCalculationInFlight = errors.New("calculation already in flight")

	// ErrInvalidInput is returned by Calculate when entry/stop are missing,
	// unparseable or on the wrong side of each other.
	ErrInvalidInput = errors.New("invalid trade input")
)

// Backend is the set of remote services the calculator consults. The token
// is passed through untouched.
type Backend interface {
	GetRiskSettings(ctx context.Context, token string) (risk.Settings, error)
	UpdateRiskSettings(ctx context.Context, token string, u risk.SettingsUpdate) (risk.Settings, error)
	Calculate(ctx context.Context, token string, entry, stop float64) (risk.PositionCalculation, error)
	TodayPnL(ctx context.Context, token string) (float64, error)
}

// State is a consistent copy of everything the calculator exposes.
type State struct {
	Ticker     string
	EntryPrice string
	StopPrice  string
	Side       risk.Side

	Result  *risk.PositionCalculation
	Matrix  []risk.VariationRow
	Status  risk.Status
	Message string

	Settings *risk.Settings
	TodayPnL float64

	Calculating bool
	History     []HistoryItem
}

// Service is one user's calculator session. It is safe for concurrent
// use; every operation leaves the state fully consistent before it
// releases the lock. Network calls happen outside the lock; session
// persistence happens inside it so saves are ordered.
type Service struct {
	backend Backend
	store   Persistence
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	mu          sync.Mutex
	ticker      string
	entryText   string
	stopText    string
	side        risk.Side
	result      *risk.PositionCalculation
	matrix      []risk.VariationRow
	status      risk.Status
	message     string
	settings    *risk.Settings
	todayPnL    float64
	calculating bool
	history     []HistoryItem
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPersistence restores the session from p and saves it back after
// every change to ticker, side or history.
func WithPersistence(p Persistence) Option {
	return func(s *Service) { s.store = p }
}

// WithClock overrides the timestamp source for history items.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSettings seeds the settings cache, for offline use.
func WithSettings(rs risk.Settings) Option {
	return func(s *Service) { s.settings = &rs }
}

// New returns an idle calculator backed by backend. backend may be nil for
// a local-only session; remote operations then fail like a transport error.
func New(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend: backend,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   id.New,
		side:    risk.Long,
		status:  risk.Green,
		message: risk.MsgIdle,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store != nil {
		sess, err := s.store.Load()
		if err != nil {
			s.logger.Warn("load calculator session failed", zap.Error(err))
		} else {
			s.ticker = strings.ToUpper(sess.Ticker)
			if sess.Side == risk.Short {
				s.side = risk.Short
			}
			s.history = capHistory(sess.History)
		}
	}
	return s
}

func capHistory(items []HistoryItem) []HistoryItem {
	if len(items) > HistoryCap {
		items = items[:HistoryCap]
	}
	return append([]HistoryItem(nil), items...)
}

// State returns a copy of the current state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Ticker:      s.ticker,
		EntryPrice:  s.entryText,
		StopPrice:   s.stopText,
		Side:        s.side,
		Matrix:      append([]risk.VariationRow(nil), s.matrix...),
		Status:      s.status,
		Message:     s.message,
		TodayPnL:    s.todayPnL,
		Calculating: s.calculating,
		History:     append([]HistoryItem(nil), s.history...),
	}
	if s.result != nil {
		r := *s.result
		st.Result = &r
	}
	if s.settings != nil {
		rs := *s.settings
		st.Settings = &rs
	}
	return st
}

// IsCalculating reports whether a server-validated calculation is
// outstanding.
func (s *Service) IsCalculating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calculating
}

// History returns the server-validated calculations, newest first.
func (s *Service) History() []HistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HistoryItem(nil), s.history...)
}

func (s *Service) SetTicker(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticker = strings.ToUpper(strings.TrimSpace(text))
	s.recomputeLocked()
	s.persistLocked()
}

func (s *Service) SetEntryPrice(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entryText = text
	s.recomputeLocked()
}

func (s *Service) SetStopPrice(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopText = text
	s.recomputeLocked()
}

func (s *Service) SetSide(side risk.Side) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if side != risk.Short {
		side = risk.Long
	}
	s.side = side
	s.recomputeLocked()
	s.persistLocked()
}

// ClearInputs empties ticker, entry and stop and returns to the idle state.
// Side, settings and history are kept.
func (s *Service) ClearInputs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticker = ""
	s.entryText = ""
	s.stopText = ""
	s.setIdleLocked()
	s.persistLocked()
}

// Recompute re-derives result, status and matrix from the current inputs
// and cached context. It never performs I/O.
func (s *Service) Recompute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recomputeLocked()
}

// GenerateVariationMatrix replaces the matrix for an arbitrary entry/stop
// using the session side.
func (s *Service) GenerateVariationMatrix(entry, baseStop, riskAmount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matrix = risk.GenerateMatrix(entry, baseStop, riskAmount, s.side)
}

func (s *Service) setIdleLocked() {
	s.result = nil
	s.matrix = nil
	s.status = risk.Green
	s.message = risk.MsgIdle
}

// validateLocked parses the inputs. When they cannot be sized it applies
// the matching idle or direction state and returns ok=false.
func (s *Service) validateLocked() (entry, stop float64, ok bool) {
	entry, okE := risk.ParsePrice(s.entryText)
	stop, okS := risk.ParsePrice(s.stopText)
	if !okE || !okS {
		s.setIdleLocked()
		return 0, 0, false
	}

	if msg := risk.CheckDirection(s.side, entry, stop); msg != "" {
		s.result = nil
		s.matrix = nil
		s.status = risk.Red
		s.message = msg
		return 0, 0, false
	}
	return entry, stop, true
}

func (s *Service) recomputeLocked() {
	entry, stop, ok := s.validateLocked()
	if !ok {
		return
	}

	if s.settings == nil {
		// keep whatever result is on screen until configuration arrives
		s.status = risk.Orange
		s.message = risk.MsgLoading
		return
	}

	target := s.settings.TargetRisk()
	pc := risk.Size(*s.settings, entry, stop, target)
	status, msg := risk.Classify(pc, *s.settings, s.todayPnL)

	s.result = &pc
	s.matrix = risk.GenerateMatrix(entry, stop, target, s.side)
	s.status = status
	s.message = msg

	monitoring.RecordCalculation("local", string(status), pc.RiskAmount)
}

// Calculate asks the position calculator service for the authoritative
// sizing of the current entry/stop, then reclassifies it, regenerates the
// matrix and records it in history.
//
// On a remote failure the previous result is kept and the status is forced
// to RED so a stale GREEN is never shown. The error is returned as well,
// but callers may rely on the state alone.
func (s *Service) Calculate(ctx context.Context, token string) error {
	s.mu.Lock()
	if s.calculating {
		s.mu.Unlock()
		return ErrCalculationInFlight
	}
	entry, stop, ok := s.validateLocked()
	if !ok {
		msg := s.message
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
	}
	ticker, side := s.ticker, s.side
	s.calculating = true
	s.mu.Unlock()

	pc, err := s.remoteCalculate(ctx, token, entry, stop)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calculating = false

	if err != nil {
		s.status = risk.Red
		s.message = risk.MsgCalcError
		monitoring.RecordRemoteError("calculate")
		s.logger.Error("calculation failed",
			zap.String("ticker", ticker),
			zap.Float64("entry", entry),
			zap.Float64("stop", stop),
			zap.Error(err))
		return fmt.Errorf("calculate: %w", err)
	}

	target := pc.RiskAmount
	status, msg := risk.Orange, risk.MsgLoading
	if s.settings != nil {
		target = s.settings.TargetRisk()
		status, msg = risk.Classify(pc, *s.settings, s.todayPnL)
	}

	if ticker == "" {
		ticker = "???"
	}
	item := HistoryItem{
		ID:         s.newID(),
		Timestamp:  s.now(),
		Ticker:     ticker,
		Side:       side,
		EntryPrice: entry,
		StopPrice:  stop,
		Shares:     pc.RecommendedShares,
		RiskAmount: pc.RiskAmount,
	}

	s.result = &pc
	s.matrix = risk.GenerateMatrix(entry, stop, target, side)
	s.status = status
	s.message = msg
	s.history = pushHistory(s.history, item)
	s.persistLocked()

	monitoring.RecordCalculation("remote", string(status), pc.RiskAmount)
	s.logger.Info("calculation recorded",
		zap.String("ticker", ticker),
		zap.String("side", string(side)),
		zap.Int64("shares", pc.RecommendedShares),
		zap.Float64("risk_amount", pc.RiskAmount),
		zap.String("status", string(status)))
	return nil
}

func (s *Service) remoteCalculate(ctx context.Context, token string, entry, stop float64) (risk.PositionCalculation, error) {
	if s.backend == nil {
		return risk.PositionCalculation{}, errors.New("no calculator backend configured")
	}
	return s.backend.Calculate(ctx, token, entry, stop)
}

// LoadSettings fetches and caches the risk settings, then recomputes. On
// failure the cached settings are kept and nothing is recomputed.
func (s *Service) LoadSettings(ctx context.Context, token string) error {
	if s.backend == nil {
		return errors.New("load settings: no backend configured")
	}
	rs, err := s.backend.GetRiskSettings(ctx, token)
	if err != nil {
		monitoring.RecordRemoteError("load_settings")
		s.logger.Warn("load risk settings failed", zap.Error(err))
		return fmt.Errorf("load settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &rs
	s.recomputeLocked()
	return nil
}

// LoadTodayPnL fetches today's realized P&L, then recomputes. On failure
// the cached figure is kept and nothing is recomputed.
func (s *Service) LoadTodayPnL(ctx context.Context, token string) error {
	if s.backend == nil {
		return errors.New("load today pnl: no backend configured")
	}
	pnl, err := s.backend.TodayPnL(ctx, token)
	if err != nil {
		monitoring.RecordRemoteError("load_today_pnl")
		s.logger.Warn("load today pnl failed", zap.Error(err))
		return fmt.Errorf("load today pnl: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.todayPnL = pnl
	s.recomputeLocked()
	return nil
}

// Refresh runs LoadSettings and LoadTodayPnL concurrently. Each one
// updates its own slice of state independently; the first error is
// returned.
func (s *Service) Refresh(ctx context.Context, token string) error {
	var g errgroup.Group
	g.Go(func() error { return s.LoadSettings(ctx, token) })
	g.Go(func() error { return s.LoadTodayPnL(ctx, token) })
	return g.Wait()
}

// SaveSettings sends a partial update to the risk settings service. Unlike
// the other remote operations the failure is meant for the caller to
// present; the cache is untouched on error.
func (s *Service) SaveSettings(ctx context.Context, token string, u risk.SettingsUpdate) (risk.Settings, error) {
	if s.backend == nil {
		return risk.Settings{}, errors.New("save settings: no backend configured")
	}
	rs, err := s.backend.UpdateRiskSettings(ctx, token, u)
	if err != nil {
		monitoring.RecordRemoteError("save_settings")
		return risk.Settings{}, fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &rs
	s.recomputeLocked()
	return rs, nil
}

func (s *Service) persistLocked() {
	if s.store == nil {
		return
	}
	sess := Session{
		Ticker:  s.ticker,
		Side:    s.side,
		History: append([]HistoryItem(nil), s.history...),
	}
	if err := s.store.Save(sess); err != nil {
		s.logger.Warn("save calculator session failed", zap.Error(err))
	}
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tsis/journal"
	"github.com/rustyeddy/tsis/monitoring"
	"github.com/rustyeddy/tsis/risk"
)

// Store is the persistence the server needs. *journal.SQLite satisfies it.
type Store interface {
	GetSettings(ctx context.Context, account string) (risk.Settings, bool, error)
	PutSettings(ctx context.Context, account string, s risk.Settings) error
	SummarizeBetween(account string, start, end time.Time) (journal.Summary, error)
	RecordTrade(journal.TradeRecord) error
	Ping(ctx context.Context) error
}

type Options struct {
	// Tokens, when non-empty, is the set of accepted bearer tokens.
	Tokens []string
	// Defaults seeds the settings of an account on first access.
	Defaults risk.Settings
	// Location decides where "today" starts. Defaults to time.Local.
	Location *time.Location
	// Metrics exposes /metrics when set.
	Metrics bool
	Logger  *zap.Logger
	// Now is the clock for P&L windows.
	Now func() time.Time
}

// Server serves the risk settings, position calculator and dashboard
// metrics endpoints under /api/v1.
type Server struct {
	store    Store
	tokens   map[string]bool
	defaults risk.Settings
	loc      *time.Location
	metrics  bool
	logger   *zap.Logger
	now      func() time.Time
}

func New(store Store, opts Options) *Server {
	s := &Server{
		store:    store,
		tokens:   map[string]bool{},
		defaults: opts.Defaults,
		loc:      opts.Location,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	for _, t := range opts.Tokens {
		if t != "" {
			s.tokens[t] = true
		}
	}
	if s.defaults == (risk.Settings{}) {
		s.defaults = risk.DefaultSettings()
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler builds the gin engine.
func (s *Server) Handler() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())

	engine.GET("/healthz", s.health)
	engine.GET("/readyz", s.ready)
	if s.metrics {
		engine.GET("/metrics", gin.WrapH(monitoring.Handler()))
	}

	v1 := engine.Group("/api/v1")
	v1.Use(s.requireBearer())
	s.registerRiskSettings(v1)
	s.registerDashboard(v1)
	return engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("http server stopping")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) ready(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_missing"})
		return
	}
	if err := s.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db_unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

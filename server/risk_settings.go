package server

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tsis/journal"
	"github.com/rustyeddy/tsis/monitoring"
	"github.com/rustyeddy/tsis/risk"
)

func (s *Server) registerRiskSettings(r *gin.RouterGroup) {
	g := r.Group("/risk-settings")
	g.GET("", s.getRiskSettings)
	g.PUT("", s.putRiskSettings)
	g.GET("/calculator", s.calculatePosition)
}

// loadOrCreate returns the account's settings, storing the defaults on
// first access.
func (s *Server) loadOrCreate(c *gin.Context) (risk.Settings, bool) {
	ctx := c.Request.Context()
	acct := account(c)

	rs, found, err := s.store.GetSettings(ctx, acct)
	if err != nil {
		s.logger.Error("get risk settings", zap.String("account", acct), zap.Error(err))
		abort(c, http.StatusInternalServerError, "settings unavailable")
		return risk.Settings{}, false
	}
	if found {
		return rs, true
	}

	rs = s.defaults
	if err := s.store.PutSettings(ctx, acct, rs); err != nil {
		s.logger.Error("create risk settings", zap.String("account", acct), zap.Error(err))
		abort(c, http.StatusInternalServerError, "settings unavailable")
		return risk.Settings{}, false
	}
	return rs, true
}

func (s *Server) getRiskSettings(c *gin.Context) {
	rs, ok := s.loadOrCreate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, rs)
}

func (s *Server) putRiskSettings(c *gin.Context) {
	var u risk.SettingsUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		abort(c, http.StatusBadRequest, "invalid body")
		return
	}

	current, ok := s.loadOrCreate(c)
	if !ok {
		return
	}

	merged := u.Apply(current)
	if err := merged.Validate(); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.PutSettings(c.Request.Context(), account(c), merged); err != nil {
		s.logger.Error("update risk settings", zap.Error(err))
		abort(c, http.StatusInternalServerError, "settings unavailable")
		return
	}
	c.JSON(http.StatusOK, merged)
}

// floatQuery parses a finite number; NaN and infinities are rejected.
func floatQuery(c *gin.Context, name string) (float64, bool) {
	v, err := strconv.ParseFloat(c.Query(name), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (s *Server) calculatePosition(c *gin.Context) {
	entry, okE := floatQuery(c, "entry_price")
	stop, okS := floatQuery(c, "stop_price")
	if !okE || !okS || entry <= 0 || stop <= 0 {
		abort(c, http.StatusUnprocessableEntity, "entry_price and stop_price must be positive numbers")
		return
	}

	rs, found, err := s.store.GetSettings(c.Request.Context(), account(c))
	if err != nil {
		s.logger.Error("get risk settings", zap.Error(err))
		abort(c, http.StatusInternalServerError, "settings unavailable")
		return
	}
	if !found {
		abort(c, http.StatusNotFound, "Risk settings not found")
		return
	}

	if risk.RiskPerShare(entry, stop) == 0 {
		abort(c, http.StatusBadRequest, "Entry and stop price cannot be the same")
		return
	}

	target := rs.TargetRisk()
	if c.Query("risk_override") != "" {
		override, ok := floatQuery(c, "risk_override")
		if !ok || override < 0 {
			abort(c, http.StatusUnprocessableEntity, "risk_override must be a non-negative number")
			return
		}
		if override > 0 {
			target = override
		}
	}

	pc := risk.Size(rs, entry, stop, target)

	status := "unknown"
	dayStart, dayEnd := journal.DayBounds(s.now(), s.loc)
	if today, err := s.store.SummarizeBetween(account(c), dayStart, dayEnd); err == nil {
		st, _ := risk.Classify(pc, rs, today.PnL)
		status = string(st)
	} else {
		s.logger.Warn("summarize today", zap.Error(err))
	}
	monitoring.RecordCalculation("server", status, pc.RiskAmount)
	c.JSON(http.StatusOK, pc)
}

package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/tsis/api"
	"github.com/rustyeddy/tsis/journal"
	"github.com/rustyeddy/tsis/pkg/id"
	"github.com/rustyeddy/tsis/risk"
)

func (s *Server) registerDashboard(r *gin.RouterGroup) {
	r.GET("/dashboard/metrics", s.dashboardMetrics)
	r.POST("/trades", s.recordTrade)
}

var allTime = [2]time.Time{
	time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
	time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC),
}

func (s *Server) dashboardMetrics(c *gin.Context) {
	acct := account(c)
	now := s.now()

	type window struct {
		start, end time.Time
		out        *journal.Summary
	}
	var total, today, week, month journal.Summary
	dayStart, dayEnd := journal.DayBounds(now, s.loc)
	weekStart, weekEnd := journal.WeekBounds(now, s.loc)
	monthStart, monthEnd := journal.MonthBounds(now, s.loc)

	for _, w := range []window{
		{allTime[0], allTime[1], &total},
		{dayStart, dayEnd, &today},
		{weekStart, weekEnd, &week},
		{monthStart, monthEnd, &month},
	} {
		sum, err := s.store.SummarizeBetween(acct, w.start, w.end)
		if err != nil {
			s.logger.Error("summarize trades", zap.Error(err))
			abort(c, http.StatusInternalServerError, "metrics unavailable")
			return
		}
		*w.out = sum
	}

	c.JSON(http.StatusOK, api.DashboardMetrics{
		TotalPnL:      risk.Round2(total.PnL),
		TotalTrades:   total.Trades,
		WinningTrades: total.Winners,
		LosingTrades:  total.Losers,
		WinRate:       risk.Round2(total.WinRate()),
		TodayPnL:      risk.Round2(today.PnL),
		WeekPnL:       risk.Round2(week.PnL),
		MonthPnL:      risk.Round2(month.PnL),
	})
}

type tradeRequest struct {
	Ticker     string    `json:"ticker" binding:"required"`
	Side       string    `json:"side"`
	Shares     int64     `json:"shares" binding:"required,gt=0"`
	EntryPrice float64   `json:"entry_price" binding:"required,gt=0"`
	ExitPrice  float64   `json:"exit_price" binding:"required,gt=0"`
	OpenTime   time.Time `json:"open_time"`
	CloseTime  time.Time `json:"close_time"`
	RealizedPL *float64  `json:"realized_pl"`
	Reason     string    `json:"reason"`
}

// RealizedPL is exit minus entry per share, sign-flipped for shorts.
func RealizedPL(side risk.Side, shares int64, entry, exit float64) float64 {
	move := exit - entry
	if side == risk.Short {
		move = -move
	}
	return risk.Round2(move * float64(shares))
}

func (s *Server) recordTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	side := risk.Long
	if req.Side != "" {
		parsed, err := risk.ParseSide(req.Side)
		if err != nil {
			abort(c, http.StatusUnprocessableEntity, err.Error())
			return
		}
		side = parsed
	}

	closeT := req.CloseTime
	if closeT.IsZero() {
		closeT = s.now()
	}
	openT := req.OpenTime
	if openT.IsZero() {
		openT = closeT
	}

	rec := journal.TradeRecord{
		TradeID:    id.NewAt(closeT),
		Account:    account(c),
		Ticker:     strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Side:       side,
		Shares:     req.Shares,
		EntryPrice: req.EntryPrice,
		ExitPrice:  req.ExitPrice,
		OpenTime:   openT,
		CloseTime:  closeT,
		Reason:     req.Reason,
	}
	if req.RealizedPL != nil {
		rec.RealizedPL = *req.RealizedPL
	} else {
		rec.RealizedPL = RealizedPL(side, req.Shares, req.EntryPrice, req.ExitPrice)
	}

	if err := s.store.RecordTrade(rec); err != nil {
		s.logger.Error("record trade", zap.Error(err))
		abort(c, http.StatusInternalServerError, "trade not recorded")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"trade_id":    rec.TradeID,
		"ticker":      rec.Ticker,
		"side":        rec.Side,
		"shares":      rec.Shares,
		"realized_pl": rec.RealizedPL,
		"close_time":  rec.CloseTime,
	})
}

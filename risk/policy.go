package risk

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSettings is returned when a RiskSettings record breaks one of its
// invariants.
var ErrInvalidSettings = errors.New("invalid risk settings")

// Side is the direction of a trade.
type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// ParseSide accepts "long"/"short" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case Long:
		return Long, nil
	case Short:
		return Short, nil
	}
	return "", fmt.Errorf("unknown side %q (want long or short)", s)
}

// Settings is the per-account risk configuration served by the risk
// settings service. RiskPerTradePercent is a fraction: 0.01 means 1%.
//
// Only AccountBalance, MaxLossDaily, RiskPerTradePercent and the three
// sizing limits drive the calculator. The remaining fields are stored and
// served for display.
type Settings struct {
	AccountBalance      float64 `json:"account_balance" yaml:"account_balance"`
	MaxLossDaily        float64 `json:"max_loss_daily" yaml:"max_loss_daily"`
	MaxLossDailyPercent float64 `json:"max_loss_daily_percent" yaml:"max_loss_daily_percent"`
	MaxPosition         float64 `json:"max_position" yaml:"max_position"`
	MaxPositionPercent  float64 `json:"max_position_percent" yaml:"max_position_percent"`
	MaxSharesPerTrade   int64   `json:"max_shares_per_trade" yaml:"max_shares_per_trade"`
	MaxOrder            float64 `json:"max_order" yaml:"max_order"`
	MaxBuyingPower      float64 `json:"max_buying_power" yaml:"max_buying_power"`
	RiskPerTradePercent float64 `json:"risk_per_trade_percent" yaml:"risk_per_trade_percent"`
	MaxTradesPerDay     int64   `json:"max_trades_per_day" yaml:"max_trades_per_day"`
	AlertThreshold1     float64 `json:"alert_threshold_1" yaml:"alert_threshold_1"`
	AlertThreshold2     float64 `json:"alert_threshold_2" yaml:"alert_threshold_2"`
	AlertThreshold3     float64 `json:"alert_threshold_3" yaml:"alert_threshold_3"`
}

// DefaultSettings returns the record a new account starts with.
func DefaultSettings() Settings {
	return Settings{
		AccountBalance:      10000,
		MaxLossDaily:        500,
		MaxLossDailyPercent: 0.05,
		MaxPosition:         5000,
		MaxPositionPercent:  0.25,
		MaxSharesPerTrade:   1000,
		MaxOrder:            2500,
		MaxBuyingPower:      25000,
		RiskPerTradePercent: 0.01,
		MaxTradesPerDay:     10,
		AlertThreshold1:     0.30,
		AlertThreshold2:     0.50,
		AlertThreshold3:     0.75,
	}
}

// TargetRisk is the dollar amount a single trade is allowed to lose.
func (s Settings) TargetRisk() float64 {
	return s.AccountBalance * s.RiskPerTradePercent
}

// RemainingDailyRisk shrinks MaxLossDaily by today's realized losses.
// Gains never extend the budget.
func (s Settings) RemainingDailyRisk(todayPnL float64) float64 {
	loss := 0.0
	if todayPnL < 0 {
		loss = -todayPnL
	}
	return s.MaxLossDaily - loss
}

// Validate checks the record invariants.
func (s Settings) Validate() error {
	switch {
	case s.AccountBalance <= 0:
		return fmt.Errorf("%w: account_balance must be positive", ErrInvalidSettings)
	case s.MaxLossDaily < 0:
		return fmt.Errorf("%w: max_loss_daily must not be negative", ErrInvalidSettings)
	case s.RiskPerTradePercent < 0 || s.RiskPerTradePercent > 1:
		return fmt.Errorf("%w: risk_per_trade_percent must be between 0 and 1", ErrInvalidSettings)
	case s.MaxSharesPerTrade < 0:
		return fmt.Errorf("%w: max_shares_per_trade must not be negative", ErrInvalidSettings)
	case s.MaxPosition < 0:
		return fmt.Errorf("%w: max_position must not be negative", ErrInvalidSettings)
	case s.MaxOrder < 0:
		return fmt.Errorf("%w: max_order must not be negative", ErrInvalidSettings)
	case s.MaxBuyingPower < 0 || s.MaxTradesPerDay < 0:
		return fmt.Errorf("%w: limits must not be negative", ErrInvalidSettings)
	}
	for _, f := range []float64{s.MaxLossDailyPercent, s.MaxPositionPercent, s.AlertThreshold1, s.AlertThreshold2, s.AlertThreshold3} {
		if f < 0 || f > 1 {
			return fmt.Errorf("%w: percent fields must be fractions between 0 and 1", ErrInvalidSettings)
		}
	}
	return nil
}

// SettingsUpdate is a partial Settings. Nil fields are left untouched by
// Apply.
type SettingsUpdate struct {
	AccountBalance      *float64 `json:"account_balance,omitempty"`
	MaxLossDaily        *float64 `json:"max_loss_daily,omitempty"`
	MaxLossDailyPercent *float64 `json:"max_loss_daily_percent,omitempty"`
	MaxPosition         *float64 `json:"max_position,omitempty"`
	MaxPositionPercent  *float64 `json:"max_position_percent,omitempty"`
	MaxSharesPerTrade   *int64   `json:"max_shares_per_trade,omitempty"`
	MaxOrder            *float64 `json:"max_order,omitempty"`
	MaxBuyingPower      *float64 `json:"max_buying_power,omitempty"`
	RiskPerTradePercent *float64 `json:"risk_per_trade_percent,omitempty"`
	MaxTradesPerDay     *int64   `json:"max_trades_per_day,omitempty"`
	AlertThreshold1     *float64 `json:"alert_threshold_1,omitempty"`
	AlertThreshold2     *float64 `json:"alert_threshold_2,omitempty"`
	AlertThreshold3     *float64 `json:"alert_threshold_3,omitempty"`
}

// Empty reports whether the update carries no fields.
func (u SettingsUpdate) Empty() bool {
	return u == SettingsUpdate{}
}

// Apply returns s with every non-nil field of u copied over.
func (u SettingsUpdate) Apply(s Settings) Settings {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int64, src *int64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&s.AccountBalance, u.AccountBalance)
	setF(&s.MaxLossDaily, u.MaxLossDaily)
	setF(&s.MaxLossDailyPercent, u.MaxLossDailyPercent)
	setF(&s.MaxPosition, u.MaxPosition)
	setF(&s.MaxPositionPercent, u.MaxPositionPercent)
	setI(&s.MaxSharesPerTrade, u.MaxSharesPerTrade)
	setF(&s.MaxOrder, u.MaxOrder)
	setF(&s.MaxBuyingPower, u.MaxBuyingPower)
	setF(&s.RiskPerTradePercent, u.RiskPerTradePercent)
	setI(&s.MaxTradesPerDay, u.MaxTradesPerDay)
	setF(&s.AlertThreshold1, u.AlertThreshold1)
	setF(&s.AlertThreshold2, u.AlertThreshold2)
	setF(&s.AlertThreshold3, u.AlertThreshold3)
	return s
}

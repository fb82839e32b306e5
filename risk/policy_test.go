package risk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsValid(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.InDelta(t, 100.0, s.TargetRisk(), 1e-9)
}

func TestSettingsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
		errMsg string
	}{
		{"zero balance", func(s *Settings) { s.AccountBalance = 0 }, "account_balance"},
		{"negative daily loss", func(s *Settings) { s.MaxLossDaily = -1 }, "max_loss_daily"},
		{"risk as percent", func(s *Settings) { s.RiskPerTradePercent = 1.5 }, "risk_per_trade_percent"},
		{"negative shares", func(s *Settings) { s.MaxSharesPerTrade = -5 }, "max_shares_per_trade"},
		{"negative position", func(s *Settings) { s.MaxPosition = -5 }, "max_position"},
		{"negative order", func(s *Settings) { s.MaxOrder = -5 }, "max_order"},
		{"threshold out of range", func(s *Settings) { s.AlertThreshold2 = 2 }, "fractions"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.ErrorIs(t, err, ErrInvalidSettings)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRemainingDailyRisk(t *testing.T) {
	t.Parallel()

	s := Settings{MaxLossDaily: 5000}
	assert.InDelta(t, 200.0, s.RemainingDailyRisk(-4800), 1e-9)
	assert.InDelta(t, 5000.0, s.RemainingDailyRisk(0), 1e-9)
	assert.InDelta(t, 5000.0, s.RemainingDailyRisk(1200), 1e-9)
	assert.InDelta(t, -1000.0, s.RemainingDailyRisk(-6000), 1e-9)
}

func TestSettingsUpdateApply(t *testing.T) {
	t.Parallel()

	var u SettingsUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"account_balance": 25000, "max_shares_per_trade": 300}`), &u))
	assert.False(t, u.Empty())

	got := u.Apply(DefaultSettings())
	assert.Equal(t, 25000.0, got.AccountBalance)
	assert.Equal(t, int64(300), got.MaxSharesPerTrade)
	assert.Equal(t, 500.0, got.MaxLossDaily)
	assert.Equal(t, 0.01, got.RiskPerTradePercent)

	assert.True(t, SettingsUpdate{}.Empty())
	assert.Equal(t, DefaultSettings(), SettingsUpdate{}.Apply(DefaultSettings()))
}

func TestParseSide(t *testing.T) {
	t.Parallel()

	s, err := ParseSide("LONG")
	require.NoError(t, err)
	assert.Equal(t, Long, s)

	s, err = ParseSide(" short")
	require.NoError(t, err)
	assert.Equal(t, Short, s)

	_, err = ParseSide("flat")
	assert.Error(t, err)
}

package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		side        Side
		entry, stop float64
		want        string
	}{
		{"long ok", Long, 10, 9.5, ""},
		{"long stop above", Long, 10, 10.5, MsgLongStop},
		{"long stop equal", Long, 10, 10, MsgLongStop},
		{"short ok", Short, 10, 10.5, ""},
		{"short stop below", Short, 10, 9.5, MsgShortStop},
		{"short stop equal", Short, 10, 10, MsgShortStop},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CheckDirection(tt.side, tt.entry, tt.stop))
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	base := exampleSettings()

	tests := []struct {
		name     string
		pc       PositionCalculation
		settings Settings
		todayPnL float64
		want     Status
		msg      string
	}{
		{
			name:     "green",
			pc:       PositionCalculation{RiskAmount: 1000, RiskPercent: 1, RiskPerShare: 0.5, EntryPrice: 10},
			settings: base,
			want:     Green,
			msg:      MsgRiskOK,
		},
		{
			name:     "daily budget exhausted by losses",
			pc:       PositionCalculation{RiskAmount: 1000, RiskPercent: 1, RiskPerShare: 0.5, EntryPrice: 10},
			settings: base,
			todayPnL: -4800,
			want:     Red,
			msg:      "Exceeds max daily loss (remaining: $200)",
		},
		{
			name:     "gains do not extend budget",
			pc:       PositionCalculation{RiskAmount: 600, RiskPercent: 0.6, RiskPerShare: 1, EntryPrice: 50},
			settings: Settings{AccountBalance: 100000, MaxLossDaily: 500},
			todayPnL: 5000,
			want:     Red,
			msg:      "Exceeds max daily loss (remaining: $500)",
		},
		{
			name:     "red wins over stop too far",
			pc:       PositionCalculation{RiskAmount: 3000, RiskPercent: 3, RiskPerShare: 1, EntryPrice: 50},
			settings: Settings{AccountBalance: 100000, MaxLossDaily: 1000},
			want:     Red,
			msg:      "Exceeds max daily loss (remaining: $1000)",
		},
		{
			name:     "stop too far",
			pc:       PositionCalculation{RiskAmount: 2500, RiskPercent: 2.5, RiskPerShare: 1, EntryPrice: 50},
			settings: Settings{AccountBalance: 100000, MaxLossDaily: 10000},
			want:     Orange,
			msg:      "Stop at 2.5% - elevated risk",
		},
		{
			name:     "stop too close",
			pc:       PositionCalculation{RiskAmount: 500, RiskPercent: 0.5, RiskPerShare: 0.2, EntryPrice: 100},
			settings: base,
			want:     Orange,
			msg:      "Stop at 0.20% - execution risk",
		},
		{
			name:     "large share of remaining budget",
			pc:       PositionCalculation{RiskAmount: 600, RiskPercent: 0.6, RiskPerShare: 1, EntryPrice: 50},
			settings: Settings{AccountBalance: 100000, MaxLossDaily: 1000},
			want:     Orange,
			msg:      "Using 60% of remaining daily risk",
		},
		{
			name:     "exactly half the budget stays green",
			pc:       PositionCalculation{RiskAmount: 500, RiskPercent: 0.5, RiskPerShare: 1, EntryPrice: 50},
			settings: Settings{AccountBalance: 100000, MaxLossDaily: 1000},
			want:     Green,
			msg:      MsgRiskOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, msg := Classify(tt.pc, tt.settings, tt.todayPnL)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestClassify_StopDistanceAtThreshold(t *testing.T) {
	t.Parallel()

	// 1.00 / 50.00 = 2% of entry, well clear of the 0.3% floor.
	pc := PositionCalculation{RiskAmount: 2500, RiskPercent: 2.5, RiskPerShare: 1, EntryPrice: 50}
	status, msg := Classify(pc, Settings{AccountBalance: 100000, MaxLossDaily: 100000}, 0)
	assert.Equal(t, Orange, status)
	assert.Contains(t, msg, "2.5%")
}

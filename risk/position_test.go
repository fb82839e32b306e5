package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func exampleSettings() Settings {
	return Settings{
		AccountBalance:      100000,
		MaxLossDaily:        5000,
		RiskPerTradePercent: 0.01,
		MaxSharesPerTrade:   10000,
		MaxPosition:         50000,
		MaxOrder:            50000,
	}
}

func TestSize_UnclampedBinds(t *testing.T) {
	t.Parallel()

	s := exampleSettings()
	got := Size(s, 10.00, 9.50, s.TargetRisk())

	assert.InDelta(t, 0.50, got.RiskPerShare, 1e-12)
	assert.Equal(t, int64(2000), got.CalculatedShares)
	assert.Equal(t, int64(2000), got.RecommendedShares)
	assert.InDelta(t, 20000.0, got.PositionValue, 1e-9)
	assert.InDelta(t, 1000.0, got.RiskAmount, 1e-9)
	assert.InDelta(t, 1.0, got.RiskPercent, 1e-9)
	assert.Equal(t, 10.00, got.EntryPrice)
	assert.Equal(t, 9.50, got.StopPrice)
	assert.Equal(t, LimitsApplied{MaxSharesPerTrade: 10000, MaxPosition: 50000, MaxOrder: 50000}, got.LimitsApplied)
}

func TestSize_ClampedByLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Settings)
		want   int64
	}{
		{"max position", func(s *Settings) { s.MaxPosition = 20000 }, 2000},
		{"max order", func(s *Settings) { s.MaxOrder = 15000 }, 1500},
		{"max shares", func(s *Settings) { s.MaxSharesPerTrade = 750 }, 750},
		{"zero order allows nothing", func(s *Settings) { s.MaxOrder = 0 }, 0},
		{"zero shares allows nothing", func(s *Settings) { s.MaxSharesPerTrade = 0 }, 0},
		{"negative limits ignored", func(s *Settings) {
			s.MaxSharesPerTrade = -1
			s.MaxPosition = -1
			s.MaxOrder = -1
		}, 4000},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := exampleSettings()
			tt.mutate(&s)

			// risk per share 0.25 => 4000 ideal shares
			got := Size(s, 10.00, 9.75, s.TargetRisk())
			assert.Equal(t, int64(4000), got.CalculatedShares)
			assert.Equal(t, tt.want, got.RecommendedShares)
			assert.InDelta(t, float64(tt.want)*0.25, got.RiskAmount, 1e-9)
		})
	}
}

func TestSize_ClampMonotonic(t *testing.T) {
	t.Parallel()

	s := Settings{
		AccountBalance:      25000,
		MaxLossDaily:        500,
		RiskPerTradePercent: 0.02,
		MaxSharesPerTrade:   1200,
		MaxPosition:         30000,
		MaxOrder:            18000,
	}

	for _, entry := range []float64{1.25, 7.5, 12, 48.9, 101.37, 350} {
		for _, dist := range []float64{0.01, 0.05, 0.33, 1, 2.5, 9} {
			if dist >= entry {
				continue
			}
			got := Size(s, entry, entry-dist, s.TargetRisk())
			assert.LessOrEqual(t, got.RecommendedShares, got.CalculatedShares)
			assert.LessOrEqual(t, got.RecommendedShares, s.MaxSharesPerTrade)
			assert.LessOrEqual(t, got.RecommendedShares, int64(math.Floor(s.MaxPosition/entry)))
			assert.LessOrEqual(t, got.RecommendedShares, int64(math.Floor(s.MaxOrder/entry)))
			assert.GreaterOrEqual(t, got.RecommendedShares, int64(0))
		}
	}
}

func TestSize_Idempotent(t *testing.T) {
	t.Parallel()

	s := exampleSettings()
	a := Size(s, 23.17, 22.41, s.TargetRisk())
	b := Size(s, 23.17, 22.41, s.TargetRisk())
	assert.Equal(t, a, b)
}

func TestSize_EqualPricesSizesNothing(t *testing.T) {
	t.Parallel()

	s := exampleSettings()
	got := Size(s, 10, 10, s.TargetRisk())
	assert.Equal(t, int64(0), got.CalculatedShares)
	assert.Equal(t, int64(0), got.RecommendedShares)
	assert.Equal(t, 0.0, got.RiskAmount)
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"10.5", 10.5, true},
		{" 12 ", 12, true},
		{"0.0001", 0.0001, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
		{"-3.2", 0, false},
		{"1,5", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePrice(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, "input %q", tt.in)
	}
}

func TestRound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.235))
	// Half cents round away from zero on the decimal value as written,
	// not on its binary approximation.
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, -1.01, Round2(-1.005))
	assert.Equal(t, 0.0001, Round4(0.00005))
	assert.Equal(t, 20000.0, Round2(20000))
	assert.Equal(t, 0.3333, Round4(1.0/3))
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
}

func TestRiskPct(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, RiskPct(1000, 100000), 1e-12)
	assert.True(t, math.IsInf(RiskPct(10, 0), 1))
}

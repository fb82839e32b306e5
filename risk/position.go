package risk

// LimitsApplied records the ceilings a calculation was clamped against.
type LimitsApplied struct {
	MaxSharesPerTrade int64   `json:"max_shares_per_trade"`
	MaxPosition       float64 `json:"max_position"`
	MaxOrder          float64 `json:"max_order"`
}

// PositionCalculation is the sized position for one entry/stop pair.
// It is replaced wholesale on every recompute.
type PositionCalculation struct {
	RecommendedShares int64         `json:"recommended_shares"`
	CalculatedShares  int64         `json:"calculated_shares"`
	PositionValue     float64       `json:"position_value"`
	RiskAmount        float64       `json:"risk_amount"`
	RiskPercent       float64       `json:"risk_percent"`
	EntryPrice        float64       `json:"entry_price"`
	StopPrice         float64       `json:"stop_price"`
	RiskPerShare      float64       `json:"risk_per_share"`
	LimitsApplied     LimitsApplied `json:"limits_applied"`
}

// Size computes the recommended share count for entry/stop under s.
// targetRisk is the dollar amount to risk; pass s.TargetRisk() unless an
// override applies. Callers validate prices and direction first; Size
// only requires entry != stop to produce a non-zero count.
func Size(s Settings, entry, stop, targetRisk float64) PositionCalculation {
	riskPerShare := RiskPerShare(entry, stop)

	ideal := int64(0)
	if riskPerShare > 0 {
		ideal = floorShares(targetRisk / riskPerShare)
	}
	shares := ClampShares(ideal, s, entry)

	positionValue := float64(shares) * entry
	actualRisk := float64(shares) * riskPerShare

	return PositionCalculation{
		RecommendedShares: shares,
		CalculatedShares:  ideal,
		PositionValue:     Round2(positionValue),
		RiskAmount:        Round2(actualRisk),
		RiskPercent:       Round2(RiskPct(actualRisk, s.AccountBalance)),
		EntryPrice:        entry,
		StopPrice:         stop,
		RiskPerShare:      Round4(riskPerShare),
		LimitsApplied: LimitsApplied{
			MaxSharesPerTrade: s.MaxSharesPerTrade,
			MaxPosition:       s.MaxPosition,
			MaxOrder:          s.MaxOrder,
		},
	}
}

// ClampShares applies the share, position and order ceilings to ideal.
// A negative limit is ignored. A zero limit allows zero shares.
func ClampShares(ideal int64, s Settings, entry float64) int64 {
	shares := ideal
	if s.MaxSharesPerTrade >= 0 && s.MaxSharesPerTrade < shares {
		shares = s.MaxSharesPerTrade
	}
	if entry > 0 {
		for _, notional := range []float64{s.MaxPosition, s.MaxOrder} {
			if notional < 0 {
				continue
			}
			if byNotional := floorShares(notional / entry); byNotional < shares {
				shares = byNotional
			}
		}
	}
	if shares < 0 {
		return 0
	}
	return shares
}

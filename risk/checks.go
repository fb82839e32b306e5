package risk

import "fmt"

// Status is the traffic-light classification of a sized trade.
type Status string

const (
	Green  Status = "GREEN"
	Orange Status = "ORANGE"
	Red    Status = "RED"
)

// Thresholds used by Classify.
const (
	MaxRiskPercent       = 2.0 // percent of balance on one trade
	MinStopDistancePct   = 0.3 // percent of entry
	DailyBudgetWarnShare = 0.5 // share of remaining daily budget
)

const (
	MsgIdle         = "Enter values to calculate"
	MsgLoading      = "Loading configuration..."
	MsgLongStop     = "Stop must be below entry for LONG"
	MsgShortStop    = "Stop must be above entry for SHORT"
	MsgRiskOK       = "Risk OK - within parameters"
	MsgCalcError    = "Calculation error"
	msgDailyLimit   = "Exceeds max daily loss (remaining: $%.0f)"
	msgStopTooFar   = "Stop at %.1f%% - elevated risk"
	msgStopTooClose = "Stop at %.2f%% - execution risk"
	msgDailyShare   = "Using %.0f%% of remaining daily risk"
)

// CheckDirection returns "" when stop is on the losing side of entry for
// side, otherwise the message describing the violated rule.
func CheckDirection(side Side, entry, stop float64) string {
	switch side {
	case Short:
		if stop <= entry {
			return MsgShortStop
		}
	default:
		if stop >= entry {
			return MsgLongStop
		}
	}
	return ""
}

// Classify grades a sized trade against the daily loss budget and the stop
// distance heuristics. Rules are evaluated in priority order and the first
// match wins, so a trade that breaks the daily budget is RED even when its
// stop is also too wide.
func Classify(pc PositionCalculation, s Settings, todayPnL float64) (Status, string) {
	remaining := s.RemainingDailyRisk(todayPnL)

	if pc.RiskAmount > remaining {
		return Red, fmt.Sprintf(msgDailyLimit, remaining)
	}

	if pc.RiskPercent > MaxRiskPercent {
		return Orange, fmt.Sprintf(msgStopTooFar, pc.RiskPercent)
	}

	if pc.EntryPrice > 0 {
		stopPct := pc.RiskPerShare / pc.EntryPrice * 100
		if stopPct < MinStopDistancePct {
			return Orange, fmt.Sprintf(msgStopTooClose, stopPct)
		}
	}

	if pc.RiskAmount > remaining*DailyBudgetWarnShare {
		return Orange, fmt.Sprintf(msgDailyShare, pc.RiskAmount/remaining*100)
	}

	return Green, MsgRiskOK
}

package risk

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// RiskPerShare is the absolute price distance between entry and stop.
func RiskPerShare(entry, stop float64) float64 {
	return abs(entry - stop)
}

// RiskPct returns risk as a percentage (not a fraction) of equity.
func RiskPct(riskAmount, equity float64) float64 {
	if equity <= 0 {
		return math.Inf(1)
	}
	return riskAmount / equity * 100
}

// ParsePrice reads a user-typed price. ok is false for empty, unparseable,
// non-finite or non-positive input.
func ParsePrice(text string) (price float64, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, false
	}
	price = d.InexactFloat64()
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	return price, true
}

// Round2 rounds money and percentages to cents.
func Round2(x float64) float64 {
	return roundTo(x, 2)
}

// Round4 rounds per-share figures.
func Round4(x float64) float64 {
	return roundTo(x, 4)
}

func roundTo(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

// floorShares converts a share quotient to a whole count. Quotients at or
// below zero, and NaN, give zero.
func floorShares(q float64) int64 {
	if math.IsNaN(q) || q <= 0 {
		return 0
	}
	if q >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(q))
}

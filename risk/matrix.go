package risk

import "sort"

// VariationRow is one alternative stop placement sized to the same dollar
// risk as the base stop.
type VariationRow struct {
	StopPrice       float64 `json:"stop_price"`
	Distance        float64 `json:"distance"`
	DistancePercent float64 `json:"distance_percent"`
	Shares          int64   `json:"shares"`
	RiskAmount      float64 `json:"risk_amount"`
}

// VariationMultipliers scale the base stop distance.
var VariationMultipliers = []float64{-0.20, -0.10, 0, 0.10, 0.20}

// GenerateMatrix returns up to len(VariationMultipliers) rows ordered by
// distance. Rows whose distance or stop price is not positive are dropped.
func GenerateMatrix(entry, baseStop, targetRisk float64, side Side) []VariationRow {
	baseDistance := RiskPerShare(entry, baseStop)
	type candidate struct {
		distance float64
		row      VariationRow
	}
	cands := make([]candidate, 0, len(VariationMultipliers))

	for _, m := range VariationMultipliers {
		distance := baseDistance * (1 + m)
		if distance <= 0 {
			continue
		}

		stop := entry - distance
		if side == Short {
			stop = entry + distance
		}
		if stop <= 0 {
			continue
		}

		shares := floorShares(targetRisk / distance)
		cands = append(cands, candidate{distance, VariationRow{
			StopPrice:       Round2(stop),
			Distance:        Round2(distance),
			DistancePercent: Round2(distance / entry * 100),
			Shares:          shares,
			RiskAmount:      Round2(float64(shares) * distance),
		}})
	}

	// Sort on the unrounded distance so tiny stops keep their order.
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].distance < cands[j].distance
	})
	rows := make([]VariationRow, len(cands))
	for i, c := range cands {
		rows[i] = c.row
	}
	return rows
}

package journal

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rustyeddy/tsis/calculator"
)

const historySheet = "History"

// WriteHistoryXLSX writes history items to a single-sheet workbook at path.
func WriteHistoryXLSX(path string, items []calculator.HistoryItem) error {
	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), historySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headStyle, err := fx.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, h := range historyHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := fx.SetCellValue(historySheet, cell, h); err != nil {
			return fmt.Errorf("write %s: %w", cell, err)
		}
		if err := fx.SetCellStyle(historySheet, cell, cell, headStyle); err != nil {
			return fmt.Errorf("style %s: %w", cell, err)
		}
	}

	for r, h := range items {
		values := []any{
			h.ID,
			h.Timestamp.UTC().Format(time.RFC3339),
			h.Ticker,
			string(h.Side),
			h.EntryPrice,
			h.StopPrice,
			h.Shares,
			h.RiskAmount,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("history cell: %w", err)
			}
			if err := fx.SetCellValue(historySheet, cell, v); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if err := fx.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

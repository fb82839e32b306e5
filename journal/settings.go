package journal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rustyeddy/tsis/risk"
)

const settingsColumns = `account_balance, max_loss_daily, max_loss_daily_percent, max_position,
	max_position_percent, max_shares_per_trade, max_order, max_buying_power,
	risk_per_trade_percent, max_trades_per_day, alert_threshold_1, alert_threshold_2, alert_threshold_3`

// GetSettings returns the account's risk settings. found is false when the
// account has none yet.
func (j *SQLite) GetSettings(ctx context.Context, account string) (s risk.Settings, found bool, err error) {
	err = j.db.QueryRowContext(ctx, `SELECT `+settingsColumns+` FROM risk_settings WHERE account = ?`, account).Scan(
		&s.AccountBalance,
		&s.MaxLossDaily,
		&s.MaxLossDailyPercent,
		&s.MaxPosition,
		&s.MaxPositionPercent,
		&s.MaxSharesPerTrade,
		&s.MaxOrder,
		&s.MaxBuyingPower,
		&s.RiskPerTradePercent,
		&s.MaxTradesPerDay,
		&s.AlertThreshold1,
		&s.AlertThreshold2,
		&s.AlertThreshold3,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return risk.Settings{}, false, nil
	}
	if err != nil {
		return risk.Settings{}, false, err
	}
	return s, true, nil
}

// PutSettings inserts or replaces the account's risk settings.
func (j *SQLite) PutSettings(ctx context.Context, account string, s risk.Settings) error {
	now := time.Now().UTC()
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO risk_settings (account, `+settingsColumns+`, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account) DO UPDATE SET
			account_balance = excluded.account_balance,
			max_loss_daily = excluded.max_loss_daily,
			max_loss_daily_percent = excluded.max_loss_daily_percent,
			max_position = excluded.max_position,
			max_position_percent = excluded.max_position_percent,
			max_shares_per_trade = excluded.max_shares_per_trade,
			max_order = excluded.max_order,
			max_buying_power = excluded.max_buying_power,
			risk_per_trade_percent = excluded.risk_per_trade_percent,
			max_trades_per_day = excluded.max_trades_per_day,
			alert_threshold_1 = excluded.alert_threshold_1,
			alert_threshold_2 = excluded.alert_threshold_2,
			alert_threshold_3 = excluded.alert_threshold_3,
			updated_at = ?`,
		account,
		s.AccountBalance, s.MaxLossDaily, s.MaxLossDailyPercent, s.MaxPosition,
		s.MaxPositionPercent, s.MaxSharesPerTrade, s.MaxOrder, s.MaxBuyingPower,
		s.RiskPerTradePercent, s.MaxTradesPerDay, s.AlertThreshold1, s.AlertThreshold2, s.AlertThreshold3,
		now, now,
	)
	return err
}

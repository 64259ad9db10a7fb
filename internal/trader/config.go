package trader

import (
	"fmt"

	"github.com/shopspring/decimal"

	appconfig "cryptobot/internal/config"
	"cryptobot/internal/model"
)

// Config holds the per-pair trading parameters.
type Config struct {
	Pair model.CurrencyPair

	// TriggerRatio is the maximum position of the ask price within the 24h
	// low/high range at which a buy is still placed.
	TriggerRatio decimal.Decimal

	// TargetProfit is the absolute profit sought per round trip, in the quote
	// currency.
	TargetProfit decimal.Decimal

	// TargetGrowthPercent is the price growth (in %) between the buy limit and
	// the sell limit.
	TargetGrowthPercent decimal.Decimal

	// FeePercent is the exchange fee (in %) paid on each leg.
	FeePercent decimal.Decimal
}

// Validate checks the trading parameters. The round-trip price move must
// exceed twice the fee, otherwise the quantity formula has a non-positive
// denominator and every cycle would lose money.
func (c Config) Validate() error {
	if !c.TriggerRatio.IsPositive() || c.TriggerRatio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("trigger ratio must be in (0, 1], got %s", c.TriggerRatio)
	}
	if !c.TargetProfit.IsPositive() {
		return fmt.Errorf("target profit must be positive, got %s", c.TargetProfit)
	}
	if c.FeePercent.IsNegative() {
		return fmt.Errorf("fee percent must not be negative, got %s", c.FeePercent)
	}
	if c.TargetGrowthPercent.LessThanOrEqual(c.FeePercent.Mul(decimal.NewFromInt(2))) {
		return fmt.Errorf("target price growth %s%% must exceed twice the trade fee %s%%",
			c.TargetGrowthPercent, c.FeePercent)
	}
	return nil
}

// ConfigForPair builds a trader Config for one pair from the application
// trading settings.
func ConfigForPair(pair model.CurrencyPair, tc appconfig.TradingConfig) (Config, error) {
	ratio, err := decimal.NewFromString(tc.TriggerRatio)
	if err != nil {
		return Config{}, fmt.Errorf("invalid trigger ratio %q: %w", tc.TriggerRatio, err)
	}
	profit, err := decimal.NewFromString(tc.TargetProfitEUR)
	if err != nil {
		return Config{}, fmt.Errorf("invalid target profit %q: %w", tc.TargetProfitEUR, err)
	}
	growth, err := decimal.NewFromString(tc.TargetGrowthPercent)
	if err != nil {
		return Config{}, fmt.Errorf("invalid target growth %q: %w", tc.TargetGrowthPercent, err)
	}
	fee, err := decimal.NewFromString(tc.FeePercent)
	if err != nil {
		return Config{}, fmt.Errorf("invalid fee percent %q: %w", tc.FeePercent, err)
	}
	cfg := Config{
		Pair:                pair,
		TriggerRatio:        ratio,
		TargetProfit:        profit,
		TargetGrowthPercent: growth,
		FeePercent:          fee,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

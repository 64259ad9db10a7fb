package trader

import "github.com/shopspring/decimal"

// quantitySigDigits is the precision of the computed buy quantity.
const quantitySigDigits = 6

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// BuyQuantity solves for the quantity whose round trip yields exactly
// targetProfit after paying the fee on both legs, when the sell price is
// buyPrice grown by growthPercent:
//
//	q = targetProfit / (buyPrice × (k(1−f) − (1+f)))
//
// with f = feePercent/100 and k = 1 + growthPercent/100. The denominator is
// positive exactly when growthPercent > 2×feePercent, which Config.Validate
// guarantees before any trader is constructed.
//
// The result is rounded to 6 significant digits, round-half-to-even.
func BuyQuantity(buyPrice, targetProfit, growthPercent, feePercent decimal.Decimal) decimal.Decimal {
	f := feePercent.Div(hundred)
	k := hundred.Add(growthPercent).Div(hundred)
	denominator := buyPrice.Mul(k.Mul(one.Sub(f)).Sub(one.Add(f)))
	q := targetProfit.DivRound(denominator, 16)
	return roundSignificant(q, quantitySigDigits)
}

// roundSignificant rounds d to the given number of significant digits using
// banker's rounding.
func roundSignificant(d decimal.Decimal, digits int32) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	// Exponent of the leading digit, e.g. 2 for 174.556 and -3 for 0.00123.
	leading := int32(d.NumDigits()) + d.Exponent() - 1
	return d.RoundBank(digits - 1 - leading)
}

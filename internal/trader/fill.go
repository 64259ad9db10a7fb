package trader

import "cryptobot/internal/model"

// FillPolicy decides whether an open order has been executed, given the
// latest market snapshot. The state machine never talks to a real order
// status endpoint; swapping this out is how one would.
type FillPolicy interface {
	BuyFilled(order *model.Order, ticker model.Ticker) bool
	SellFilled(order *model.Order, ticker model.Ticker) bool
}

// LimitCrossPolicy simulates execution by price comparison: a buy is assumed
// filled once the ask has moved above its limit, a sell once the bid has
// dropped below its limit.
type LimitCrossPolicy struct{}

func (LimitCrossPolicy) BuyFilled(order *model.Order, ticker model.Ticker) bool {
	return ticker.AskPrice.GreaterThan(order.Limit)
}

func (LimitCrossPolicy) SellFilled(order *model.Order, ticker model.Ticker) bool {
	return ticker.BidPrice.LessThan(order.Limit)
}

package trader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"cryptobot/internal/account"
	"cryptobot/internal/database"
	"cryptobot/internal/exchange"
	"cryptobot/internal/model"
)

// State identifies where a PairTrader is in its round-trip cycle.
type State string

const (
	StateStart                    State = "START"
	StateTryBuy                   State = "TRY_BUY"
	StateWaitForBuyOrderExecuted  State = "WAIT_FOR_BUY_ORDER_EXECUTED"
	StateTrySell                  State = "TRY_SELL"
	StateWaitForSellOrderExecuted State = "WAIT_FOR_SELL_ORDER_EXECUTED"
	StateEndRoundTrip             State = "END_ROUND_TRIP"
	StateStop                     State = "STOP"
)

// PairTrader runs one repeating buy-then-sell cycle for a single currency
// pair. It is driven by an external loop calling Update once per polling
// tick; every call performs at most one state's action and returns without
// blocking. The account is shared with the other traders in the process.
type PairTrader struct {
	logger *slog.Logger
	cfg    Config
	acct   *account.Account
	quotes exchange.QuoteSource
	repo   database.Repository
	fill   FillPolicy
	pair   model.CurrencyPair

	state     State
	buyOrder  *model.Order
	sellOrder *model.Order
	buyCost   decimal.Decimal
	buyFee    decimal.Decimal
}

// NewPairTrader creates a trader in the START state. It fails if the trading
// parameters cannot turn a profit (target growth not above twice the fee).
// The repository may be nil, in which case nothing is journaled.
func NewPairTrader(cfg Config, acct *account.Account, quotes exchange.QuoteSource, repo database.Repository, logger *slog.Logger) (*PairTrader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config for %s: %w", cfg.Pair, err)
	}
	return &PairTrader{
		logger: logger,
		cfg:    cfg,
		acct:   acct,
		quotes: quotes,
		repo:   repo,
		fill:   LimitCrossPolicy{},
		pair:   cfg.Pair,
		state:  StateStart,
	}, nil
}

// SetFillPolicy replaces the simulated limit-cross fill detection. Must be
// called before the first Update.
func (t *PairTrader) SetFillPolicy(p FillPolicy) {
	t.fill = p
}

// Recover starts trading: a freshly constructed trader sits in START until
// told to begin. It has no effect in any other state; in particular a STOPped
// trader stays stopped.
func (t *PairTrader) Recover() {
	if t.state != StateStart {
		return
	}
	t.moveToState(StateTryBuy)
}

// Pair returns the market this trader works.
func (t *PairTrader) Pair() model.CurrencyPair { return t.pair }

// State returns the current state.
func (t *PairTrader) State() State { return t.state }

// Account returns the shared ledger.
func (t *PairTrader) Account() *account.Account { return t.acct }

// BuyOrder returns the open buy order, nil if none.
func (t *PairTrader) BuyOrder() *model.Order { return t.buyOrder }

// SellOrder returns the open sell order, nil if none.
func (t *PairTrader) SellOrder() *model.Order { return t.sellOrder }

// Update performs exactly one state's action and returns. Callers must not
// invoke it concurrently for traders sharing one account; the polling driver
// runs all traders sequentially.
func (t *PairTrader) Update(ctx context.Context) {
	switch t.state {
	case StateStart, StateStop:
		// Nothing to do until Recover, or ever again.
	case StateTryBuy:
		t.tryBuy(ctx)
	case StateWaitForBuyOrderExecuted:
		t.waitForBuyOrderExecuted(ctx)
	case StateTrySell:
		t.trySell(ctx)
	case StateWaitForSellOrderExecuted:
		t.waitForSellOrderExecuted(ctx)
	case StateEndRoundTrip:
		t.endRoundTrip()
	}
}

func (t *PairTrader) tryBuy(ctx context.Context) {
	available := t.acct.Available(t.pair.Quote)
	if !available.IsPositive() {
		t.logger.Info("no available funds left for trading", "pair", t.pair.String())
		t.moveToState(StateStop)
		return
	}

	ticker, ok := t.latestTicker()
	if !ok {
		return
	}
	if !t.shouldBuy(ticker) {
		return
	}

	buyPrice := ticker.AskPrice
	quantity := BuyQuantity(buyPrice, t.cfg.TargetProfit, t.cfg.TargetGrowthPercent, t.cfg.FeePercent)
	t.buyOrder = model.NewOrder(t.pair, model.Buy, quantity, buyPrice)

	blocked := buyPrice.Mul(quantity)
	t.acct.BlockAsset(t.pair.Quote, blocked)
	t.logger.Info("placed BUY order",
		"order", t.buyOrder.String(),
		"blocked", blocked,
		"currency", t.pair.Quote,
	)
	t.recordOrder(ctx, t.buyOrder)
	t.logBalances()
	t.moveToState(StateWaitForBuyOrderExecuted)
}

// shouldBuy evaluates the dip-buy trigger: buy only when the ask sits in the
// lowest TriggerRatio part of the last-24h range. A flat range never
// triggers.
func (t *PairTrader) shouldBuy(ticker model.Ticker) bool {
	rangeDelta := ticker.Last24HHigh.Sub(ticker.Last24HLow)
	if !rangeDelta.IsPositive() {
		return false
	}
	ratio := ticker.AskPrice.Sub(ticker.Last24HLow).Div(rangeDelta)
	return ratio.LessThanOrEqual(t.cfg.TriggerRatio)
}

func (t *PairTrader) waitForBuyOrderExecuted(ctx context.Context) {
	ticker, ok := t.latestTicker()
	if !ok {
		return
	}
	if !t.fill.BuyFilled(t.buyOrder, ticker) {
		return
	}
	t.logger.Info("assuming BUY order executed",
		"limit", t.buyOrder.Limit,
		"ask", ticker.AskPrice,
	)

	// Assume execution at the limit price exactly.
	executed := t.buyOrder.Quantity.Mul(t.buyOrder.Limit)
	fee := executed.Mul(t.feeFraction())
	cost := executed.Add(fee)
	t.acct.SettleBuy(t.pair, executed, cost, t.buyOrder.Quantity)
	t.buyCost = cost
	t.buyFee = fee

	t.logger.Info("settled BUY order",
		"fee", fee,
		"cost", cost,
		"quantity", t.buyOrder.Quantity,
	)
	t.logBalances()
	t.moveToState(StateTrySell)
}

func (t *PairTrader) trySell(ctx context.Context) {
	sellPrice := t.buyOrder.Limit.Mul(hundred.Add(t.cfg.TargetGrowthPercent).Div(hundred))
	// Sell whatever base currency is actually held, not the original buy
	// quantity.
	quantity := t.acct.Balance(t.pair.Base)
	t.sellOrder = model.NewOrder(t.pair, model.Sell, quantity, sellPrice)

	t.acct.BlockAsset(t.pair.Base, quantity)
	t.logger.Info("placed SELL order",
		"order", t.sellOrder.String(),
		"blocked", quantity,
		"currency", t.pair.Base,
	)
	t.recordOrder(ctx, t.sellOrder)
	t.moveToState(StateWaitForSellOrderExecuted)
}

func (t *PairTrader) waitForSellOrderExecuted(ctx context.Context) {
	ticker, ok := t.latestTicker()
	if !ok {
		return
	}
	if !t.fill.SellFilled(t.sellOrder, ticker) {
		return
	}
	t.logger.Info("assuming SELL order executed",
		"limit", t.sellOrder.Limit,
		"bid", ticker.BidPrice,
	)

	quantity := t.sellOrder.Quantity
	gross := quantity.Mul(t.sellOrder.Limit)
	fee := gross.Mul(t.feeFraction())
	proceeds := gross.Sub(fee)
	t.acct.SettleSell(t.pair, quantity, proceeds)

	t.logger.Info("settled SELL order",
		"fee", fee,
		"proceeds", proceeds,
		"quantity", quantity,
	)
	t.logBalances()
	t.recordRoundTrip(ctx, proceeds.Sub(t.buyCost), fee)
	t.moveToState(StateEndRoundTrip)
}

func (t *PairTrader) endRoundTrip() {
	t.buyOrder = nil
	t.sellOrder = nil
	t.buyCost = decimal.Zero
	t.buyFee = decimal.Zero
	t.moveToState(StateTryBuy)
}

// latestTicker polls the quote source; a tick without data is skipped.
func (t *PairTrader) latestTicker() (model.Ticker, bool) {
	ticker, err := t.quotes.Latest(t.pair)
	if err != nil {
		if errors.Is(err, exchange.ErrNoQuote) {
			t.logger.Debug("no quote yet, skipping tick", "pair", t.pair.String())
		} else {
			t.logger.Warn("quote source failed", "pair", t.pair.String(), "error", err)
		}
		return model.Ticker{}, false
	}
	return ticker, true
}

func (t *PairTrader) feeFraction() decimal.Decimal {
	return t.cfg.FeePercent.Div(hundred)
}

func (t *PairTrader) recordOrder(ctx context.Context, order *model.Order) {
	if t.repo == nil {
		return
	}
	if err := t.repo.LogOrder(ctx, *order); err != nil {
		t.logger.Error("failed to journal order", "order", order.ID, "error", err)
	}
}

func (t *PairTrader) recordRoundTrip(ctx context.Context, netProfit, sellFee decimal.Decimal) {
	if t.repo == nil {
		return
	}
	trip := model.RoundTrip{
		Pair:        t.pair.String(),
		BuyOrderID:  t.buyOrder.ID,
		SellOrderID: t.sellOrder.ID,
		BuyPrice:    t.buyOrder.Limit.String(),
		SellPrice:   t.sellOrder.Limit.String(),
		Quantity:    t.sellOrder.Quantity.String(),
		BuyFee:      t.buyFee.String(),
		SellFee:     sellFee.String(),
		NetProfit:   netProfit.String(),
		OpenedAt:    t.buyOrder.CreatedAt,
		ClosedAt:    time.Now(),
	}
	if err := t.repo.LogRoundTrip(ctx, trip); err != nil {
		t.logger.Error("failed to journal round trip", "pair", trip.Pair, "error", err)
	}
}

func (t *PairTrader) moveToState(next State) {
	t.logger.Info("state transition",
		"pair", t.pair.String(),
		"from", string(t.state),
		"to", string(next),
	)
	t.state = next
}

func (t *PairTrader) logBalances() {
	t.logger.Info("account balance",
		"quote", t.pair.Quote,
		"quote_balance", t.acct.Balance(t.pair.Quote),
		"quote_blocked", t.acct.Blocked(t.pair.Quote),
		"base", t.pair.Base,
		"base_balance", t.acct.Balance(t.pair.Base),
		"base_blocked", t.acct.Blocked(t.pair.Base),
	)
}

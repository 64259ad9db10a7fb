package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency identifies a single asset or fiat unit.
type Currency string

const (
	BTC  Currency = "BTC"
	ETH  Currency = "ETH"
	XRP  Currency = "XRP"
	BCH  Currency = "BCH"
	LTC  Currency = "LTC"
	ADA  Currency = "ADA"
	EOS  Currency = "EOS"
	REP  Currency = "REP"
	XLM  Currency = "XLM"
	BSV  Currency = "BSV"
	XMR  Currency = "XMR"
	QTUM Currency = "QTUM"
	ETC  Currency = "ETC"
	ZEC  Currency = "ZEC"
	DASH Currency = "DASH"
	GNO  Currency = "GNO"
	EUR  Currency = "EUR"
)

var currencyNames = map[Currency]string{
	BTC:  "Bitcoin",
	ETH:  "Ethereum",
	XRP:  "Ripple",
	BCH:  "Bitcoin Cash",
	LTC:  "Litecoin",
	ADA:  "Cardano",
	EOS:  "EOS",
	REP:  "Augur",
	XLM:  "Stellar",
	BSV:  "BitcoinSV",
	XMR:  "Monero",
	QTUM: "Qtum",
	ETC:  "Ethereum Classic",
	ZEC:  "Zcash",
	DASH: "Dash",
	GNO:  "Gnosis",
	EUR:  "Euro",
}

// Name returns the display name of the currency, or its symbol if unknown.
func (c Currency) Name() string {
	if name, ok := currencyNames[c]; ok {
		return name
	}
	return string(c)
}

// CurrencyPair is an ordered (base, quote) pair identifying one tradable market.
type CurrencyPair struct {
	Base  Currency
	Quote Currency
}

// AllPairs lists every market the bot knows how to trade.
var AllPairs = []CurrencyPair{
	{BTC, EUR},
	{ETH, EUR},
	{XRP, EUR},
	{BCH, EUR},
	{LTC, EUR},
	{ADA, EUR},
	{EOS, EUR},
	{REP, EUR},
	{XLM, EUR},
	{BSV, EUR},
	{XMR, EUR},
	{QTUM, EUR},
	{ETC, EUR},
	{ZEC, EUR},
	{DASH, EUR},
	{GNO, EUR},
}

// String returns the "BASE/QUOTE" form used in config and logs.
func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// ParsePair resolves a "BASE/QUOTE" string against the known pair table.
func ParsePair(s string) (CurrencyPair, error) {
	for _, p := range AllPairs {
		if p.String() == s {
			return p, nil
		}
	}
	return CurrencyPair{}, fmt.Errorf("unknown currency pair: %q", s)
}

// Ticker is an immutable snapshot of the market at the moment of a poll.
type Ticker struct {
	AskPrice    decimal.Decimal
	BidPrice    decimal.Decimal
	Last24HLow  decimal.Decimal
	Last24HHigh decimal.Decimal
}

// OrderSide is the direction of an order.
type OrderSide string

const (
	Buy  OrderSide = "BUY"
	Sell OrderSide = "SELL"
)

// Order records an intent to trade. Immutable once created; identity is by ID
// alone.
type Order struct {
	ID        string
	Pair      CurrencyPair
	Side      OrderSide
	Quantity  decimal.Decimal
	Limit     decimal.Decimal
	CreatedAt time.Time
}

// NewOrder creates an order with a fresh unique ID.
func NewOrder(pair CurrencyPair, side OrderSide, quantity, limit decimal.Decimal) *Order {
	return &Order{
		ID:        uuid.NewString(),
		Pair:      pair,
		Side:      side,
		Quantity:  quantity,
		Limit:     limit,
		CreatedAt: time.Now(),
	}
}

// Equal reports whether two orders are the same order. Only the ID counts.
func (o *Order) Equal(other *Order) bool {
	if o == nil || other == nil {
		return o == other
	}
	return o.ID == other.ID
}

func (o *Order) String() string {
	return fmt.Sprintf("%s %s qty=%s limit=%s id=%s", o.Side, o.Pair, o.Quantity, o.Limit, o.ID)
}

// RoundTrip represents one completed buy-then-sell cycle to be journaled.
type RoundTrip struct {
	ID          int64     `db:"id"`
	Pair        string    `db:"pair"`
	BuyOrderID  string    `db:"buy_order_id"`
	SellOrderID string    `db:"sell_order_id"`
	BuyPrice    string    `db:"buy_price"`
	SellPrice   string    `db:"sell_price"`
	Quantity    string    `db:"quantity"`
	BuyFee      string    `db:"buy_fee"`
	SellFee     string    `db:"sell_fee"`
	NetProfit   string    `db:"net_profit"`
	OpenedAt    time.Time `db:"opened_at"`
	ClosedAt    time.Time `db:"closed_at"`
}

package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptobot/internal/model"
)

func TestParseTickerMessage(t *testing.T) {
	message := []byte(`[340,
		{"a":["12.10000","1","1.000"],
		 "b":["11.90000","2","2.000"],
		 "c":["12.00000","0.100"],
		 "l":["11.00000","10.00000"],
		 "h":["19.00000","20.00000"]},
		"ticker","XBT/EUR"]`)

	quote, ok, err := parseTickerMessage(message)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.CurrencyPair{Base: model.BTC, Quote: model.EUR}, quote.Pair)
	assert.True(t, quote.Ticker.AskPrice.Equal(decimal.RequireFromString("12.1")))
	assert.True(t, quote.Ticker.BidPrice.Equal(decimal.RequireFromString("11.9")))
	assert.True(t, quote.Ticker.Last24HLow.Equal(decimal.RequireFromString("10")))
	assert.True(t, quote.Ticker.Last24HHigh.Equal(decimal.RequireFromString("20")))
}

func TestParseTickerMessage_IgnoresNonTicker(t *testing.T) {
	cases := [][]byte{
		[]byte(`{"event":"heartbeat"}`),
		[]byte(`{"event":"subscriptionStatus","status":"subscribed"}`),
		[]byte(`[42,{"a":["1","1","1"]},"trade","XBT/EUR"]`),
		[]byte(`[1,2,3]`),
	}
	for _, message := range cases {
		_, ok, err := parseTickerMessage(message)
		assert.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestParseTickerMessage_UnknownPair(t *testing.T) {
	message := []byte(`[340,{"a":["1","1","1"],"b":["1","1","1"],"l":["1","1"],"h":["2","2"]},"ticker","XBT/USD"]`)
	_, ok, err := parseTickerMessage(message)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestParseTickerMessage_IncompletePayload(t *testing.T) {
	message := []byte(`[340,{"a":["12.1","1","1"],"b":["11.9","2","2"],"l":["11.0"],"h":["19.0"]},"ticker","XBT/EUR"]`)
	_, _, err := parseTickerMessage(message)
	assert.Error(t, err)
}

func TestKrakenPairNames(t *testing.T) {
	assert.Equal(t, "XBT/EUR", krakenPairName(model.CurrencyPair{Base: model.BTC, Quote: model.EUR}))
	assert.Equal(t, "ETH/EUR", krakenPairName(model.CurrencyPair{Base: model.ETH, Quote: model.EUR}))

	pair, ok := pairFromKrakenName("XBT/EUR")
	require.True(t, ok)
	assert.Equal(t, model.BTC, pair.Base)

	_, ok = pairFromKrakenName("XBT/USD")
	assert.False(t, ok)
}

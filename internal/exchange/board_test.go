package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cryptobot/internal/model"
)

func TestBoard_LatestBeforeAnyQuote(t *testing.T) {
	board := NewBoard()
	_, err := board.Latest(model.CurrencyPair{Base: model.BTC, Quote: model.EUR})
	assert.ErrorIs(t, err, ErrNoQuote)
}

func TestBoard_ApplyThenLatest(t *testing.T) {
	board := NewBoard()
	btceur := model.CurrencyPair{Base: model.BTC, Quote: model.EUR}
	etheur := model.CurrencyPair{Base: model.ETH, Quote: model.EUR}

	board.Apply(Quote{
		Pair:   btceur,
		Ticker: model.Ticker{AskPrice: decimal.NewFromInt(12)},
	})

	ticker, err := board.Latest(btceur)
	require.NoError(t, err)
	assert.True(t, ticker.AskPrice.Equal(decimal.NewFromInt(12)))

	// Other pairs are still unseeded.
	_, err = board.Latest(etheur)
	assert.ErrorIs(t, err, ErrNoQuote)

	// A newer quote replaces the old one.
	board.Apply(Quote{
		Pair:   btceur,
		Ticker: model.Ticker{AskPrice: decimal.NewFromInt(13)},
	})
	ticker, err = board.Latest(btceur)
	require.NoError(t, err)
	assert.True(t, ticker.AskPrice.Equal(decimal.NewFromInt(13)))
}

package exchange

import (
	"context"
	"errors"

	"cryptobot/internal/model"
)

// ErrNoQuote is returned by a QuoteSource that has not yet received market
// data for the requested pair.
var ErrNoQuote = errors.New("no quote received yet")

// QuoteSource supplies the latest known market snapshot for a pair. Traders
// poll it; a tick on which it returns ErrNoQuote is simply skipped.
type QuoteSource interface {
	Latest(pair model.CurrencyPair) (model.Ticker, error)
}

// Quote is one ticker snapshot attributed to its pair, as produced by a
// streaming client.
type Quote struct {
	Pair   model.CurrencyPair
	Ticker model.Ticker
}

// StreamClient defines the standard interface for exchange feed clients.
type StreamClient interface {
	GetName() string
	StartStream(ctx context.Context, quoteChan chan<- Quote, pairs []model.CurrencyPair) error
}

package exchange

import (
	"context"
	"sync"

	"cryptobot/internal/model"
)

// Board caches the latest ticker per pair. The streaming client writes into
// it, traders read from it through the QuoteSource interface.
type Board struct {
	mu     sync.RWMutex
	latest map[model.CurrencyPair]model.Ticker
}

// NewBoard creates an empty quote board.
func NewBoard() *Board {
	return &Board{latest: make(map[model.CurrencyPair]model.Ticker)}
}

// Apply stores a quote as the latest snapshot for its pair.
func (b *Board) Apply(q Quote) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest[q.Pair] = q.Ticker
}

// Latest returns the most recent ticker for pair, or ErrNoQuote if the feed
// has not delivered one yet.
func (b *Board) Latest(pair model.CurrencyPair) (model.Ticker, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.latest[pair]
	if !ok {
		return model.Ticker{}, ErrNoQuote
	}
	return t, nil
}

// Consume drains quoteChan into the board until the context is cancelled.
func (b *Board) Consume(ctx context.Context, quoteChan <-chan Quote) {
	for {
		select {
		case <-ctx.Done():
			return
		case q := <-quoteChan:
			b.Apply(q)
		}
	}
}

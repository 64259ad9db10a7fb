package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"cryptobot/internal/model"
)

// DefaultKrakenWSURL is the public Kraken websocket endpoint.
const DefaultKrakenWSURL = "wss://ws.kraken.com"

// KrakenClient implements the StreamClient interface for Kraken.
type KrakenClient struct {
	logger *slog.Logger
	wsURL  string
}

// NewKrakenClient creates a new KrakenClient. An empty wsURL selects the
// public endpoint.
func NewKrakenClient(logger *slog.Logger, wsURL string) *KrakenClient {
	if wsURL == "" {
		wsURL = DefaultKrakenWSURL
	}
	return &KrakenClient{logger: logger, wsURL: wsURL}
}

func (k *KrakenClient) GetName() string {
	return "kraken"
}

// StartStream connects to the Kraken WebSocket API and streams ticker
// snapshots for the given pairs until the context is cancelled. Connection
// failures trigger reconnection with capped exponential backoff.
func (k *KrakenClient) StartStream(ctx context.Context, quoteChan chan<- Quote, pairs []model.CurrencyPair) error {
	backoff := time.Second
	for {
		select {
		case <-ctx.Done():
			k.logger.Info("KrakenClient: context cancelled, shutting down")
			return nil
		default:
		}

		k.logger.Info("KrakenClient: connecting to WebSocket", "url", k.wsURL, "backoff", backoff)
		c, _, err := websocket.DefaultDialer.Dial(k.wsURL, nil)
		if err != nil {
			k.logger.Error("KrakenClient: WebSocket connection failed", "error", err)
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff)
			continue
		}

		if err := k.subscribe(c, pairs); err != nil {
			k.logger.Error("KrakenClient: failed to send subscription", "error", err)
			c.Close()
			if !sleepCtx(ctx, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff)
			continue
		}
		k.logger.Info("KrakenClient: subscription sent successfully", "pairs", len(pairs))

		// Reset backoff on successful connection
		backoff = time.Second

		if done := k.readLoop(ctx, c, quoteChan); done {
			return nil
		}
		// Read loop exited on error; reconnect.
	}
}

func (k *KrakenClient) subscribe(c *websocket.Conn, pairs []model.CurrencyPair) error {
	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, krakenPairName(p))
	}
	subscription := map[string]interface{}{
		"event": "subscribe",
		"pair":  names,
		"subscription": map[string]string{
			"name": "ticker",
		},
	}
	return c.WriteJSON(subscription)
}

// readLoop pumps messages until the context is cancelled (returns true) or the
// connection fails (returns false).
func (k *KrakenClient) readLoop(ctx context.Context, c *websocket.Conn, quoteChan chan<- Quote) bool {
	defer c.Close()
	for {
		select {
		case <-ctx.Done():
			k.logger.Info("KrakenClient: context cancelled, closing connection")
			return true
		default:
		}

		_, message, err := c.ReadMessage()
		if err != nil {
			k.logger.Error("KrakenClient: failed to read message", "error", err)
			return false
		}

		quote, ok, err := parseTickerMessage(message)
		if err != nil {
			k.logger.Warn("KrakenClient: failed to parse message", "error", err)
			continue
		}
		if !ok {
			// Heartbeat, subscription status or an unknown pair.
			continue
		}

		select {
		case quoteChan <- quote:
			k.logger.Debug("KrakenClient: sent quote",
				"pair", quote.Pair.String(),
				"bid", quote.Ticker.BidPrice,
				"ask", quote.Ticker.AskPrice,
			)
		case <-ctx.Done():
			k.logger.Info("KrakenClient: context cancelled while sending quote")
			return true
		}
	}
}

// parseTickerMessage decodes a Kraken ticker channel message, format
// [channelID, tickerData, channelName, pair]. Non-ticker messages (events,
// heartbeats) return ok=false with no error.
func parseTickerMessage(message []byte) (Quote, bool, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(message, &raw); err != nil {
		// Event messages are JSON objects, not arrays.
		return Quote{}, false, nil
	}
	if len(raw) != 4 {
		return Quote{}, false, nil
	}

	var channel string
	if err := json.Unmarshal(raw[2], &channel); err != nil || channel != "ticker" {
		return Quote{}, false, nil
	}
	var pairName string
	if err := json.Unmarshal(raw[3], &pairName); err != nil {
		return Quote{}, false, fmt.Errorf("invalid pair field: %w", err)
	}
	pair, ok := pairFromKrakenName(pairName)
	if !ok {
		return Quote{}, false, nil
	}

	// a = ask array(price, whole lot volume, lot volume)
	// b = bid array(price, whole lot volume, lot volume)
	// l = low array(today, last 24 hours)
	// h = high array(today, last 24 hours)
	var data struct {
		Ask  []string `json:"a"`
		Bid  []string `json:"b"`
		Low  []string `json:"l"`
		High []string `json:"h"`
	}
	if err := json.Unmarshal(raw[1], &data); err != nil {
		return Quote{}, false, fmt.Errorf("invalid ticker payload: %w", err)
	}
	if len(data.Ask) == 0 || len(data.Bid) == 0 || len(data.Low) < 2 || len(data.High) < 2 {
		return Quote{}, false, fmt.Errorf("incomplete ticker payload for %s", pairName)
	}

	ask, err := decimal.NewFromString(data.Ask[0])
	if err != nil {
		return Quote{}, false, fmt.Errorf("invalid ask price: %w", err)
	}
	bid, err := decimal.NewFromString(data.Bid[0])
	if err != nil {
		return Quote{}, false, fmt.Errorf("invalid bid price: %w", err)
	}
	low, err := decimal.NewFromString(data.Low[1])
	if err != nil {
		return Quote{}, false, fmt.Errorf("invalid 24h low: %w", err)
	}
	high, err := decimal.NewFromString(data.High[1])
	if err != nil {
		return Quote{}, false, fmt.Errorf("invalid 24h high: %w", err)
	}

	return Quote{
		Pair: pair,
		Ticker: model.Ticker{
			AskPrice:    ask,
			BidPrice:    bid,
			Last24HLow:  low,
			Last24HHigh: high,
		},
	}, true, nil
}

// Kraken names bitcoin XBT.
func krakenPairName(p model.CurrencyPair) string {
	base := string(p.Base)
	if p.Base == model.BTC {
		base = "XBT"
	}
	return base + "/" + string(p.Quote)
}

func pairFromKrakenName(name string) (model.CurrencyPair, bool) {
	for _, p := range model.AllPairs {
		if krakenPairName(p) == name {
			return p, true
		}
	}
	return model.CurrencyPair{}, false
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > 16*time.Second {
		next = 16 * time.Second
	}
	return next
}

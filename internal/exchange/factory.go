package exchange

import (
	"fmt"
	"log/slog"

	"cryptobot/internal/config"
)

// NewClient creates a new exchange stream client based on the given
// configuration.
func NewClient(logger *slog.Logger, cfg *config.ExchangeConfig) (StreamClient, error) {
	switch cfg.Name {
	case "kraken":
		return NewKrakenClient(logger, cfg.WSURL), nil
	default:
		return nil, fmt.Errorf("unknown exchange: %s", cfg.Name)
	}
}

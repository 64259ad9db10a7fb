package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"cryptobot/internal/account"
	"cryptobot/internal/config"
	"cryptobot/internal/database"
	"cryptobot/internal/exchange"
	"cryptobot/internal/model"
	"cryptobot/internal/trader"
)

// Bot owns one shared account and one trader per configured pair, and drives
// them sequentially on a fixed polling interval. Sequential updates are what
// keep the multi-step account settlements of different traders from
// interleaving.
type Bot struct {
	logger  *slog.Logger
	acct    *account.Account
	traders []*trader.PairTrader
	pairs   []model.CurrencyPair
	tick    time.Duration
}

// New builds the account and all pair traders from configuration. It fails if
// any pair is unknown or the trading parameters are invalid.
func New(cfg *config.Config, quotes exchange.QuoteSource, repo database.Repository, logger *slog.Logger) (*Bot, error) {
	acct := account.New()

	initial, err := decimal.NewFromString(cfg.Trading.InitialBalanceEUR)
	if err != nil {
		return nil, fmt.Errorf("invalid initial balance %q: %w", cfg.Trading.InitialBalanceEUR, err)
	}
	acct.AddAsset(model.EUR, initial)

	b := &Bot{
		logger: logger,
		acct:   acct,
		tick:   time.Duration(cfg.Trading.PollIntervalMS) * time.Millisecond,
	}
	for _, name := range cfg.Trading.Pairs {
		pair, err := model.ParsePair(name)
		if err != nil {
			return nil, err
		}
		tcfg, err := trader.ConfigForPair(pair, cfg.Trading)
		if err != nil {
			return nil, err
		}
		t, err := trader.NewPairTrader(tcfg, acct, quotes, repo, logger)
		if err != nil {
			return nil, err
		}
		b.traders = append(b.traders, t)
		b.pairs = append(b.pairs, pair)
	}
	return b, nil
}

// Pairs returns the markets the bot trades, in configuration order.
func (b *Bot) Pairs() []model.CurrencyPair {
	return b.pairs
}

// Account returns the shared ledger.
func (b *Bot) Account() *account.Account {
	return b.acct
}

// Run starts all traders and polls them until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	for _, t := range b.traders {
		t.Recover()
	}
	b.logger.Info("bot started", "traders", len(b.traders), "interval", b.tick)

	ticker := time.NewTicker(b.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot shutting down")
			return
		case <-ticker.C:
			for _, t := range b.traders {
				t.Update(ctx)
			}
		}
	}
}

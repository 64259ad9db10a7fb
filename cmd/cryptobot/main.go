package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cryptobot/internal/bot"
	"cryptobot/internal/config"
	"cryptobot/internal/database"
	"cryptobot/internal/exchange"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := database.NewPostgresRepository(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("cannot connect to database: %v", err)
	}
	defer repo.Close()
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("cannot migrate database: %v", err)
	}

	client, err := exchange.NewClient(logger, &cfg.Exchange)
	if err != nil {
		log.Fatalf("cannot create exchange client: %v", err)
	}

	board := exchange.NewBoard()
	b, err := bot.New(&cfg, board, repo, logger)
	if err != nil {
		log.Fatalf("cannot build bot: %v", err)
	}

	quoteChan := make(chan exchange.Quote, 64)
	go func() {
		if err := client.StartStream(ctx, quoteChan, b.Pairs()); err != nil {
			logger.Error("exchange stream terminated", "error", err)
		}
	}()
	go board.Consume(ctx, quoteChan)

	b.Run(ctx)
}

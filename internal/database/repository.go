package database

import (
	"context"

	"cryptobot/internal/model"
)

// Repository defines the standard interface for the trade journal.
type Repository interface {
	Migrate(ctx context.Context) error
	LogOrder(ctx context.Context, order model.Order) error
	LogRoundTrip(ctx context.Context, trip model.RoundTrip) error
}

package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cryptobot/internal/model"
)

// PostgresRepository implements the Repository interface on a pgx pool.
type PostgresRepository struct {
	Pool *pgxpool.Pool
}

// NewPostgresRepository connects a pool to the given DSN.
func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresRepository{Pool: pool}, nil
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() {
	r.Pool.Close()
}

// Migrate creates the journal tables if they do not exist.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(36) PRIMARY KEY,
		pair VARCHAR(20) NOT NULL,
		side VARCHAR(4) NOT NULL,
		quantity NUMERIC(30, 10) NOT NULL,
		limit_price NUMERIC(30, 10) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE TABLE IF NOT EXISTS round_trips (
		id SERIAL PRIMARY KEY,
		pair VARCHAR(20) NOT NULL,
		buy_order_id VARCHAR(36) NOT NULL REFERENCES orders(id),
		sell_order_id VARCHAR(36) NOT NULL REFERENCES orders(id),
		buy_price NUMERIC(30, 10) NOT NULL,
		sell_price NUMERIC(30, 10) NOT NULL,
		quantity NUMERIC(30, 10) NOT NULL,
		buy_fee NUMERIC(30, 10) NOT NULL,
		sell_fee NUMERIC(30, 10) NOT NULL,
		net_profit NUMERIC(30, 10) NOT NULL,
		opened_at TIMESTAMPTZ NOT NULL,
		closed_at TIMESTAMPTZ NOT NULL
	);`
	if _, err := r.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// LogOrder inserts a placed order.
func (r *PostgresRepository) LogOrder(ctx context.Context, order model.Order) error {
	const query = `
	INSERT INTO orders (id, pair, side, quantity, limit_price, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.Pool.Exec(ctx, query,
		order.ID,
		order.Pair.String(),
		string(order.Side),
		order.Quantity.String(),
		order.Limit.String(),
		order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", order.ID, err)
	}
	return nil
}

// LogRoundTrip inserts a completed buy-then-sell cycle.
func (r *PostgresRepository) LogRoundTrip(ctx context.Context, trip model.RoundTrip) error {
	const query = `
	INSERT INTO round_trips (pair, buy_order_id, sell_order_id, buy_price, sell_price,
		quantity, buy_fee, sell_fee, net_profit, opened_at, closed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.Pool.Exec(ctx, query,
		trip.Pair,
		trip.BuyOrderID,
		trip.SellOrderID,
		trip.BuyPrice,
		trip.SellPrice,
		trip.Quantity,
		trip.BuyFee,
		trip.SellFee,
		trip.NetProfit,
		trip.OpenedAt,
		trip.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("insert round trip for %s: %w", trip.Pair, err)
	}
	return nil
}

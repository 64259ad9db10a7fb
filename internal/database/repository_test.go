package database

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"cryptobot/internal/model"
)

var (
	pool *pgxpool.Pool
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	// Define the PostgreSQL container request
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpassword",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	// Create and start the PostgreSQL container
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Fatalf("could not stop postgres container: %s", err)
		}
	}()

	// Get the container's mapped port and host
	host, err := pgContainer.Host(ctx)
	if err != nil {
		log.Fatalf("could not get container host: %s", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("could not get mapped port: %s", err)
	}

	// Create the database connection string
	connStr := "postgres://testuser:testpassword@" + host + ":" + port.Port() + "/testdb"

	// Create a new connection pool
	pool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("could not connect to database: %s", err)
	}
	defer pool.Close()

	// Create the tables
	repo := &PostgresRepository{Pool: pool}
	if err := repo.Migrate(ctx); err != nil {
		log.Fatalf("could not migrate: %s", err)
	}

	// Run the tests
	code := m.Run()

	os.Exit(code)
}

func TestPostgresRepository_LogOrder(t *testing.T) {
	ctx := context.Background()
	repo := &PostgresRepository{Pool: pool}

	order := model.NewOrder(
		model.CurrencyPair{Base: model.BTC, Quote: model.EUR},
		model.Buy,
		decimal.RequireFromString("174.557"),
		decimal.NewFromInt(12),
	)

	err := repo.LogOrder(ctx, *order)
	require.NoError(t, err)

	var pair, side, quantity, limitPrice string
	err = pool.QueryRow(ctx,
		"SELECT pair, side, quantity::text, limit_price::text FROM orders WHERE id = $1", order.ID,
	).Scan(&pair, &side, &quantity, &limitPrice)
	require.NoError(t, err)
	assert.Equal(t, "BTC/EUR", pair)
	assert.Equal(t, "BUY", side)
	assert.True(t, decimal.RequireFromString(quantity).Equal(order.Quantity))
	assert.True(t, decimal.RequireFromString(limitPrice).Equal(order.Limit))
}

func TestPostgresRepository_LogRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := &PostgresRepository{Pool: pool}

	pair := model.CurrencyPair{Base: model.ETH, Quote: model.EUR}
	buy := model.NewOrder(pair, model.Buy, decimal.NewFromInt(2), decimal.NewFromInt(1000))
	sell := model.NewOrder(pair, model.Sell, decimal.NewFromInt(2), decimal.NewFromInt(1010))
	require.NoError(t, repo.LogOrder(ctx, *buy))
	require.NoError(t, repo.LogOrder(ctx, *sell))

	trip := model.RoundTrip{
		Pair:        pair.String(),
		BuyOrderID:  buy.ID,
		SellOrderID: sell.ID,
		BuyPrice:    "1000",
		SellPrice:   "1010",
		Quantity:    "2",
		BuyFee:      "5.2",
		SellFee:     "5.252",
		NetProfit:   "9.548",
		OpenedAt:    time.Now().Add(-time.Minute),
		ClosedAt:    time.Now(),
	}

	err := repo.LogRoundTrip(ctx, trip)
	require.NoError(t, err)

	var loggedPair, netProfit string
	err = pool.QueryRow(ctx,
		"SELECT pair, net_profit::text FROM round_trips WHERE buy_order_id = $1", buy.ID,
	).Scan(&loggedPair, &netProfit)
	require.NoError(t, err)
	assert.Equal(t, trip.Pair, loggedPair)
	assert.True(t, decimal.RequireFromString(netProfit).Equal(decimal.RequireFromString(trip.NetProfit)))
}

func TestPostgresRepository_RejectsDuplicateOrderID(t *testing.T) {
	ctx := context.Background()
	repo := &PostgresRepository{Pool: pool}

	order := model.NewOrder(
		model.CurrencyPair{Base: model.LTC, Quote: model.EUR},
		model.Sell,
		decimal.NewFromInt(1),
		decimal.NewFromInt(50),
	)
	order.ID = uuid.NewString()

	require.NoError(t, repo.LogOrder(ctx, *order))
	assert.Error(t, repo.LogOrder(ctx, *order))
}

package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS shopcarts (
	shopcart_id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	customer_id BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_shopcarts_customer ON shopcarts(customer_id);

CREATE TABLE IF NOT EXISTS items (
	item_id     BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	shopcart_id BIGINT NOT NULL REFERENCES shopcarts(shopcart_id) ON DELETE CASCADE,
	product_id  BIGINT NOT NULL,
	quantity    INT NOT NULL CHECK (quantity >= 1),
	unit_price  NUMERIC(10,2) NOT NULL,
	price       NUMERIC(10,2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_shopcart ON items(shopcart_id);

CREATE TABLE IF NOT EXISTS audit_events (
	event_id    UUID PRIMARY KEY,
	event_type  TEXT NOT NULL,
	shopcart_id BIGINT,
	occurred_at TIMESTAMPTZ NOT NULL,
	producer    TEXT NOT NULL,
	payload     JSONB NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate applies the schema. Idempotent, runs at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Connect opens the pool, checks it with a ping and makes sure the tables
// exist.
func Connect(ctx context.Context, dsn string, log logrus.FieldLogger) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse DATABASE_URL")
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, errors.Wrap(err, "open pool")
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "postgres connection failed")
	}

	log.WithField("host", config.ConnConfig.Host).Info("connected to postgres")

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "initialize schema")
	}

	log.Info("schema initialized")
	return db, nil
}

// initSchema creates or updates the database schema
func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	// -------------------------------
	// MENU SHEET MIRROR
	// -------------------------------
	menuRowsSQL := `
		CREATE TABLE IF NOT EXISTS menu_rows (
			position INTEGER PRIMARY KEY,
			category TEXT NULL,
			item_name TEXT NULL,
			price TEXT NULL,
			available TEXT NULL
		)
	`
	if _, err := db.Exec(ctx, menuRowsSQL); err != nil {
		return err
	}

	// -------------------------------
	// ORDERS
	// -------------------------------
	ordersSQL := `
		CREATE TABLE IF NOT EXISTS restaurant_orders (
			id UUID PRIMARY KEY,
			customer_name VARCHAR(255) NOT NULL,
			phone VARCHAR(20) NULL,
			table_number VARCHAR(50) NULL,
			placed_at TIMESTAMP NOT NULL,
			order_summary TEXT NOT NULL,
			total_price NUMERIC(12,2) NOT NULL,
			lines JSONB NOT NULL,
			idempotency_key TEXT UNIQUE NULL
		)
	`
	if _, err := db.Exec(ctx, ordersSQL); err != nil {
		return err
	}

	placedAtIndexSQL := `
		CREATE INDEX IF NOT EXISTS restaurant_orders_placed_at_idx
		ON restaurant_orders (placed_at DESC)
	`
	if _, err := db.Exec(ctx, placedAtIndexSQL); err != nil {
		return err
	}

	return nil
}

package order

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type PostgresSink struct {
	db *pgxpool.Pool
}

func NewPostgresSink(db *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{db: db}
}

// --------------------------------------------------
// APPEND ORDER (ONE ROW PER ORDER)
// --------------------------------------------------
func (s *PostgresSink) Append(ctx context.Context, record *OrderRecord, key string) error {
	lines, err := json.Marshal(record.Lines())
	if err != nil {
		return errors.Wrap(err, "encode order lines")
	}

	cmd, err := s.db.Exec(ctx, `
		INSERT INTO restaurant_orders (
			id,
			customer_name,
			phone,
			table_number,
			placed_at,
			order_summary,
			total_price,
			lines,
			idempotency_key
		)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7::numeric, $8, $9)
		ON CONFLICT DO NOTHING
	`,
		record.ID().String(),
		record.CustomerName(),
		nullable(record.Phone()),
		nullable(record.TableNumber()),
		record.PlacedAt(),
		record.Summary(),
		record.Total().StringFixed(2),
		lines,
		nullable(key),
	)
	if err != nil {
		return errors.Wrap(err, "insert order")
	}

	// Either the idempotency key or the order id already exists: a retry of
	// an append that committed.
	if cmd.RowsAffected() == 0 {
		return ErrDuplicateOrder
	}
	return nil
}

// --------------------------------------------------
// LIST ORDERS (NEWEST FIRST)
// --------------------------------------------------
func (s *PostgresSink) List(ctx context.Context, limit int) ([]StoredOrder, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.Query(ctx, `
		SELECT id::text, customer_name, phone, table_number, placed_at, order_summary, total_price::text
		FROM restaurant_orders
		ORDER BY placed_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query orders")
	}
	defer rows.Close()

	var out []StoredOrder
	for rows.Next() {
		var (
			o            StoredOrder
			phone, table *string
			total        string
		)
		if err := rows.Scan(&o.ID, &o.CustomerName, &phone, &table, &o.PlacedAt, &o.Summary, &total); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		if phone != nil {
			o.Phone = *phone
		}
		if table != nil {
			o.TableNumber = *table
		}
		if o.Total, err = decimal.NewFromString(total); err != nil {
			return nil, errors.Wrapf(err, "order %s total", o.ID)
		}
		out = append(out, o)
	}

	return out, errors.Wrap(rows.Err(), "read orders")
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

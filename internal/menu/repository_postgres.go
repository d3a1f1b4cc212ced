package menu

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// PostgresSource reads menu rows from the menu_rows table, a plain mirror of
// the sheet where every cell is nullable text.
type PostgresSource struct {
	db     *pgxpool.Pool
	schema Schema
}

func NewPostgresSource(db *pgxpool.Pool, schema Schema) *PostgresSource {
	return &PostgresSource{db: db, schema: schema}
}

// --------------------------------------------------
// FETCH ROWS (SHEET ORDER)
// --------------------------------------------------
func (s *PostgresSource) FetchRows(ctx context.Context) ([]Row, error) {
	rows, err := s.db.Query(ctx, `
		SELECT category, item_name, price, available
		FROM menu_rows
		ORDER BY position
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query menu_rows")
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var category, item, price, available *string
		if err := rows.Scan(&category, &item, &price, &available); err != nil {
			return nil, errors.Wrap(err, "scan menu row")
		}

		row := Row{}
		setCell(row, s.schema.CategoryColumn, category)
		setCell(row, s.schema.ItemColumn, item)
		setCell(row, s.schema.PriceColumn, price)
		setCell(row, s.schema.AvailableColumn, available)
		out = append(out, row)
	}

	return out, errors.Wrap(rows.Err(), "read menu_rows")
}

// ReplaceRows swaps the whole sheet mirror in one transaction.
func (s *PostgresSource) ReplaceRows(ctx context.Context, rows []Row) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM menu_rows`); err != nil {
		return errors.Wrap(err, "clear menu_rows")
	}

	for i, row := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO menu_rows (position, category, item_name, price, available)
			VALUES ($1, $2, $3, $4, $5)
		`,
			i,
			nullableCell(row, s.schema.CategoryColumn),
			nullableCell(row, s.schema.ItemColumn),
			nullableCell(row, s.schema.PriceColumn),
			nullableCell(row, s.schema.AvailableColumn),
		)
		if err != nil {
			return errors.Wrapf(err, "insert menu row %d", i)
		}
	}

	return errors.Wrap(tx.Commit(ctx), "commit")
}

func setCell(row Row, column string, v *string) {
	if v != nil {
		row[column] = *v
	}
}

func nullableCell(row Row, column string) *string {
	if _, ok := row.Get(column); !ok {
		return nil
	}
	s := cellString(row, column)
	return &s
}

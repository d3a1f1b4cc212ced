package menu

import (
	"fmt"
	"strings"
)

type itemKey struct {
	category string
	name     string
}

// BuildCatalog turns raw sheet rows into a Catalog.
//
// Rows are processed in order. A row needs a category and an item name and
// must be marked available ("yes" or "y", any case) to end up in the catalog.
// When the same (category, item) appears more than once the last row decides
// both price and availability; the item keeps the position of its first row.
// Unreadable prices become UnknownPrice. Per-row problems are returned as
// warnings; only an unrecognizable source shape is an error.
func BuildCatalog(rows []Row, schema Schema) (*Catalog, []RowWarning, error) {
	if err := schema.Validate(); err != nil {
		return nil, nil, err
	}
	if len(rows) > 0 && !schema.recognizes(rows) {
		return nil, nil, configErrorf(
			"no row has a %q or %q column", schema.CategoryColumn, schema.ItemColumn,
		)
	}
	if col, i, ok := schema.ambiguous(rows); ok {
		return nil, nil, configErrorf("row %d has more than one header matching %q", i, col)
	}

	var (
		order    []itemKey
		latest   = make(map[itemKey]Item, len(rows))
		warnings []RowWarning
	)

	for i, row := range rows {
		categoryName := strings.TrimSpace(cellString(row, schema.CategoryColumn))
		name := strings.TrimSpace(cellString(row, schema.ItemColumn))
		if categoryName == "" || name == "" {
			warnings = append(warnings, RowWarning{
				Row:      i,
				Category: categoryName,
				Item:     name,
				Reason:   ReasonMissingField,
			})
			continue
		}

		available := parseAvailable(row, schema.AvailableColumn)

		priceCell, _ := row.Get(schema.PriceColumn)
		price, err := ParsePrice(priceCell, schema.CurrencyMarkers)
		if err != nil && available {
			warnings = append(warnings, RowWarning{
				Row:      i,
				Category: categoryName,
				Item:     name,
				Reason:   ReasonBadPrice,
				Detail:   err.Error(),
			})
		}
		if !available {
			warnings = append(warnings, RowWarning{
				Row:      i,
				Category: categoryName,
				Item:     name,
				Reason:   ReasonUnavailable,
			})
		}

		key := itemKey{category: categoryName, name: name}
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = Item{
			Name:      name,
			Category:  categoryName,
			Price:     price,
			Available: available,
			SourceRow: i,
		}
	}

	catalog := EmptyCatalog()
	for _, key := range order {
		item := latest[key]
		if !item.Available {
			continue
		}
		catalog.add(item)
	}

	return catalog, warnings, nil
}

// DecodeRows accepts the usual in-memory shapes of a sheet dump
// (for example a decoded JSON array of objects) and returns rows.
func DecodeRows(v any) ([]Row, error) {
	switch rows := v.(type) {
	case []Row:
		return rows, nil
	case []map[string]any:
		out := make([]Row, len(rows))
		for i, r := range rows {
			out[i] = Row(r)
		}
		return out, nil
	case []any:
		out := make([]Row, len(rows))
		for i, r := range rows {
			switch m := r.(type) {
			case Row:
				out[i] = m
			case map[string]any:
				out[i] = Row(m)
			default:
				return nil, configErrorf("record %d is %T, not a key-value record", i, r)
			}
		}
		return out, nil
	case nil:
		return nil, configErrorf("no records")
	default:
		return nil, configErrorf("records are %T, not a list of key-value records", v)
	}
}

func cellString(row Row, column string) string {
	v, ok := row.Get(column)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}

func parseAvailable(row Row, column string) bool {
	v, ok := row.Get(column)
	if !ok {
		return false
	}
	if b, isBool := v.(bool); isBool {
		return b
	}
	switch strings.ToLower(strings.TrimSpace(cellString(row, column))) {
	case "yes", "y":
		return true
	}
	return false
}

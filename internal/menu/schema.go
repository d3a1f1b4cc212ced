package menu

import "strings"

// Schema names the sheet columns the catalog is read from.
type Schema struct {
	CategoryColumn  string
	ItemColumn      string
	PriceColumn     string
	AvailableColumn string

	// CurrencyMarkers are stripped from the front of price strings, first match wins.
	CurrencyMarkers []string
}

func DefaultSchema() Schema {
	return Schema{
		CategoryColumn:  "Category",
		ItemColumn:      "Item Name",
		PriceColumn:     "Price (₹)",
		AvailableColumn: "Available",
		CurrencyMarkers: []string{"₹", "Rs.", "Rs", "INR", "$"},
	}
}

// Validate checks the schema itself before any row is read.
func (s Schema) Validate() error {
	for name, col := range map[string]string{
		"category":  s.CategoryColumn,
		"item":      s.ItemColumn,
		"price":     s.PriceColumn,
		"available": s.AvailableColumn,
	} {
		if strings.TrimSpace(col) == "" {
			return configErrorf("%s column name is empty", name)
		}
	}
	return nil
}

// recognizes reports whether at least one row carries the category or item
// column. A sheet where neither column exists anywhere has the wrong shape.
func (s Schema) recognizes(rows []Row) bool {
	for _, r := range rows {
		if _, ok := r.Get(s.CategoryColumn); ok {
			return true
		}
		if _, ok := r.Get(s.ItemColumn); ok {
			return true
		}
	}
	return false
}

// ambiguous returns the first schema column that some row carries under more
// than one header differing only in case or surrounding spaces.
func (s Schema) ambiguous(rows []Row) (string, int, bool) {
	columns := []string{s.CategoryColumn, s.ItemColumn, s.PriceColumn, s.AvailableColumn}
	for i, r := range rows {
		for _, col := range columns {
			if _, exact := r[col]; exact {
				continue
			}
			if len(r.folded(col)) > 1 {
				return col, i, true
			}
		}
	}
	return "", 0, false
}

package order

// TimestampLayout is how order times are written to the order log.
const TimestampLayout = "2006-01-02 15:04:05"

// Columns is the order log header for a policy. Phone and table columns are
// present only when the form asks for them.
func Columns(p Policy) []string {
	cols := []string{"name"}
	if p.PhoneRequired {
		cols = append(cols, "phone")
	}
	if p.TableRequired {
		cols = append(cols, "table_number")
	}
	return append(cols, "timestamp", "order_summary", "total_price")
}

// RowValues renders a record in the Columns(p) layout.
func RowValues(r *OrderRecord, p Policy) []string {
	vals := []string{r.CustomerName()}
	if p.PhoneRequired {
		vals = append(vals, r.Phone())
	}
	if p.TableRequired {
		vals = append(vals, r.TableNumber())
	}
	return append(vals,
		r.PlacedAt().Format(TimestampLayout),
		r.Summary(),
		r.Total().StringFixed(2),
	)
}

package order

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(t *testing.T, p Policy) *OrderRecord {
	t.Helper()
	record, err := testAggregator(p).BuildOrder(biryaniCatalog(t), []SelectionLine{
		{Category: "Biryani", ItemName: "Chicken Biryani", Quantity: 2},
		{Category: "Beverages", ItemName: "Lassi", Quantity: 1},
	}, CustomerInfo{Name: "Asha", Phone: "9876543210", TableNumber: "T4"})
	require.NoError(t, err)
	return record
}

func TestColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"name", "timestamp", "order_summary", "total_price"},
		Columns(DefaultPolicy()))

	assert.Equal(t,
		[]string{"name", "phone", "table_number", "timestamp", "order_summary", "total_price"},
		Columns(Policy{PhoneRequired: true, TableRequired: true}))
}

func TestRowValues(t *testing.T) {
	p := Policy{TableRequired: true, MaxPerItem: 10}
	record := sampleRecord(t, p)

	assert.Equal(t,
		[]string{"Asha", "T4", "2025-03-14 19:30:00", "Chicken Biryani(2), Lassi(1)", "560.00"},
		RowValues(record, p))
	assert.Len(t, RowValues(record, p), len(Columns(p)))
}

func TestCSVSink(t *testing.T) {
	p := Policy{PhoneRequired: true, MaxPerItem: 10}
	path := filepath.Join(t.TempDir(), "orders.csv")
	sink := NewCSVSink(path, p)
	record := sampleRecord(t, p)

	require.NoError(t, sink.Append(context.Background(), record, ""))
	require.NoError(t, sink.Append(context.Background(), record, "key-1"))
	assert.True(t, errors.Is(sink.Append(context.Background(), record, "key-1"), ErrDuplicateOrder))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	lines, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, lines, 3, "header plus two orders")
	assert.Equal(t, Columns(p), lines[0])
	assert.Equal(t, "9876543210", lines[1][1])
}

func TestCSVSink_UnwritablePath(t *testing.T) {
	sink := NewCSVSink(filepath.Join(t.TempDir(), "missing", "orders.csv"), DefaultPolicy())
	err := sink.Append(context.Background(), sampleRecord(t, DefaultPolicy()), "")
	assert.Error(t, err)
}

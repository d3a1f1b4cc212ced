package order

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablebook/internal/menu"
)

var fixedTime = time.Date(2025, 3, 14, 19, 30, 0, 0, time.UTC)

func testCatalog(t *testing.T, rows ...menu.Row) *menu.Catalog {
	t.Helper()
	catalog, _, err := menu.BuildCatalog(rows, menu.DefaultSchema())
	require.NoError(t, err)
	return catalog
}

func menuRow(category, item, price string) menu.Row {
	return menu.Row{"Category": category, "Item Name": item, "Price (₹)": price, "Available": "yes"}
}

func testAggregator(p Policy) *Aggregator {
	a := NewAggregator(p)
	a.now = func() time.Time { return fixedTime }
	a.newID = func() uuid.UUID { return uuid.MustParse("6f1c5d2e-8a44-4c1b-9b6f-2f0e6f3a9c11") }
	return a
}

func biryaniCatalog(t *testing.T) *menu.Catalog {
	return testCatalog(t,
		menuRow("Biryani", "Chicken Biryani", "250"),
		menuRow("Biryani", "Mutton Biryani", "₹349.50"),
		menuRow("Beverages", "Lassi", "₹ 60"),
		menuRow("Beverages", "Masala Chai", "not set"),
	)
}

func TestBuildOrder_ChickenBiryani(t *testing.T) {
	a := testAggregator(DefaultPolicy())
	catalog := testCatalog(t, menuRow("Biryani", "Chicken Biryani", "250"))

	record, err := a.BuildOrder(catalog,
		[]SelectionLine{{ItemName: "Chicken Biryani", Quantity: 2}},
		CustomerInfo{Name: "Asha"},
	)
	require.NoError(t, err)

	assert.True(t, record.Total().Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "Chicken Biryani(2)", record.Summary())
	assert.Equal(t, fixedTime, record.PlacedAt())
	assert.Equal(t, "Asha", record.CustomerName())
}

func TestBuildOrder_ExactDecimalTotal(t *testing.T) {
	a := testAggregator(DefaultPolicy())
	catalog := testCatalog(t,
		menuRow("Beverages", "Soda", "0.10"),
		menuRow("Beverages", "Tonic", "0.20"),
	)

	record, err := a.BuildOrder(catalog, []SelectionLine{
		{Category: "Beverages", ItemName: "Soda", Quantity: 3},
		{Category: "Beverages", ItemName: "Tonic", Quantity: 1},
	}, CustomerInfo{Name: "Ravi"})
	require.NoError(t, err)

	assert.Equal(t, "0.50", record.Total().StringFixed(2))
	assert.True(t, record.Total().Equal(decimal.RequireFromString("0.5")))
}

func TestBuildOrder_LinesAndSummaryFollowSelectionOrder(t *testing.T) {
	a := testAggregator(DefaultPolicy())

	record, err := a.BuildOrder(biryaniCatalog(t), []SelectionLine{
		{Category: "Beverages", ItemName: "Lassi", Quantity: 2},
		{Category: "Biryani", ItemName: "Mutton Biryani", Quantity: 1},
		{Category: "Biryani", ItemName: "Chicken Biryani", Quantity: 0},
	}, CustomerInfo{Name: "Meera"})
	require.NoError(t, err)

	assert.Equal(t, "Lassi(2), Mutton Biryani(1)", record.Summary())
	lines := record.Lines()
	require.Len(t, lines, 2)
	assert.True(t, lines[0].LineTotal.Equal(decimal.NewFromInt(120)))
	assert.True(t, lines[1].UnitPrice.Equal(decimal.RequireFromString("349.5")))
	assert.True(t, record.Total().Equal(decimal.RequireFromString("469.5")))

	lines[0].Quantity = 99
	assert.Equal(t, 2, record.Lines()[0].Quantity, "Lines returns a copy")
}

func TestBuildOrder_LaterSelectionReplacesEarlier(t *testing.T) {
	a := testAggregator(DefaultPolicy())

	record, err := a.BuildOrder(biryaniCatalog(t), []SelectionLine{
		{Category: "Biryani", ItemName: "Chicken Biryani", Quantity: 1},
		{Category: "Beverages", ItemName: "Lassi", Quantity: 1},
		{Category: "Biryani", ItemName: " Chicken Biryani ", Quantity: 3},
	}, CustomerInfo{Name: "Meera"})
	require.NoError(t, err)

	assert.Equal(t, "Chicken Biryani(3), Lassi(1)", record.Summary())
}

func TestBuildOrder_ValidationOrder(t *testing.T) {
	strict := Policy{PhoneRequired: true, TableRequired: true, MaxPerItem: 10}
	valid := []SelectionLine{{Category: "Biryani", ItemName: "Chicken Biryani", Quantity: 1}}

	tests := []struct {
		name       string
		policy     Policy
		customer   CustomerInfo
		selections []SelectionLine
		want       Kind
	}{
		{
			name:     "empty name wins over everything",
			policy:   strict,
			customer: CustomerInfo{Name: "   ", Phone: "12", TableNumber: ""},
			want:     MissingName,
		},
		{
			name:       "short phone when required",
			policy:     strict,
			customer:   CustomerInfo{Name: "Asha", Phone: "12345", TableNumber: "4"},
			selections: valid,
			want:       InvalidPhone,
		},
		{
			name:       "missing phone when required",
			policy:     strict,
			customer:   CustomerInfo{Name: "Asha", TableNumber: "4"},
			selections: valid,
			want:       InvalidPhone,
		},
		{
			name:       "letters in optional phone",
			policy:     DefaultPolicy(),
			customer:   CustomerInfo{Name: "Asha", Phone: "98765abcde"},
			selections: valid,
			want:       InvalidPhone,
		},
		{
			name:     "phone checked before table",
			policy:   strict,
			customer: CustomerInfo{Name: "Asha", Phone: "123"},
			want:     InvalidPhone,
		},
		{
			name:       "missing table when required",
			policy:     strict,
			customer:   CustomerInfo{Name: "Asha", Phone: "9876543210", TableNumber: "  "},
			selections: valid,
			want:       MissingTable,
		},
		{
			name:     "no selections",
			policy:   strict,
			customer: CustomerInfo{Name: "Asha", Phone: "9876543210", TableNumber: "4"},
			want:     EmptyOrUnresolvableSelection,
		},
		{
			name:       "only zero quantities",
			policy:     DefaultPolicy(),
			customer:   CustomerInfo{Name: "Asha"},
			selections: []SelectionLine{{ItemName: "Lassi", Quantity: 0}, {ItemName: "Lassi", Quantity: -2}},
			want:       EmptyOrUnresolvableSelection,
		},
		{
			name:       "unknown item",
			policy:     DefaultPolicy(),
			customer:   CustomerInfo{Name: "Asha"},
			selections: []SelectionLine{{ItemName: "Pav Bhaji", Quantity: 1}},
			want:       EmptyOrUnresolvableSelection,
		},
		{
			name:       "wrong category",
			policy:     DefaultPolicy(),
			customer:   CustomerInfo{Name: "Asha"},
			selections: []SelectionLine{{Category: "Desserts", ItemName: "Lassi", Quantity: 1}},
			want:       EmptyOrUnresolvableSelection,
		},
		{
			name:       "unpriced item",
			policy:     DefaultPolicy(),
			customer:   CustomerInfo{Name: "Asha"},
			selections: []SelectionLine{{ItemName: "Masala Chai", Quantity: 1}},
			want:       EmptyOrUnresolvableSelection,
		},
		{
			name:       "too many of one item",
			policy:     DefaultPolicy(),
			customer:   CustomerInfo{Name: "Asha"},
			selections: []SelectionLine{{ItemName: "Lassi", Quantity: 11}},
			want:       InvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := testAggregator(tt.policy).BuildOrder(biryaniCatalog(t), tt.selections, tt.customer)
			require.Error(t, err)
			assert.Nil(t, record)
			assert.True(t, IsKind(err, tt.want), "got %v", err)
		})
	}
}

func TestBuildOrder_ValidPhonePasses(t *testing.T) {
	a := testAggregator(Policy{PhoneRequired: true, MaxPerItem: 10})

	record, err := a.BuildOrder(biryaniCatalog(t),
		[]SelectionLine{{ItemName: "Lassi", Quantity: 1}},
		CustomerInfo{Name: "Asha", Phone: " 9876543210 "},
	)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", record.Phone())
}

func TestBuildOrder_AmbiguousNameOnlySelection(t *testing.T) {
	a := testAggregator(DefaultPolicy())
	catalog := testCatalog(t,
		menuRow("Chinese", "Fried Rice", "150"),
		menuRow("Fried Rice", "Fried Rice", "140"),
	)

	_, err := a.BuildOrder(catalog,
		[]SelectionLine{{ItemName: "Fried Rice", Quantity: 1}},
		CustomerInfo{Name: "Asha"},
	)
	assert.True(t, IsKind(err, EmptyOrUnresolvableSelection))

	record, err := a.BuildOrder(catalog,
		[]SelectionLine{{Category: "Fried Rice", ItemName: "Fried Rice", Quantity: 1}},
		CustomerInfo{Name: "Asha"},
	)
	require.NoError(t, err)
	assert.True(t, record.Total().Equal(decimal.NewFromInt(140)))
}

func TestBuildOrder_UsesPriceAtBuildTime(t *testing.T) {
	a := testAggregator(DefaultPolicy())
	selections := []SelectionLine{{Category: "Biryani", ItemName: "Chicken Biryani", Quantity: 2}}

	before := testCatalog(t, menuRow("Biryani", "Chicken Biryani", "250"))
	after := testCatalog(t, menuRow("Biryani", "Chicken Biryani", "275"))

	r1, err := a.BuildOrder(before, selections, CustomerInfo{Name: "Asha"})
	require.NoError(t, err)
	r2, err := a.BuildOrder(after, selections, CustomerInfo{Name: "Asha"})
	require.NoError(t, err)

	assert.True(t, r1.Total().Equal(decimal.NewFromInt(500)))
	assert.True(t, r2.Total().Equal(decimal.NewFromInt(550)))
}

func TestBuildOrder_NilCatalog(t *testing.T) {
	_, err := testAggregator(DefaultPolicy()).BuildOrder(nil,
		[]SelectionLine{{ItemName: "Lassi", Quantity: 1}},
		CustomerInfo{Name: "Asha"},
	)
	assert.True(t, IsKind(err, EmptyOrUnresolvableSelection))
}

func TestNewAggregator_DefaultsMaxPerItem(t *testing.T) {
	assert.Equal(t, DefaultMaxPerItem, NewAggregator(Policy{}).Policy().MaxPerItem)
}

func TestBuildOrder_NameOnlyAndCategoryLinesMerge(t *testing.T) {
	a := testAggregator(DefaultPolicy())

	record, err := a.BuildOrder(biryaniCatalog(t), []SelectionLine{
		{ItemName: "Chicken Biryani", Quantity: 10},
		{Category: "Beverages", ItemName: "Lassi", Quantity: 1},
		{Category: "Biryani", ItemName: "Chicken Biryani", Quantity: 4},
	}, CustomerInfo{Name: "Meera"})
	require.NoError(t, err)

	assert.Equal(t, "Chicken Biryani(4), Lassi(1)", record.Summary())
	assert.Len(t, record.Lines(), 2)
	assert.True(t, record.Total().Equal(decimal.NewFromInt(1060)))
}

func TestBuildOrder_MergedLinesCannotExceedMaxPerItem(t *testing.T) {
	a := testAggregator(DefaultPolicy())

	record, err := a.BuildOrder(biryaniCatalog(t), []SelectionLine{
		{ItemName: "Chicken Biryani", Quantity: 10},
		{Category: "Biryani", ItemName: "Chicken Biryani", Quantity: 10},
	}, CustomerInfo{Name: "Meera"})
	require.NoError(t, err)
	assert.Equal(t, "Chicken Biryani(10)", record.Summary())

	_, err = a.BuildOrder(biryaniCatalog(t), []SelectionLine{
		{ItemName: "Chicken Biryani", Quantity: 3},
		{Category: "Biryani", ItemName: "Chicken Biryani", Quantity: 11},
	}, CustomerInfo{Name: "Meera"})
	assert.True(t, IsKind(err, InvalidQuantity), "got %v", err)
}

func TestBuildOrder_ZeroQuantityRemovesEarlierLine(t *testing.T) {
	a := testAggregator(DefaultPolicy())

	record, err := a.BuildOrder(biryaniCatalog(t), []SelectionLine{
		{Category: "Biryani", ItemName: "Chicken Biryani", Quantity: 2},
		{ItemName: "Lassi", Quantity: 1},
		{ItemName: "Chicken Biryani", Quantity: 0},
		{ItemName: "Pav Bhaji", Quantity: 0},
	}, CustomerInfo{Name: "Meera"})
	require.NoError(t, err)
	assert.Equal(t, "Lassi(1)", record.Summary())
}

package menu

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice_Strings(t *testing.T) {
	markers := DefaultSchema().CurrencyMarkers

	tests := []struct {
		in   string
		want string
	}{
		{"₹1,234.50", "1234.50"},
		{"1234.5", "1234.5"},
		{"  ₹ 99 ", "99"},
		{"Rs. 250", "250"},
		{"rs 40", "40"},
		{"$1,000,000", "1000000"},
		{"0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePrice(tt.in, markers)
			require.NoError(t, err)

			amount, ok := p.Amount()
			require.True(t, ok)
			assert.True(t, amount.Equal(decimal.RequireFromString(tt.want)), "got %s", amount)
		})
	}
}

func TestParsePrice_Unknown(t *testing.T) {
	markers := DefaultSchema().CurrencyMarkers

	for _, in := range []any{
		"abc", "", "   ", "₹", "-10", "12.3.4", nil, math.NaN(), true,
		"1e50000000", "₹2E3", "1e-5", "0x10", "+5", json.Number("1e400"),
		"1000000000", "0.000000001", 1e300, decimal.New(1, 50000000), decimal.New(1, -50000000),
	} {
		p, err := ParsePrice(in, markers)
		assert.Error(t, err, "input %#v", in)
		assert.False(t, p.IsKnown(), "input %#v", in)
		assert.True(t, p.Equal(UnknownPrice))
	}
}

func TestParsePrice_Numbers(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{250, "250"},
		{int64(99), "99"},
		{1234.5, "1234.5"},
		{json.Number("12.75"), "12.75"},
		{decimal.NewFromInt(7), "7"},
	}

	for _, tt := range tests {
		p, err := ParsePrice(tt.in, nil)
		require.NoError(t, err)
		amount, _ := p.Amount()
		assert.True(t, amount.Equal(decimal.RequireFromString(tt.want)))
	}
}

func TestPriceZeroValueIsUnknown(t *testing.T) {
	var p Price
	assert.False(t, p.IsKnown())
	assert.Equal(t, "Not Available", p.String())
	assert.False(t, p.Equal(KnownPrice(decimal.Zero)))
}

func TestPriceJSON(t *testing.T) {
	known, err := json.Marshal(KnownPrice(decimal.RequireFromString("1234.5")))
	require.NoError(t, err)
	assert.Equal(t, `"1234.50"`, string(known))

	unknown, err := json.Marshal(UnknownPrice)
	require.NoError(t, err)
	assert.Equal(t, `null`, string(unknown))
}

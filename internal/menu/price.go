package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	errPriceMissing    = errors.New("price missing")
	errPriceNegative   = errors.New("price is negative")
	errPriceTooLarge   = errors.New("price is implausibly large")
	errPriceTooPrecise = errors.New("price has too many decimal places")
)

// plainDecimal is the only notation accepted in a price cell: no exponents.
var plainDecimal = regexp.MustCompile(`^-?(\d+(\.\d*)?|\.\d+)$`)

const (
	// maxPriceDigits bounds the integer part of a price (below 1,000,000,000).
	maxPriceDigits = 9
	// maxPriceScale bounds the fractional digits of a price.
	maxPriceScale = 8
)

// Price is either a known non-negative amount or Unknown.
// The zero value is Unknown, so an unparsed price can never be ordered at 0.
type Price struct {
	amount decimal.Decimal
	known  bool
}

// UnknownPrice marks a price that could not be read from the sheet.
var UnknownPrice = Price{}

// KnownPrice wraps a parsed amount.
func KnownPrice(amount decimal.Decimal) Price {
	return Price{amount: amount, known: true}
}

func (p Price) IsKnown() bool {
	return p.known
}

// Amount returns the amount and whether the price is known.
func (p Price) Amount() (decimal.Decimal, bool) {
	return p.amount, p.known
}

func (p Price) Equal(other Price) bool {
	if p.known != other.known {
		return false
	}
	return !p.known || p.amount.Equal(other.amount)
}

func (p Price) String() string {
	if !p.known {
		return "Not Available"
	}
	return p.amount.StringFixed(2)
}

// MarshalJSON writes known prices as decimal strings and unknown ones as null.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.known {
		return []byte("null"), nil
	}
	return json.Marshal(p.amount.StringFixed(2))
}

// ParsePrice reads a loosely typed price cell. Strings may carry one leading
// currency marker and thousands separators ("₹1,234.50"). Anything that does
// not yield a non-negative decimal comes back as UnknownPrice with the reason.
func ParsePrice(cell any, markers []string) (Price, error) {
	switch v := cell.(type) {
	case nil:
		return UnknownPrice, errPriceMissing
	case decimal.Decimal:
		return checkNonNegative(v)
	case int:
		return checkNonNegative(decimal.NewFromInt(int64(v)))
	case int32:
		return checkNonNegative(decimal.NewFromInt32(v))
	case int64:
		return checkNonNegative(decimal.NewFromInt(v))
	case float32:
		return parseFloat(float64(v))
	case float64:
		return parseFloat(v)
	case json.Number:
		return parsePriceString(v.String(), markers)
	case string:
		return parsePriceString(v, markers)
	case []byte:
		return parsePriceString(string(v), markers)
	default:
		return UnknownPrice, fmt.Errorf("unsupported price cell type %T", cell)
	}
}

func parseFloat(f float64) (Price, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return UnknownPrice, fmt.Errorf("price %v is not a finite number", f)
	}
	return checkNonNegative(decimal.NewFromFloat(f).Round(maxPriceScale))
}

func parsePriceString(raw string, markers []string) (Price, error) {
	s := stripCurrency(strings.TrimSpace(raw), markers)
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return UnknownPrice, errPriceMissing
	}

	if !plainDecimal.MatchString(s) {
		return UnknownPrice, fmt.Errorf("price %q is not a number", raw)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return UnknownPrice, fmt.Errorf("price %q is not a number", raw)
	}
	return checkNonNegative(amount)
}

// stripCurrency removes the first matching marker from the front of s.
// Markers are tried in order, so "Rs." must come before "Rs".
func stripCurrency(s string, markers []string) string {
	for _, m := range markers {
		if m == "" || len(s) < len(m) {
			continue
		}
		if strings.EqualFold(s[:len(m)], m) {
			return s[len(m):]
		}
	}
	return s
}

func checkNonNegative(amount decimal.Decimal) (Price, error) {
	if amount.IsNegative() {
		return UnknownPrice, errPriceNegative
	}
	// Digit counts only; a comparison would expand huge exponents.
	if amount.Exponent() < -maxPriceScale {
		return UnknownPrice, errPriceTooPrecise
	}
	if !amount.IsZero() && amount.NumDigits()+int(amount.Exponent()) > maxPriceDigits {
		return UnknownPrice, errPriceTooLarge
	}
	return KnownPrice(amount), nil
}

package fiadvisor

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of every amount served by the Fi backend.
const DefaultCurrency = money.INR

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// INR is a shortcut for M(value, "INR").
func INR[T float64 | int | int64 | decimal.Decimal](value T) Money { return M(value, DefaultCurrency) }

func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value, e.g. "₹43,391.16".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// Whole formats the amount rounded to the major unit, e.g. "₹710,105".
func (m Money) Whole() string {
	cur := m.currency()
	f := money.NewFormatter(0, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(m.Units())
}

func (m Money) Currency() string            { return m.cur }
func (m Money) Decimal() decimal.Decimal    { return m.value }
func (m Money) IsZero() bool                { return m.value.IsZero() }
func (m Money) IsNegative() bool            { return m.value.IsNegative() }
func (m Money) Equal(n Money) bool          { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) GreaterThan(n Money) bool    { return m.value.GreaterThan(n.value) }
func (m Money) Mul(d decimal.Decimal) Money { return Money{value: m.value.Mul(d), cur: m.cur} }

// Units returns the amount rounded to the major unit, like the Fi backend "units" field.
func (m Money) Units() int64 { return m.value.Round(0).IntPart() }

// Round returns the money rounded to the currency fraction.
func (m Money) Round() Money {
	return Money{value: m.value.Round(int32(m.currency().Fraction)), cur: m.cur}
}

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// AsFloat is only meant for tolerance checks and display, calculations stay in decimal.
func (m Money) AsFloat() float64 { return m.value.InexactFloat64() }

func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currencyCode", m.cur)
	w.Append("units", m.Round().value.String())
	return w.MarshalJSON()
}

// UnmarshalJSON reads the Fi money shape: {"currencyCode":"INR","units":"2500","nanos":500000000}.
// units may be a string or a number, nanos is optional.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		CurrencyCode string          `json:"currencyCode"`
		Units        json.RawMessage `json:"units"`
		Nanos        int64           `json:"nanos"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid money %s: %w", data, err)
	}
	units, err := parseUnits(raw.Units)
	if err != nil {
		return fmt.Errorf("invalid money units %s: %w", raw.Units, err)
	}
	if raw.CurrencyCode == "" {
		raw.CurrencyCode = DefaultCurrency
	}
	m.cur = raw.CurrencyCode
	m.value = units.Add(decimal.New(raw.Nanos, -9))
	return nil
}

func parseUnits(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return decimal.Zero, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return decimal.NewFromString(s)
	}
	return decimal.NewFromString(string(raw))
}

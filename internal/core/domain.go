package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Value is one raw JSON value taken from an input document. The zero
	// Value means the field was absent.
	Value struct {
		raw json.RawMessage
	}

	// Catalog maps a product name to its unit price.
	Catalog map[string]Value

	SaleEntry struct {
		Product  Value
		Quantity Value
		Raw      json.RawMessage // the whole entry as read, for error messages
	}

	// Result is the outcome of one aggregation.
	Result struct {
		Total   decimal.Decimal
		Errors  []string
		Priced  int // entries that contributed to Total
		Records int
	}

	// RunSummary describes one completed run of the program.
	RunSummary struct {
		RanAt       time.Time
		CatalogPath string
		SalesPath   string
		Total       decimal.Decimal
		Elapsed     time.Duration
		Records     int
		Priced      int
		Errors      []string
	}
)

// maxExponent bounds the decimal exponent accepted from input numbers. Larger
// magnitudes would overflow multiplication or render unbounded output.
const maxExponent = 1000

var (
	ErrNotObject     = errors.New("entry is not a JSON object")
	ErrInvalidAmount = errors.New("invalid amount")
)

// NewValue wraps raw JSON. An empty raw slice is an absent value.
func NewValue(raw json.RawMessage) Value {
	return Value{raw: bytes.TrimSpace(raw)}
}

// IsNull reports whether the value is absent or JSON null.
func (v Value) IsNull() bool {
	return len(v.raw) == 0 || bytes.Equal(v.raw, []byte("null"))
}

// String returns the value as a string when it is a JSON string.
func (v Value) String() (string, bool) {
	if len(v.raw) == 0 || v.raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Decimal returns the value as an exact decimal when it is a JSON number
// whose exponent lies within ±maxExponent. Booleans, strings and containers
// are not numbers.
func (v Value) Decimal() (decimal.Decimal, bool) {
	if len(v.raw) == 0 {
		return decimal.Zero, false
	}
	if c := v.raw[0]; c != '-' && (c < '0' || c > '9') {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(string(v.raw))
	if err != nil {
		return decimal.Zero, false
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return decimal.Zero, false
	}
	return d, true
}

// Scalar returns the display text of a number or boolean value, as it is
// shown in error messages.
func (v Value) Scalar() (string, bool) {
	if len(v.raw) == 0 {
		return "", false
	}
	switch c := v.raw[0]; {
	case c == '-' || (c >= '0' && c <= '9'), c == 't', c == 'f':
		return FormatEntry(v.raw), true
	default:
		return "", false
	}
}

// Raw returns the JSON text of the value.
func (v Value) Raw() json.RawMessage {
	return v.raw
}

// ParseSaleEntry splits one element of the sales document into its fields.
// Non-object elements are returned with ErrNotObject and an entry holding
// only Raw, which the aggregator reports as invalid.
func ParseSaleEntry(raw json.RawMessage) (SaleEntry, error) {
	raw = bytes.TrimSpace(raw)
	entry := SaleEntry{Raw: raw}
	if len(raw) == 0 || raw[0] != '{' {
		return entry, ErrNotObject
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return entry, err
	}
	entry.Product = NewValue(fields["product"])
	entry.Quantity = NewValue(fields["quantity"])
	return entry, nil
}

// ErrorCount returns the number of per-record errors of the run.
func (s RunSummary) ErrorCount() int {
	return len(s.Errors)
}

package types

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money value. It encodes as a bare JSON number and decodes
// leniently: numbers and numeric strings are accepted, anything else reads
// as zero.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount { return Amount{Decimal: d} }

func AmountFromInt(v int64) Amount { return Amount{Decimal: decimal.NewFromInt(v)} }

func AmountFromFloat(v float64) Amount { return Amount{Decimal: decimal.NewFromFloat(v)} }

// ParseAmount parses a decimal string, returning zero when it is not numeric.
func ParseAmount(value string) Amount {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Amount{}
	}
	return Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Decimal = decimal.Zero
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		*a = ParseAmount(s)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

// Times multiplies the amount by an integer quantity.
func (a Amount) Times(qty int) Amount {
	return Amount{Decimal: a.Decimal.Mul(decimal.NewFromInt(int64(qty)))}
}

func (a Amount) Plus(b Amount) Amount {
	return Amount{Decimal: a.Decimal.Add(b.Decimal)}
}

// Rounded rounds to two places for display and persistence.
func (a Amount) Rounded() Amount {
	return Amount{Decimal: a.Decimal.Round(2)}
}

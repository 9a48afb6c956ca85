package types

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshalLenient(t *testing.T) {
	cases := map[string]string{
		`500`:        "500",
		`499.99`:     "499.99",
		`"1299.50"`:  "1299.5",
		`"  42 "`:    "42",
		`"free"`:     "0",
		`null`:       "0",
		`true`:       "0",
		`{"x":1}`:    "0",
		`"1e3"`:      "1000",
		`-12.5`:      "-12.5",
		`""`:         "0",
		`"12,000.5"`: "0",
	}
	for raw, want := range cases {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(raw), &a), raw)
		assert.True(t, a.Equal(decimal.RequireFromString(want)), "input %s decoded to %s", raw, a.String())
	}
}

func TestAmountMarshalsAsNumber(t *testing.T) {
	payload := struct {
		Price Amount `json:"price"`
	}{Price: ParseAmount("1299.50")}

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":1299.5}`, string(out))
}

func TestAmountArithmetic(t *testing.T) {
	price := AmountFromInt(500)
	assert.True(t, price.Times(2).Equal(decimal.NewFromInt(1000)))
	assert.True(t, price.Plus(AmountFromInt(50)).Equal(decimal.NewFromInt(550)))
	assert.Equal(t, "10.13", ParseAmount("10.125").Rounded().String())
}

package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money value that tolerates the loosely typed totals the storefront
// has written over time: JSON numbers, numeric strings and null all decode, and
// anything unparsable decodes as zero instead of failing the whole collection.
type Amount struct {
	decimal.Decimal
}

func NewAmount(value float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(value)}
}

// ParseAmount coerces a form or JSON value into an Amount. Non-numeric input
// becomes zero.
func ParseAmount(value any) Amount {
	switch typed := value.(type) {
	case nil:
		return Amount{}
	case Amount:
		return typed
	case float64:
		return NewAmount(typed)
	case float32:
		return NewAmount(float64(typed))
	case int:
		return Amount{Decimal: decimal.NewFromInt(int64(typed))}
	case int64:
		return Amount{Decimal: decimal.NewFromInt(typed)}
	case json.Number:
		return parseAmountString(typed.String())
	case string:
		return parseAmountString(typed)
	default:
		return Amount{}
	}
}

func parseAmountString(raw string) Amount {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Amount{}
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Amount{}
	}
	return Amount{Decimal: parsed}
}

func (a Amount) Float64() float64 {
	f, _ := a.Decimal.Float64()
	return f
}

// Display renders the amount with two decimals, e.g. "12.50".
func (a Amount) Display() string {
	return a.Decimal.StringFixed(2)
}

// MarshalJSON always writes a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = Amount{}
		return nil
	}

	if trimmed[0] == '"' {
		unquoted, err := strconv.Unquote(string(trimmed))
		if err != nil {
			*a = Amount{}
			return nil
		}
		*a = parseAmountString(unquoted)
		return nil
	}

	*a = parseAmountString(string(trimmed))
	return nil
}

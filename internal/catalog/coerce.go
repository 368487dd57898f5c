package catalog

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// coercePrice reads a price from a form or JSON value. ok is false when the
// value is not numeric. Negative prices clamp to zero.
func coercePrice(value any) (models.Amount, bool) {
	var d decimal.Decimal
	switch typed := value.(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return models.Amount{}, false
		}
		d = decimal.NewFromFloat(typed)
	case int:
		d = decimal.NewFromInt(int64(typed))
	case int64:
		d = decimal.NewFromInt(typed)
	case json.Number:
		return coercePrice(typed.String())
	case string:
		parsed, err := decimal.NewFromString(leadingNumber(typed, true))
		if err != nil {
			return models.Amount{}, false
		}
		d = parsed
	case models.Amount:
		d = typed.Decimal
	default:
		return models.Amount{}, false
	}
	if d.IsNegative() {
		d = decimal.Zero
	}
	return models.Amount{Decimal: d}, true
}

// coerceStock reads a stock count, dropping any fractional part. ok is false
// when the value is not numeric. Negative counts clamp to zero.
func coerceStock(value any) (int, bool) {
	var n int
	switch typed := value.(type) {
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return 0, false
		}
		n = int(typed)
	case int:
		n = typed
	case int64:
		n = int(typed)
	case json.Number:
		return coerceStock(typed.String())
	case string:
		parsed, err := strconv.Atoi(leadingNumber(typed, false))
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	return max(n, 0), true
}

// leadingNumber returns the numeric prefix of raw the way a lenient form
// parser reads it: "12.50 USD" gives "12.50", and "7.9" gives "7" when
// fractions are not allowed.
func leadingNumber(raw string, fraction bool) string {
	s := strings.TrimSpace(raw)
	end := 0
	seenDot := false
	for end < len(s) {
		ch := s[end]
		switch {
		case ch >= '0' && ch <= '9':
		case (ch == '-' || ch == '+') && end == 0:
		case ch == '.' && fraction && !seenDot:
			seenDot = true
		default:
			return s[:end]
		}
		end++
	}
	return s
}

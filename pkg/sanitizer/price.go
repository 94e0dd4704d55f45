package sanitizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Legacy catalog documents store price three ways: a plain number, a
// formatted string ("R 1,250.00"), or a wrapped {value: ...} object.
// NormalizePrice folds all of them into one canonical float64 and treats
// anything non-numeric as an error, never as zero.
func NormalizePrice(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, fmt.Errorf("price is missing")
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fmt.Errorf("price %q is not numeric", v.String())
		}
		return f, nil
	case string:
		return parsePriceString(v)
	case map[string]any:
		return unwrapPriceValue(v)
	case primitive.M:
		return unwrapPriceValue(map[string]any(v))
	case primitive.D:
		return unwrapPriceValue(v.Map())
	case primitive.Decimal128:
		return parsePriceString(v.String())
	default:
		return 0, fmt.Errorf("unsupported price type %T", raw)
	}
}

// parsePriceString strips currency symbols and thousands separators, e.g.
// "R 1,250.00" -> 1250.00.
func parsePriceString(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)

	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return 0, fmt.Errorf("price %q is not numeric", s)
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q is not numeric", s)
	}
	return f, nil
}

func unwrapPriceValue(m map[string]any) (float64, error) {
	inner, ok := m["value"]
	if !ok {
		return 0, fmt.Errorf("price object has no value field")
	}
	return NormalizePrice(inner)
}

// AmountInCents converts a canonical price to the gateway's smallest
// currency unit, rounding to the nearest cent.
func AmountInCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

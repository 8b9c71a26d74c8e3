// Package normalize extracts typed fields from loosely typed spreadsheet rows.
//
// Every function here is total: unknown, missing or malformed input yields the
// field's default instead of an error.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one raw row as decoded from the remote endpoint.
type Record map[string]any

// Lookup returns the first value found under keys, in order.
// Nil values and blank strings count as absent.
func Lookup(rec Record, keys []string) (any, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// String returns the first value under keys stringified and trimmed, or def.
func String(rec Record, keys []string, def string) string {
	v, ok := Lookup(rec, keys)
	if !ok {
		return def
	}
	s := strings.TrimSpace(Stringify(v))
	if s == "" {
		return def
	}
	return s
}

// Int returns the first value under keys coerced with Amount.
func Int(rec Record, keys []string) int64 {
	v, _ := Lookup(rec, keys)
	return Amount(v)
}

// Float returns the first value under keys coerced with ToFloat.
func Float(rec Record, keys []string) float64 {
	v, _ := Lookup(rec, keys)
	return ToFloat(v)
}

// Stringify renders any decoded JSON value as text. Whole floats print
// without a fractional part so numeric ids survive ("12", not "12.000000").
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Amount coerces v to a non-negative whole number.
//
// Numbers pass through (fractions truncated, sign dropped). Strings have
// every non-digit stripped before parsing, so "Rp 150.000" is 150000.
// Anything else, or an unparsable result, is 0.
func Amount(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return digits(x)
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return digits(x.String())
		}
		return wholePart(d)
	case decimal.Decimal:
		return wholePart(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return wholePart(decimal.NewFromFloat(x))
	case float32:
		return Amount(float64(x))
	case int:
		return abs(int64(x))
	case int32:
		return abs(int64(x))
	case int64:
		return abs(x)
	case uint:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0
		}
		return int64(x)
	default:
		return 0
	}
}

// ToFloat coerces v to a float64. Strings may use a comma as the decimal
// separator. Invalid input is 0.
func ToFloat(v any) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if !strings.Contains(s, ".") && strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func digits(s string) int64 {
	stripped := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if stripped == "" {
		return 0
	}
	n, err := strconv.ParseInt(stripped, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func wholePart(d decimal.Decimal) int64 {
	d = d.Abs().Truncate(0)
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0
	}
	return d.IntPart()
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Package codec holds the value coercions used by the toNumber, toBoolean
// and toDate transforms. Each helper reports ok=false instead of guessing;
// callers keep the original value in that case so the kind check fails.
package codec

import (
	"math"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// Number converts any Go numeric type or json.Number to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// ToNumber coerces numbers, numeric strings and booleans. Blank strings are
// not numbers.
func ToNumber(v any) (float64, bool) {
	if f, ok := Number(v); ok {
		return f, !math.IsNaN(f)
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// ToBoolean coerces booleans, common truthy/falsy words and numbers.
func ToBoolean(v any) (bool, bool) {
	if f, ok := Number(v); ok {
		return f != 0, true
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes", "on", "y":
			return true, true
		case "false", "0", "no", "off", "n":
			return false, true
		}
	}
	return false, false
}

// ToDate coerces time.Time, date strings (see ParseDate) and numbers read
// as Unix milliseconds.
func ToDate(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		d, err := ParseDate(strings.TrimSpace(t))
		return d, err == nil
	}
	if f, ok := Number(v); ok {
		return time.UnixMilli(int64(f)).UTC(), true
	}
	return time.Time{}, false
}

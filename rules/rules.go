package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/reoring/vskema/codec"
)

// Op defines simple comparison operators for compareField rules.
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

var opNames = [...]string{Eq: "eq", Ne: "ne", Lt: "lt", Le: "le", Gt: "gt", Ge: "ge"}

var opWords = [...]string{
	Eq: "equal to", Ne: "different from",
	Lt: "less than", Le: "at most",
	Gt: "greater than", Ge: "at least",
}

// String returns the serialized name ("eq", "lt", ...).
func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "op(" + strconv.Itoa(int(o)) + ")"
	}
	return opNames[o]
}

// ParseOp accepts the serialized names plus the usual symbols.
func ParseOp(s string) (Op, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eq", "==", "=", "":
		return Eq, true
	case "ne", "!=":
		return Ne, true
	case "lt", "<":
		return Lt, true
	case "le", "lte", "<=":
		return Le, true
	case "gt", ">":
		return Gt, true
	case "ge", "gte", ">=":
		return Ge, true
	}
	return Eq, false
}

// compare applies op to cur and want. Equality is by canonical key, so
// json.Number("1") equals int 1. Ordering is defined for numbers, strings
// and dates; mismatched kinds compare false.
func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return keyOf(cur) == keyOf(want)
	case Ne:
		return keyOf(cur) != keyOf(want)
	case Lt, Le, Gt, Ge:
		c, ok := compareOrdered(cur, want)
		if !ok {
			return false
		}
		switch op {
		case Lt:
			return c < 0
		case Le:
			return c <= 0
		case Gt:
			return c > 0
		default:
			return c >= 0
		}
	default:
		return false
	}
}

// compareOrdered returns -1, 0 or 1.
func compareOrdered(a, b any) (int, bool) {
	if x, ok := codec.Number(a); ok {
		y, ok := codec.Number(b)
		if !ok {
			return 0, false
		}
		return cmp3(x < y, x > y), true
	}
	if x, ok := a.(time.Time); ok {
		y, ok := codec.ToDate(b)
		if !ok {
			return 0, false
		}
		return cmp3(x.Before(y), x.After(y)), true
	}
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return strings.Compare(x, y), true
		}
		if y, ok := b.(time.Time); ok {
			if xd, ok := codec.ToDate(x); ok {
				return cmp3(xd.Before(y), xd.After(y)), true
			}
		}
	}
	return 0, false
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	}
	return 0
}

// keyOf renders a value as a stable key for equality and uniqueness.
// Prefer a single key type per collection: mixed types never collide, but
// that also means "1" and 1 are different keys.
func keyOf(v any) string {
	if f, ok := codec.Number(v); ok {
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return "s:" + t
	case bool:
		return "b:" + strconv.FormatBool(t)
	case time.Time:
		return "d:" + codec.FormatDate(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "x:" + fmt.Sprint(v)
	}
	return "j:" + string(b)
}

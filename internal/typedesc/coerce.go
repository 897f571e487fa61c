package typedesc

import (
	"fmt"
	"math"
)

// intRanges bounds the integer kinds.
var intRanges = map[Kind]struct{ min, max int64 }{
	Byte:  {math.MinInt8, math.MaxInt8},
	Char:  {0, math.MaxUint16},
	Short: {math.MinInt16, math.MaxInt16},
	Int:   {math.MinInt32, math.MaxInt32},
	Long:  {math.MinInt64, math.MaxInt64},
}

// Coerce converts a loosely typed value (as produced by script hosts, which
// only know float64, int64, bool and string) to the Go type of kind k.
// nil stays nil. Values that already have the right type are returned
// unchanged. Reference kinds are never converted.
//
// Integer kinds take only integral values inside their range, and float
// takes only values inside float32's finite range. Anything else is
// ErrNotAssignable.
func Coerce(v any, k Kind) (any, error) {
	if v == nil || k == Reference {
		return v, nil
	}
	d := ForKind(k)
	if d == nil || d.IsVoid() {
		return nil, nil
	}
	if d.holds(v) {
		return v, nil
	}

	switch x := v.(type) {
	case bool:
		return nil, fmt.Errorf("coerce bool to %s: %w", d.Name, ErrNotAssignable)
	case string:
		if k == Char && len([]rune(x)) == 1 {
			r := []rune(x)[0]
			if r > math.MaxUint16 {
				return nil, fmt.Errorf("coerce %q to char: %w", x, ErrNotAssignable)
			}
			return uint16(r), nil
		}
		return nil, fmt.Errorf("coerce string to %s: %w", d.Name, ErrNotAssignable)
	}

	switch k {
	case Boolean:
		f, ok := asFloat(v)
		if !ok {
			break
		}
		return f != 0, nil
	case Float:
		f, ok := asFloat(v)
		if !ok {
			break
		}
		if !math.IsInf(f, 0) && !math.IsNaN(f) && math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("coerce %v to float: out of range: %w", v, ErrNotAssignable)
		}
		return float32(f), nil
	case Double:
		f, ok := asFloat(v)
		if !ok {
			break
		}
		return f, nil
	default:
		n, ok := asInt(v)
		if !ok {
			if _, isNumber := asFloat(v); isNumber {
				return nil, fmt.Errorf("coerce %v to %s: not an integer in range: %w", v, d.Name, ErrNotAssignable)
			}
			break
		}
		r := intRanges[k]
		if n < r.min || n > r.max {
			return nil, fmt.Errorf("coerce %v to %s: out of range: %w", v, d.Name, ErrNotAssignable)
		}
		switch k {
		case Byte:
			return int8(n), nil
		case Char:
			return uint16(n), nil
		case Short:
			return int16(n), nil
		case Int:
			return int32(n), nil
		case Long:
			return n, nil
		}
	}
	return nil, fmt.Errorf("coerce %T to %s: %w", v, d.Name, ErrNotAssignable)
}

// asInt returns v as an int64 when it is an integer, or a float with no
// fractional part, that int64 can hold exactly.
func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), uint64(x) <= math.MaxInt64
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), x <= math.MaxInt64
	}
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// 2^63 is the first float64 past MaxInt64.
	if f < math.MinInt64 || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

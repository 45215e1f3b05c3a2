package database

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// field is one entry of an entity's accessor table. conv normalises a caller supplied
// value to the field's Go type, set and get read and write it on a record of the entity.
type field struct {
	column string
	text   bool // case-insensitive equality, substring search
	key    bool // part of the primary key, not writable by OpUpdate
	conv   func(v any) (any, error)
	get    func(rec any) any
	set    func(rec any, v any)
}

func (f field) asKey() field {
	f.key = true
	return f
}

func textField[T any](column string, ref func(*T) *string) field {
	f := stringField(column, ref)
	f.text = true
	return f
}

func stringField[T any](column string, ref func(*T) *string) field {
	return field{
		column: column,
		conv:   func(v any) (any, error) { return toString(v) },
		get:    func(rec any) any { return *ref(rec.(*T)) },
		set:    func(rec any, v any) { *ref(rec.(*T)) = v.(string) },
	}
}

// optionalTextField is a nullable text column. A nil value stores NULL.
func optionalTextField[T any](column string, ref func(*T) **string) field {
	return field{
		column: column,
		text:   true,
		conv: func(v any) (any, error) {
			switch s := v.(type) {
			case nil:
				return nil, nil
			case *string:
				if s == nil {
					return nil, nil
				}
				return *s, nil
			}
			return toString(v)
		},
		get: func(rec any) any { return *ref(rec.(*T)) },
		set: func(rec any, v any) {
			if v == nil {
				*ref(rec.(*T)) = nil
				return
			}
			s := v.(string)
			*ref(rec.(*T)) = &s
		},
	}
}

func uintField[T any](column string, ref func(*T) *uint) field {
	return field{
		column: column,
		conv:   func(v any) (any, error) { return toUint(v) },
		get:    func(rec any) any { return *ref(rec.(*T)) },
		set:    func(rec any, v any) { *ref(rec.(*T)) = v.(uint) },
	}
}

func intField[T any](column string, ref func(*T) *int) field {
	return field{
		column: column,
		conv:   func(v any) (any, error) { return toInt(v) },
		get:    func(rec any) any { return *ref(rec.(*T)) },
		set:    func(rec any, v any) { *ref(rec.(*T)) = v.(int) },
	}
}

func floatField[T any](column string, ref func(*T) *float64) field {
	return field{
		column: column,
		conv:   func(v any) (any, error) { return toFloat(v) },
		get:    func(rec any) any { return *ref(rec.(*T)) },
		set:    func(rec any, v any) { *ref(rec.(*T)) = v.(float64) },
	}
}

func boolField[T any](column string, ref func(*T) *bool) field {
	return field{
		column: column,
		conv: func(v any) (any, error) {
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("expected a boolean, got %T", v)
			}
			return b, nil
		},
		get: func(rec any) any { return *ref(rec.(*T)) },
		set: func(rec any, v any) { *ref(rec.(*T)) = v.(bool) },
	}
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case *string:
		if s != nil {
			return *s, nil
		}
	case []byte:
		return string(s), nil
	case fmt.Stringer:
		return s.String(), nil
	}
	return "", fmt.Errorf("expected a string, got %T", v)
}

func toUint(v any) (uint, error) {
	var n uint64
	switch x := v.(type) {
	case uint:
		n = uint64(x)
	case uint8:
		n = uint64(x)
	case uint16:
		n = uint64(x)
	case uint32:
		n = uint64(x)
	case uint64:
		n = x
	case int, int8, int16, int32, int64:
		i, _ := toInt64(x)
		if i < 0 {
			return 0, fmt.Errorf("expected a non-negative number, got %d", i)
		}
		n = uint64(i)
	case float64:
		if x < 0 || x != math.Trunc(x) {
			return 0, fmt.Errorf("expected a whole non-negative number, got %v", x)
		}
		n = uint64(x)
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
	if n > MaxID {
		return 0, fmt.Errorf("number %d is too large", n)
	}
	return uint(n), nil
}

func toInt64(v any) (int64, bool) {
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
	}
	return 0, false
}

func toInt(v any) (int, error) {
	if i, ok := toInt64(v); ok {
		return int(i), nil
	}
	switch x := v.(type) {
	case uint, uint8, uint16, uint32, uint64:
		u, err := toUint(x)
		if err != nil {
			return 0, err
		}
		return int(u), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("expected a whole number, got %v", x)
		}
		return int(x), nil
	}
	return 0, fmt.Errorf("expected a whole number, got %T", v)
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	}
	if i, ok := toInt64(v); ok {
		return float64(i), nil
	}
	if u, err := toUint(v); err == nil {
		return float64(u), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

// asList unpacks the slice types accepted as match-any filter values.
func asList(v any) ([]any, bool) {
	switch xs := v.(type) {
	case []any:
		return xs, true
	case []string:
		return spread(xs), true
	case []uint:
		return spread(xs), true
	case []uint64:
		return spread(xs), true
	case []int:
		return spread(xs), true
	case []int64:
		return spread(xs), true
	case []float64:
		return spread(xs), true
	case []bool:
		return spread(xs), true
	}
	return nil, false
}

func spread[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func sortedNames(fields Fields) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

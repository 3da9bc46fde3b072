package conv

import (
	"errors"
	"math"
	"strconv"

	js "github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"

	stagehand "github.com/browserbase/stagehand-go"
	"github.com/browserbase/stagehand-go/wire"
)

// funcs adapts plain functions to stagehand.Converter.
type funcs[T any] struct {
	coerce func(*stagehand.CoerceState, wire.Value) (T, error)
	dump   func(*stagehand.DumpState, T) (wire.Value, error)
	schema func() *js.Schema
}

func (f funcs[T]) Coerce(s *stagehand.CoerceState, v wire.Value) (T, error) { return f.coerce(s, v) }
func (f funcs[T]) Dump(s *stagehand.DumpState, v T) (wire.Value, error)     { return f.dump(s, v) }
func (f funcs[T]) JSONSchema() *js.Schema                                   { return f.schema() }

func typeSchema(t string) func() *js.Schema {
	return func() *js.Schema { return &js.Schema{Type: t} }
}

// String converts JSON strings.
func String() stagehand.Converter[string] { return StringOf[string]() }

// StringOf converts JSON strings into a named string type.
func StringOf[T ~string]() stagehand.Converter[T] {
	return funcs[T]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (T, error) {
			str, ok := v.(wire.String)
			if !ok {
				return "", s.TypeMismatch("string", wire.KindOf(v).String())
			}
			return T(str), nil
		},
		dump:   func(_ *stagehand.DumpState, v T) (wire.Value, error) { return wire.String(v), nil },
		schema: typeSchema("string"),
	}
}

// Bool converts JSON booleans.
func Bool() stagehand.Converter[bool] {
	return funcs[bool]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (bool, error) {
			b, ok := v.(wire.Bool)
			if !ok {
				return false, s.TypeMismatch("boolean", wire.KindOf(v).String())
			}
			return bool(b), nil
		},
		dump:   func(_ *stagehand.DumpState, v bool) (wire.Value, error) { return wire.Bool(v), nil },
		schema: typeSchema("boolean"),
	}
}

// Number passes JSON numbers through in their literal form.
func Number() stagehand.Converter[wire.Number] {
	return funcs[wire.Number]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (wire.Number, error) {
			n, ok := v.(wire.Number)
			if !ok {
				return "", s.TypeMismatch("number", wire.KindOf(v).String())
			}
			return n, nil
		},
		dump: func(s *stagehand.DumpState, v wire.Number) (wire.Value, error) {
			if _, err := v.Decimal(); err != nil {
				return nil, s.Fail(stagehand.CodeInvalidType, "not a JSON number: "+strconv.Quote(string(v)))
			}
			return v, nil
		},
		schema: typeSchema("number"),
	}
}

// Float converts JSON numbers to float64.
func Float() stagehand.Converter[float64] {
	return funcs[float64]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (float64, error) {
			n, ok := v.(wire.Number)
			if !ok {
				return 0, s.TypeMismatch("number", wire.KindOf(v).String())
			}
			f, err := n.Float64()
			if err != nil {
				if errors.Is(err, strconv.ErrRange) {
					return 0, s.Fail(stagehand.CodeOverflow, "", "value", string(n))
				}
				return 0, s.TypeMismatch("number", "number")
			}
			return f, nil
		},
		dump: func(s *stagehand.DumpState, v float64) (wire.Value, error) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, s.Fail(stagehand.CodeInvalidType, "NaN and Inf have no JSON form")
			}
			return wire.Float(v), nil
		},
		schema: typeSchema("number"),
	}
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// Int converts integral JSON numbers to int64. 1.0 and 1e2 are accepted,
// 1.5 is not.
func Int() stagehand.Converter[int64] {
	return funcs[int64]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (int64, error) {
			n, ok := v.(wire.Number)
			if !ok {
				return 0, s.TypeMismatch("integer", wire.KindOf(v).String())
			}
			if i, err := n.Int64(); err == nil {
				return i, nil
			}
			d, err := n.Decimal()
			if err != nil || !d.IsInteger() {
				return 0, s.TypeMismatch("integer", "number")
			}
			if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
				return 0, s.Fail(stagehand.CodeOverflow, "", "value", string(n))
			}
			return d.IntPart(), nil
		},
		dump:   func(_ *stagehand.DumpState, v int64) (wire.Value, error) { return wire.Int(v), nil },
		schema: typeSchema("integer"),
	}
}

// Decimal converts JSON numbers to arbitrary precision decimals.
func Decimal() stagehand.Converter[decimal.Decimal] {
	return funcs[decimal.Decimal]{
		coerce: func(s *stagehand.CoerceState, v wire.Value) (decimal.Decimal, error) {
			n, ok := v.(wire.Number)
			if !ok {
				return decimal.Zero, s.TypeMismatch("number", wire.KindOf(v).String())
			}
			d, err := n.Decimal()
			if err != nil {
				return decimal.Zero, s.TypeMismatch("number", "number")
			}
			return d, nil
		},
		dump:   func(_ *stagehand.DumpState, v decimal.Decimal) (wire.Value, error) { return wire.Number(v.String()), nil },
		schema: typeSchema("number"),
	}
}

// Any passes any wire value through unchanged. Missing values become Null.
func Any() stagehand.Converter[wire.Value] {
	return funcs[wire.Value]{
		coerce: func(_ *stagehand.CoerceState, v wire.Value) (wire.Value, error) {
			if v == nil {
				return wire.Null{}, nil
			}
			return v, nil
		},
		dump: func(_ *stagehand.DumpState, v wire.Value) (wire.Value, error) {
			if v == nil {
				return wire.Null{}, nil
			}
			return v, nil
		},
		schema: func() *js.Schema { return &js.Schema{} },
	}
}

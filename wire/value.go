// Package wire models untyped JSON values as a closed sum type.
//
// A Value is exactly one of Null, Bool, Number, String, List or *Object.
// Objects keep their keys in source order. Numbers keep their literal text so
// that integers beyond float64 precision survive a round trip.
package wire

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Kind identifies the dynamic shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a decoded JSON value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	// Null is the JSON null literal.
	Null struct{}
	// Bool is a JSON boolean.
	Bool bool
	// Number is a JSON number in its literal form.
	Number string
	// String is a JSON string.
	String string
	// List is a JSON array.
	List []Value
)

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (List) Kind() Kind   { return KindList }

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Number) isValue()  {}
func (String) isValue()  {}
func (List) isValue()    {}
func (*Object) isValue() {}

// KindOf returns the kind of v, treating a nil Value as null.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

// IsNull reports whether v is nil or Null.
func IsNull(v Value) bool { return KindOf(v) == KindNull }

// Float64 parses the number as a float64.
func (n Number) Float64() (float64, error) { return strconv.ParseFloat(string(n), 64) }

// Int64 parses the number as an int64. Fractions and exponents are rejected.
func (n Number) Int64() (int64, error) { return strconv.ParseInt(string(n), 10, 64) }

// Decimal parses the number as an arbitrary precision decimal.
func (n Number) Decimal() (decimal.Decimal, error) { return decimal.NewFromString(string(n)) }

func (n Number) String() string { return string(n) }

// Int is a convenience constructor for integral numbers.
func Int(i int64) Number { return Number(strconv.FormatInt(i, 10)) }

// Float is a convenience constructor for floating point numbers.
func Float(f float64) Number { return Number(strconv.FormatFloat(f, 'g', -1, 64)) }

// Equal reports whether a and b denote the same JSON value. Object key order
// is ignored and numbers are compared by numeric value.
func Equal(a, b Value) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case KindNull:
		return true
	case KindBool:
		return a.(Bool) == b.(Bool)
	case KindString:
		return a.(String) == b.(String)
	case KindNumber:
		na, nb := a.(Number), b.(Number)
		if na == nb {
			return true
		}
		da, errA := na.Decimal()
		db, errB := nb.Decimal()
		return errA == nil && errB == nil && da.Equal(db)
	case KindList:
		la, lb := a.(List), b.(List)
		if len(la) != len(lb) {
			return false
		}
		for i := range la {
			if !Equal(la[i], lb[i]) {
				return false
			}
		}
		return true
	case KindObject:
		oa, ob := a.(*Object), b.(*Object)
		if oa.Len() != ob.Len() {
			return false
		}
		for k, va := range oa.All() {
			vb, ok := ob.Get(k)
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	}
	return false
}

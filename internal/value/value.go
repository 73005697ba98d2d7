// Package value implements the runtime value model of the calx language.
//
// A Value is one of a closed set of variants: Real, Complex, Bool, String,
// *Matrix, *Map, *Func and *Future. A nil Value is the "no result" sentinel
// returned by operators that find no matching type pattern.
package value

import (
	"fmt"
	"math"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNull Kind = iota
	KindReal
	KindComplex
	KindBool
	KindString
	KindMatrix
	KindMap
	KindFunc
	KindFuture
)

var kindNames = [...]string{
	KindNull:    "null",
	KindReal:    "number",
	KindComplex: "complex",
	KindBool:    "boolean",
	KindString:  "string",
	KindMatrix:  "matrix",
	KindMap:     "map",
	KindFunc:    "function",
	KindFuture:  "future",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// KindOf returns the kind of v, treating nil as KindNull.
func KindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// Real is a real number.
type Real float64

func (Real) Kind() Kind { return KindReal }

// Complex is a complex number.
type Complex complex128

func (Complex) Kind() Kind { return KindComplex }

// Bool is a boolean.
type Bool bool

func (Bool) Kind() Kind { return KindBool }

// String is an immutable string.
type String string

func (String) Kind() Kind { return KindString }

// NaN is the dispatch-miss sentinel for numeric results.
var NaN = Real(math.NaN())

// IsNumeric reports whether v is a scalar that the numeric-coercion fallback
// accepts (real, complex or boolean).
func IsNumeric(v Value) bool {
	switch v.(type) {
	case Real, Complex, Bool:
		return true
	}
	return false
}

// AsReal coerces v to a float64. Booleans become 0 or 1.
func AsReal(v Value) (float64, bool) {
	switch x := v.(type) {
	case Real:
		return float64(x), true
	case Bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsComplex coerces v to a complex128. Reals and booleans get a zero
// imaginary part.
func AsComplex(v Value) (complex128, bool) {
	if c, ok := v.(Complex); ok {
		return complex128(c), true
	}
	if r, ok := AsReal(v); ok {
		return complex(r, 0), true
	}
	return 0, false
}

// Truthy reports the truth value of v as used by conditions and logic
// operators.
func Truthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case Bool:
		return bool(x)
	case Real:
		return x != 0 && !math.IsNaN(float64(x))
	case Complex:
		return x != 0
	case String:
		return x != ""
	case *Matrix:
		if x.Len() == 0 {
			return false
		}
		for _, c := range x.cells {
			if !Truthy(c) {
				return false
			}
		}
		return true
	case *Map:
		return x.Len() > 0
	}
	return true
}

// Identical reports whether a and b are the same value: scalars compare by
// value, matrices and maps structurally, functions and futures by identity.
func Identical(a, b Value) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case *Matrix:
		y, ok := b.(*Matrix)
		if !ok || x.rows != y.rows || x.cols != y.cols {
			return false
		}
		for i := range x.cells {
			if !Identical(x.cells[i], y.cells[i]) {
				return false
			}
		}
		return true
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for _, k := range x.keys {
			yv, ok := y.Get(k)
			if !ok || !Identical(x.vals[k], yv) {
				return false
			}
		}
		return true
	case Real:
		y, ok := b.(Real)
		return ok && (x == y || math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	}
	return a == b
}

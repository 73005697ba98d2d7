// Package builtin implements the operator and built-in function layer of
// calx.
//
// Every binary operator is a type-pattern cascade tried in a fixed order:
//
//	real × real
//	complex × complex
//	matrix × matrix (same shape), matrix × scalar, scalar × matrix
//	map × map (shared keys), map × scalar, scalar × map
//	operator-specific clauses
//	numeric coercion (bool → 0/1, real → complex)
//
// The first clause that matches produces the result. When no clause matches
// the operator returns nil, the "no result" value. Operators never fail.
package builtin

import (
	"github.com/you-not-fish/calx/internal/value"
)

// Op is a low-level binary operator.
type Op func(x, y value.Value) value.Value

// clause is an operator-specific pattern tried after the structural clauses.
// It reports whether it matched.
type clause func(x, y value.Value) (value.Value, bool)

// cascade describes one binary operator.
type cascade struct {
	real    func(a, b float64) value.Value
	complex func(a, b complex128) value.Value // nil when the operator has no complex form
	extra   []clause
	noLift  bool // the operator does not broadcast over collections
}

// op returns the operator as an Op.
func (c *cascade) op() Op {
	return c.apply
}

func (c *cascade) apply(x, y value.Value) value.Value {
	switch a := x.(type) {
	case value.Real:
		if b, ok := y.(value.Real); ok {
			return c.real(float64(a), float64(b))
		}
	case value.Complex:
		if b, ok := y.(value.Complex); ok && c.complex != nil {
			return c.complex(complex128(a), complex128(b))
		}
	}

	if !c.noLift {
		if r, ok := c.matrix(x, y); ok {
			return r
		}
		if r, ok := c.maps(x, y); ok {
			return r
		}
	}

	for _, cl := range c.extra {
		if r, ok := cl(x, y); ok {
			return r
		}
	}

	return c.coerce(x, y)
}

// matrix handles the matrix clauses: elementwise on identical shapes and
// scalar broadcasting in either position.
func (c *cascade) matrix(x, y value.Value) (value.Value, bool) {
	mx, xok := x.(*value.Matrix)
	my, yok := y.(*value.Matrix)
	switch {
	case xok && yok:
		if !mx.SameShape(my) {
			return nil, true
		}
		a, b := mx.Cells(), my.Cells()
		cells := make([]value.Value, len(a))
		for i := range a {
			cells[i] = c.apply(a[i], b[i])
		}
		return matrixOf(mx.Rows(), mx.Cols(), cells), true
	case xok && value.IsNumeric(y):
		return matrixOrNil(mx.Map(func(v value.Value) value.Value { return c.apply(v, y) })), true
	case yok && value.IsNumeric(x):
		return matrixOrNil(my.Map(func(v value.Value) value.Value { return c.apply(x, v) })), true
	}
	return nil, false
}

// maps handles the map clauses. Two maps combine over the keys they share,
// in the order of the left operand.
func (c *cascade) maps(x, y value.Value) (value.Value, bool) {
	mx, xok := x.(*value.Map)
	my, yok := y.(*value.Map)
	switch {
	case xok && yok:
		out := value.NewMap()
		mx.Range(func(k string, v value.Value) bool {
			if w, ok := my.Get(k); ok {
				out.Set(k, c.apply(v, w))
			}
			return true
		})
		return out, true
	case xok && isScalar(y):
		return mapValues(mx, func(v value.Value) value.Value { return c.apply(v, y) }), true
	case yok && isScalar(x):
		return mapValues(my, func(v value.Value) value.Value { return c.apply(x, v) }), true
	}
	return nil, false
}

// coerce is the numeric-coercion fallback.
func (c *cascade) coerce(x, y value.Value) value.Value {
	if a, ok := value.AsReal(x); ok {
		if b, ok := value.AsReal(y); ok {
			return c.real(a, b)
		}
	}
	if c.complex == nil {
		return nil
	}
	if a, ok := value.AsComplex(x); ok {
		if b, ok := value.AsComplex(y); ok {
			return c.complex(a, b)
		}
	}
	return nil
}

// lift returns f broadcast over matrices and maps.
func lift(f func(value.Value) value.Value) func(value.Value) value.Value {
	var g func(value.Value) value.Value
	g = func(x value.Value) value.Value {
		switch x := x.(type) {
		case *value.Matrix:
			return matrixOrNil(x.Map(g))
		case *value.Map:
			return mapValues(x, g)
		}
		return f(x)
	}
	return g
}

// ----------------------------------------------------------------------------
// Helpers

func isScalar(v value.Value) bool {
	switch v.(type) {
	case value.Real, value.Complex, value.Bool, value.String:
		return true
	}
	return false
}

func mapValues(m *value.Map, f func(value.Value) value.Value) *value.Map {
	out := value.NewMap()
	m.Range(func(k string, v value.Value) bool {
		out.Set(k, f(v))
		return true
	})
	return out
}

// matrixOf builds a matrix from cells, returning a nil Value when a cell is
// not numeric.
func matrixOf(rows, cols int, cells []value.Value) value.Value {
	return matrixOrNil(value.NewMatrix(rows, cols, cells))
}

// matrixOrNil converts a possibly nil *Matrix into a Value without producing
// a typed nil.
func matrixOrNil(m *value.Matrix) value.Value {
	if m == nil {
		return nil
	}
	return m
}

// cells returns the elements of a collection in iteration order, and false
// for plain values.
func cells(v value.Value) ([]value.Value, bool) {
	switch x := v.(type) {
	case *value.Matrix:
		return x.Cells(), true
	case *value.Map:
		return x.Values(), true
	}
	return nil, false
}

func boolean(b bool) value.Value { return value.Bool(b) }

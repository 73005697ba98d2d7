package builtin

import (
	"math"
	"math/cmplx"

	"github.com/you-not-fish/calx/internal/value"
)

// Unary is a low-level unary operator.
type Unary func(x value.Value) value.Value

// Arithmetic operators.
var (
	Add Op = (&cascade{
		real:    func(a, b float64) value.Value { return value.Real(a + b) },
		complex: func(a, b complex128) value.Value { return value.Complex(a + b) },
		extra:   []clause{concatStrings},
	}).op()

	Sub Op = (&cascade{
		real:    func(a, b float64) value.Value { return value.Real(a - b) },
		complex: func(a, b complex128) value.Value { return value.Complex(a - b) },
	}).op()

	Mul Op = (&cascade{
		real:    func(a, b float64) value.Value { return value.Real(a * b) },
		complex: func(a, b complex128) value.Value { return value.Complex(a * b) },
	}).op()

	Div Op = (&cascade{
		real:    func(a, b float64) value.Value { return value.Real(a / b) },
		complex: func(a, b complex128) value.Value { return value.Complex(a / b) },
	}).op()

	Mod Op = (&cascade{
		real: func(a, b float64) value.Value { return value.Real(math.Mod(a, b)) },
	}).op()

	Pow Op = (&cascade{
		real:    realPow,
		complex: func(a, b complex128) value.Value { return value.Complex(cmplx.Pow(a, b)) },
	}).op()
)

// Comparison operators. Equality never misses: operands no clause accepts
// compare unequal.
var (
	Equal Op = func(x, y value.Value) value.Value {
		if r := equal.apply(x, y); r != nil {
			return r
		}
		return value.Bool(false)
	}

	NotEqual Op = func(x, y value.Value) value.Value {
		return Not(Equal(x, y))
	}

	Less Op = (&cascade{
		real:  func(a, b float64) value.Value { return boolean(a < b) },
		extra: []clause{compareStrings(func(a, b string) bool { return a < b })},
	}).op()

	LessEq Op = (&cascade{
		real:  func(a, b float64) value.Value { return boolean(a <= b) },
		extra: []clause{compareStrings(func(a, b string) bool { return a <= b })},
	}).op()

	Greater Op = (&cascade{
		real:  func(a, b float64) value.Value { return boolean(a > b) },
		extra: []clause{compareStrings(func(a, b string) bool { return a > b })},
	}).op()

	GreaterEq Op = (&cascade{
		real:  func(a, b float64) value.Value { return boolean(a >= b) },
		extra: []clause{compareStrings(func(a, b string) bool { return a >= b })},
	}).op()
)

var equal = &cascade{
	real:    func(a, b float64) value.Value { return boolean(a == b) },
	complex: func(a, b complex128) value.Value { return boolean(a == b) },
	extra:   []clause{equalStrings, identity},
}

// Unary operators. All of them broadcast over matrices and maps.
var (
	Neg Unary = lift(func(x value.Value) value.Value {
		switch x := x.(type) {
		case value.Real:
			return -x
		case value.Complex:
			return -x
		case value.Bool:
			r, _ := value.AsReal(x)
			return value.Real(-r)
		}
		return nil
	})

	Plus Unary = lift(func(x value.Value) value.Value {
		switch x := x.(type) {
		case value.Real, value.Complex:
			return x
		case value.Bool:
			r, _ := value.AsReal(x)
			return value.Real(r)
		}
		return nil
	})

	Not Unary = lift(func(x value.Value) value.Value {
		return value.Bool(!value.Truthy(x))
	})

	Factorial Unary = lift(func(x value.Value) value.Value {
		r, ok := value.AsReal(x)
		if !ok {
			return nil
		}
		return value.Real(factorial(r))
	})
)

// ----------------------------------------------------------------------------
// Clauses

// concatStrings joins a string with another string or a scalar.
func concatStrings(x, y value.Value) (value.Value, bool) {
	_, xs := x.(value.String)
	_, ys := y.(value.String)
	if !(xs && (ys || isScalar(y))) && !(ys && isScalar(x)) {
		return nil, false
	}
	return value.String(value.ToString(x) + value.ToString(y)), true
}

func compareStrings(cmp func(a, b string) bool) clause {
	return func(x, y value.Value) (value.Value, bool) {
		a, ok := x.(value.String)
		if !ok {
			return nil, false
		}
		b, ok := y.(value.String)
		if !ok {
			return nil, false
		}
		return boolean(cmp(string(a), string(b))), true
	}
}

func equalStrings(x, y value.Value) (value.Value, bool) {
	a, ok := x.(value.String)
	if !ok {
		return nil, false
	}
	b, ok := y.(value.String)
	return boolean(ok && a == b), true
}

// identity compares functions, futures and null by identity.
func identity(x, y value.Value) (value.Value, bool) {
	switch x.(type) {
	case nil, *value.Func, *value.Future:
		return boolean(value.Identical(x, y)), true
	}
	switch y.(type) {
	case nil, *value.Func, *value.Future:
		return boolean(value.Identical(x, y)), true
	}
	return nil, false
}

// ----------------------------------------------------------------------------
// Numeric helpers

// realPow raises a to b, switching to the complex plane for a negative base
// with a fractional exponent.
func realPow(a, b float64) value.Value {
	if a < 0 && b != math.Trunc(b) {
		return value.Complex(cmplx.Pow(complex(a, 0), complex(b, 0)))
	}
	return value.Real(math.Pow(a, b))
}

// factorial returns n! for non-negative integers and Γ(n+1) otherwise.
func factorial(n float64) float64 {
	if n < 0 && n == math.Trunc(n) {
		return math.NaN()
	}
	if n == math.Trunc(n) && n <= 170 {
		r := 1.0
		for i := 2.0; i <= n; i++ {
			r *= i
		}
		return r
	}
	return math.Gamma(n + 1)
}

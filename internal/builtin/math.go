package builtin

import (
	"math"
	"math/cmplx"

	"github.com/you-not-fish/calx/internal/value"
)

// maxRangeLen bounds the number of cells a range or constructor may
// allocate.
const maxRangeLen = 1 << 24

// mathFunc builds a broadcasting unary function from a real and an optional
// complex form. Booleans are coerced to 0 or 1.
func mathFunc(rf func(float64) value.Value, cf func(complex128) value.Value) Unary {
	return lift(func(x value.Value) value.Value {
		switch x := x.(type) {
		case value.Real:
			return rf(float64(x))
		case value.Complex:
			if cf == nil {
				return nil
			}
			return cf(complex128(x))
		case value.Bool:
			r, _ := value.AsReal(x)
			return rf(r)
		}
		return nil
	})
}

func realFn(f func(float64) float64) func(float64) value.Value {
	return func(x float64) value.Value { return value.Real(f(x)) }
}

func cplx(f func(complex128) complex128) func(complex128) value.Value {
	return func(x complex128) value.Value { return value.Complex(f(x)) }
}

func registerMath(r *registry) {
	r.unary("sqrt", mathFunc(func(x float64) value.Value {
		if x < 0 {
			return value.Complex(cmplx.Sqrt(complex(x, 0)))
		}
		return value.Real(math.Sqrt(x))
	}, cplx(cmplx.Sqrt)))

	r.unary("abs", mathFunc(realFn(math.Abs), func(x complex128) value.Value {
		return value.Real(cmplx.Abs(x))
	}))

	r.unary("exp", mathFunc(realFn(math.Exp), cplx(cmplx.Exp)))

	r.unary("log", mathFunc(func(x float64) value.Value {
		if x < 0 {
			return value.Complex(cmplx.Log(complex(x, 0)))
		}
		return value.Real(math.Log(x))
	}, cplx(cmplx.Log)))

	r.unary("sin", mathFunc(realFn(math.Sin), cplx(cmplx.Sin)))
	r.unary("cos", mathFunc(realFn(math.Cos), cplx(cmplx.Cos)))
	r.unary("tan", mathFunc(realFn(math.Tan), cplx(cmplx.Tan)))
	r.unary("floor", mathFunc(realFn(math.Floor), nil))
	r.unary("ceil", mathFunc(realFn(math.Ceil), nil))
	r.unary("round", mathFunc(realFn(math.Round), nil))

	r.unary("re", mathFunc(realFn(func(x float64) float64 { return x }), func(x complex128) value.Value {
		return value.Real(real(x))
	}))
	r.unary("im", mathFunc(realFn(func(float64) float64 { return 0 }), func(x complex128) value.Value {
		return value.Real(imag(x))
	}))
	r.unary("conj", mathFunc(realFn(func(x float64) float64 { return x }), cplx(cmplx.Conj)))
	r.unary("arg", mathFunc(func(x float64) value.Value {
		if x < 0 {
			return value.Real(math.Pi)
		}
		return value.Real(0)
	}, func(x complex128) value.Value {
		return value.Real(cmplx.Phase(x))
	}))
}

// ----------------------------------------------------------------------------
// Matrix construction

func registerMatrix(r *registry) {
	r.def("size", 1, []string{"x"}, func(args []value.Value) (value.Value, error) {
		switch x := args[0].(type) {
		case nil:
			return value.Reals(1, 2, 0, 0), nil
		case *value.Matrix:
			return value.Reals(1, 2, float64(x.Rows()), float64(x.Cols())), nil
		case *value.Map:
			return value.Reals(1, 2, 1, float64(x.Len())), nil
		}
		return value.Reals(1, 2, 1, 1), nil
	})

	r.def("transpose", 1, []string{"m"}, func(args []value.Value) (value.Value, error) {
		switch x := args[0].(type) {
		case *value.Matrix:
			return x.Transpose(), nil
		case value.Real, value.Complex:
			return x, nil
		}
		return nil, nil
	})

	r.def("zeros", 1, []string{"rows", "cols"}, func(args []value.Value) (value.Value, error) {
		return filled(args, func(int, int) float64 { return 0 }), nil
	})
	r.def("ones", 1, []string{"rows", "cols"}, func(args []value.Value) (value.Value, error) {
		return filled(args, func(int, int) float64 { return 1 }), nil
	})
	r.def("eye", 1, []string{"rows", "cols"}, func(args []value.Value) (value.Value, error) {
		return filled(args, func(i, j int) float64 {
			if i == j {
				return 1
			}
			return 0
		}), nil
	})

	r.def("range", 2, []string{"from", "to", "step"}, func(args []value.Value) (value.Value, error) {
		var step value.Value
		if len(args) > 2 {
			step = args[2]
		}
		return Range(args[0], step, args[1]), nil
	})
}

// filled builds a rows×cols matrix from f. A single dimension makes a
// square matrix.
func filled(args []value.Value, f func(i, j int) float64) value.Value {
	rows, ok := dim(args[0])
	if !ok {
		return nil
	}
	cols := rows
	if len(args) > 1 {
		if cols, ok = dim(args[1]); !ok {
			return nil
		}
	}
	if rows*cols > maxRangeLen {
		return nil
	}
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data = append(data, f(i, j))
		}
	}
	return matrixOrNil(value.Reals(rows, cols, data...))
}

// dim converts v to a non-negative integer dimension.
func dim(v value.Value) (int, bool) {
	r, ok := value.AsReal(v)
	if !ok || r < 0 || r != math.Trunc(r) || r > maxRangeLen {
		return 0, false
	}
	return int(r), true
}

// Range returns the row vector from, from+step, ... up to and including to.
// A nil step is 1, or -1 when to is below from. A zero or non-numeric
// bound yields no result.
func Range(from, step, to value.Value) value.Value {
	a, ok := value.AsReal(from)
	if !ok {
		return nil
	}
	b, ok := value.AsReal(to)
	if !ok {
		return nil
	}
	s := 1.0
	if b < a {
		s = -1
	}
	if step != nil {
		if s, ok = value.AsReal(step); !ok {
			return nil
		}
	}
	if s == 0 || math.IsNaN(a) || math.IsNaN(b) || math.IsNaN(s) {
		return nil
	}

	span := (b - a) / s
	if span < 0 {
		return value.Reals(1, 0)
	}
	n := math.Floor(span+1e-10) + 1
	if n > maxRangeLen {
		return nil
	}
	data := make([]float64, int(n))
	for i := range data {
		data[i] = a + float64(i)*s
	}
	return value.Reals(1, len(data), data...)
}

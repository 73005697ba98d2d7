package builtin

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/you-not-fish/calx/internal/value"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

func registerStrings(r *registry) {
	r.def("string", 1, []string{"x"}, func(args []value.Value) (value.Value, error) {
		return value.String(value.ToString(args[0])), nil
	})

	r.def("number", 1, []string{"x"}, func(args []value.Value) (value.Value, error) {
		return toNumber(args[0]), nil
	})

	r.unary("upper", lift(func(x value.Value) value.Value {
		s, ok := x.(value.String)
		if !ok {
			return nil
		}
		return value.String(upperCaser.String(string(s)))
	}))

	r.unary("lower", lift(func(x value.Value) value.Value {
		s, ok := x.(value.String)
		if !ok {
			return nil
		}
		return value.String(lowerCaser.String(string(s)))
	}))

	r.def("concat", 2, []string{"a", "b"}, func(args []value.Value) (value.Value, error) {
		acc := args[0]
		for _, a := range args[1:] {
			if acc = concat(acc, a); acc == nil {
				return nil, nil
			}
		}
		return acc, nil
	})

	r.def("formatNumber", 2, []string{"locale", "x"}, func(args []value.Value) (value.Value, error) {
		loc, ok := args[0].(value.String)
		if !ok {
			return nil, nil
		}
		tag, err := language.Parse(string(loc))
		if err != nil {
			return nil, errors.Wrapf(err, "formatNumber: locale %q", string(loc))
		}
		x, ok := value.AsReal(args[1])
		if !ok {
			return nil, nil
		}
		p := message.NewPrinter(tag)
		return value.String(p.Sprintf("%v", number.Decimal(x))), nil
	})
}

// toNumber converts strings and booleans to reals. Anything that cannot be
// read as a number is NaN.
func toNumber(v value.Value) value.Value {
	switch x := v.(type) {
	case value.Real, value.Complex:
		return x
	case value.Bool:
		r, _ := value.AsReal(x)
		return value.Real(r)
	case value.String:
		s := strings.TrimSpace(string(x))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.Real(f)
		}
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return value.Real(i)
		}
	}
	return value.NaN
}

// concat joins two values of the same family: strings, matrices with the
// same row count (side by side), arrays (appended) or maps (right wins).
func concat(a, b value.Value) value.Value {
	switch x := a.(type) {
	case value.String:
		if isScalar(b) {
			return value.String(string(x) + value.ToString(b))
		}
	case *value.Matrix:
		y, ok := b.(*value.Matrix)
		if !ok || x.Rows() != y.Rows() {
			return nil
		}
		cols := x.Cols() + y.Cols()
		cells := make([]value.Value, 0, x.Rows()*cols)
		for r := 0; r < x.Rows(); r++ {
			for c := 0; c < x.Cols(); c++ {
				v, _ := x.At(r, c)
				cells = append(cells, v)
			}
			for c := 0; c < y.Cols(); c++ {
				v, _ := y.At(r, c)
				cells = append(cells, v)
			}
		}
		return matrixOf(x.Rows(), cols, cells)
	case *value.Map:
		y, ok := b.(*value.Map)
		if !ok {
			return nil
		}
		if x.IsArray() && y.IsArray() {
			return value.NewArray(append(x.Values(), y.Values()...)...)
		}
		out := x.Clone()
		y.Range(func(k string, v value.Value) bool {
			out.Set(k, v)
			return true
		})
		return out
	}
	return nil
}

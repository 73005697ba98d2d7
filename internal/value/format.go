package value

import (
	"math"
	"strconv"
	"strings"
)

// Format returns the display form of v. Strings nested inside matrices or
// maps are quoted; a top-level String is quoted as well.
func Format(v Value) string {
	var b strings.Builder
	format(&b, v, true)
	return b.String()
}

// ToString converts v to text: strings are returned as-is, everything else
// uses Format.
func ToString(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}
	return Format(v)
}

func format(b *strings.Builder, v Value, quote bool) {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
	case Real:
		b.WriteString(formatReal(float64(x)))
	case Complex:
		b.WriteString(formatComplex(complex128(x)))
	case Bool:
		b.WriteString(strconv.FormatBool(bool(x)))
	case String:
		if quote {
			b.WriteString(strconv.Quote(string(x)))
		} else {
			b.WriteString(string(x))
		}
	case *Matrix:
		b.WriteByte('[')
		for r := 0; r < x.rows; r++ {
			if r > 0 {
				b.WriteString("; ")
			}
			for c := 0; c < x.cols; c++ {
				if c > 0 {
					b.WriteString(", ")
				}
				format(b, x.cells[r*x.cols+c], true)
			}
		}
		b.WriteByte(']')
	case *Map:
		b.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			format(b, x.vals[k], true)
		}
		b.WriteByte('}')
	case *Func:
		b.WriteString("function")
		if x.Name != "" {
			b.WriteByte(' ')
			b.WriteString(x.Name)
		}
		b.WriteByte('(')
		b.WriteString(strings.Join(x.Remaining(), ", "))
		b.WriteByte(')')
	case *Future:
		b.WriteString("future")
	default:
		b.WriteString(v.Kind().String())
	}
}

func formatReal(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == math.Trunc(f) && math.Abs(f) < 1e15:
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatComplex(c complex128) string {
	re, im := real(c), imag(c)
	if re == 0 {
		return formatReal(im) + "i"
	}
	if im < 0 || math.IsNaN(im) {
		return formatReal(re) + formatReal(im) + "i"
	}
	return formatReal(re) + "+" + formatReal(im) + "i"
}

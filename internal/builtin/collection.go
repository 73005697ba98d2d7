package builtin

import (
	"sort"
	"unicode/utf8"

	"github.com/you-not-fish/calx/internal/value"
)

// Collection functions accept a matrix, a map or a plain value. Matrices are
// walked in row-major order and maps in key order. A plain value is handed
// to the callable as a whole.

func registerCollections(r *registry) {
	r.def("map", 2, []string{"f", "xs"}, mapFn)
	r.def("reduce", 3, []string{"f", "init", "xs"}, reduceFn)
	r.def("where", 2, []string{"pred", "xs"}, whereFn)
	r.def("any", 2, []string{"pred", "xs"}, func(args []value.Value) (value.Value, error) {
		return quantify(args[0], args[1], true)
	})
	r.def("all", 2, []string{"pred", "xs"}, func(args []value.Value) (value.Value, error) {
		return quantify(args[0], args[1], false)
	})
	r.def("zip", 2, []string{"a", "b"}, zipFn)

	r.def("sum", 1, []string{"xs"}, func(args []value.Value) (value.Value, error) {
		return fold(Add, value.Real(0), collectionArg(args)), nil
	})
	r.def("min", 1, []string{"xs"}, func(args []value.Value) (value.Value, error) {
		return extreme(collectionArg(args), Less), nil
	})
	r.def("max", 1, []string{"xs"}, func(args []value.Value) (value.Value, error) {
		return extreme(collectionArg(args), Greater), nil
	})
	r.def("sort", 1, []string{"xs"}, sortFn)

	r.def("keys", 1, []string{"xs"}, func(args []value.Value) (value.Value, error) {
		switch x := args[0].(type) {
		case *value.Map:
			keys := value.NewArray()
			for _, k := range x.Keys() {
				keys.Push(value.String(k))
			}
			return keys, nil
		case *value.Matrix:
			if x.Len() == 0 {
				return value.Reals(1, 0), nil
			}
			return Range(value.Real(0), nil, value.Real(x.Len()-1)), nil
		}
		return value.NewArray(), nil
	})
	r.def("values", 1, []string{"xs"}, func(args []value.Value) (value.Value, error) {
		if xs, ok := cells(args[0]); ok {
			return value.NewArray(xs...), nil
		}
		return value.NewArray(args[0]), nil
	})
	r.def("length", 1, []string{"xs"}, func(args []value.Value) (value.Value, error) {
		return value.Real(length(args[0])), nil
	})
	r.def("first", 1, []string{"xs"}, func(args []value.Value) (value.Value, error) {
		xs, ok := cells(args[0])
		if !ok {
			return args[0], nil
		}
		if len(xs) == 0 {
			return nil, nil
		}
		return xs[0], nil
	})
	r.def("last", 1, []string{"xs"}, func(args []value.Value) (value.Value, error) {
		xs, ok := cells(args[0])
		if !ok {
			return args[0], nil
		}
		if len(xs) == 0 {
			return nil, nil
		}
		return xs[len(xs)-1], nil
	})
}

// collectionArg returns the single collection argument, or the argument
// list itself when more than one value was passed, as in max(1, 5, 3).
func collectionArg(args []value.Value) value.Value {
	if len(args) == 1 {
		return args[0]
	}
	return value.NewArray(args...)
}

// mapFn applies f to every element. Over a matrix the result is a matrix of
// the same shape, or an array when a result is not numeric.
func mapFn(args []value.Value) (value.Value, error) {
	f, xs := args[0], args[1]
	switch x := xs.(type) {
	case *value.Matrix:
		in := x.Cells()
		out := make([]value.Value, len(in))
		for i, c := range in {
			v, err := Call(f, c)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		if m := value.NewMatrix(x.Rows(), x.Cols(), out); m != nil {
			return m, nil
		}
		return value.NewArray(out...), nil

	case *value.Map:
		out := value.NewMap()
		var err error
		x.Range(func(k string, v value.Value) bool {
			var r value.Value
			if r, err = Call(f, v); err != nil {
				return false
			}
			out.Set(k, r)
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return Call(f, xs)
}

// reduceFn folds f over the elements starting from init.
func reduceFn(args []value.Value) (value.Value, error) {
	f, acc, xs := args[0], args[1], args[2]
	elems, ok := cells(xs)
	if !ok {
		return Call(f, acc, xs)
	}
	for _, e := range elems {
		var err error
		if acc, err = Call(f, acc, e); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// whereFn keeps the elements for which pred is truthy. A matrix yields a
// row vector; an array yields a re-indexed array; any other map keeps its
// keys.
func whereFn(args []value.Value) (value.Value, error) {
	pred, xs := args[0], args[1]
	switch x := xs.(type) {
	case *value.Matrix:
		var kept []value.Value
		for _, c := range x.Cells() {
			ok, err := Call(pred, c)
			if err != nil {
				return nil, err
			}
			if value.Truthy(ok) {
				kept = append(kept, c)
			}
		}
		return matrixOf(1, len(kept), kept), nil

	case *value.Map:
		array := x.IsArray()
		out := value.NewMap()
		var err error
		x.Range(func(k string, v value.Value) bool {
			var ok value.Value
			if ok, err = Call(pred, v); err != nil {
				return false
			}
			if value.Truthy(ok) {
				if array {
					out.Push(v)
				} else {
					out.Set(k, v)
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	ok, err := Call(pred, xs)
	if err != nil || !value.Truthy(ok) {
		return nil, err
	}
	return xs, nil
}

// quantify implements any (some = true) and all (some = false).
func quantify(pred, xs value.Value, some bool) (value.Value, error) {
	elems, ok := cells(xs)
	if !ok {
		elems = []value.Value{xs}
	}
	for _, e := range elems {
		r, err := Call(pred, e)
		if err != nil {
			return nil, err
		}
		if value.Truthy(r) == some {
			return value.Bool(some), nil
		}
	}
	return value.Bool(!some), nil
}

// zipFn pairs elements. Two maps pair over their shared keys; other
// collections pair by position up to the shorter length.
func zipFn(args []value.Value) (value.Value, error) {
	a, b := args[0], args[1]
	if ma, ok := a.(*value.Map); ok && !ma.IsArray() {
		if mb, ok := b.(*value.Map); ok && !mb.IsArray() {
			out := value.NewMap()
			ma.Range(func(k string, v value.Value) bool {
				if w, ok := mb.Get(k); ok {
					out.Set(k, value.NewArray(v, w))
				}
				return true
			})
			return out, nil
		}
	}

	xs, xok := cells(a)
	ys, yok := cells(b)
	if !xok || !yok {
		return value.NewArray(a, b), nil
	}
	out := value.NewArray()
	for i := 0; i < len(xs) && i < len(ys); i++ {
		out.Push(value.NewArray(xs[i], ys[i]))
	}
	return out, nil
}

// fold combines the elements of xs with op starting from init.
func fold(op Op, init, xs value.Value) value.Value {
	elems, ok := cells(xs)
	if !ok {
		return op(init, xs)
	}
	acc := init
	for _, e := range elems {
		acc = op(acc, e)
	}
	return acc
}

// extreme returns the element that wins every comparison under better.
func extreme(xs value.Value, better Op) value.Value {
	elems, ok := cells(xs)
	if !ok {
		return xs
	}
	if len(elems) == 0 {
		return nil
	}
	best := elems[0]
	for _, e := range elems[1:] {
		if value.Truthy(better(e, best)) {
			best = e
		}
	}
	return best
}

// sortFn sorts numbers numerically and strings lexically. A matrix becomes a
// sorted row vector; a map becomes a sorted array of its values.
func sortFn(args []value.Value) (value.Value, error) {
	elems, ok := cells(args[0])
	if !ok {
		return args[0], nil
	}
	sort.SliceStable(elems, func(i, j int) bool {
		return value.Truthy(Less(elems[i], elems[j]))
	})
	if _, isMatrix := args[0].(*value.Matrix); isMatrix {
		return matrixOf(1, len(elems), elems), nil
	}
	return value.NewArray(elems...), nil
}

func length(v value.Value) int {
	switch x := v.(type) {
	case nil:
		return 0
	case *value.Matrix:
		return x.Len()
	case *value.Map:
		return x.Len()
	case value.String:
		return utf8.RuneCountInString(string(x))
	}
	return 1
}

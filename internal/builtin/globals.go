package builtin

import (
	"math"
	"sort"
	"sync"

	"github.com/you-not-fish/calx/internal/value"
)

var (
	globalsOnce sync.Once
	globals     map[string]value.Value
)

// table returns the global built-in table, building it on first use. The
// table is immutable once built and is shared by every interpreter.
func table() map[string]value.Value {
	globalsOnce.Do(func() {
		r := &registry{vals: make(map[string]value.Value)}
		registerArithmetic(r)
		registerMath(r)
		registerMatrix(r)
		registerCollections(r)
		registerStrings(r)
		registerControl(r)

		r.vals["pi"] = value.Real(math.Pi)
		r.vals["e"] = value.Real(math.E)
		r.vals["i"] = value.Complex(1i)

		globals = r.vals
	})
	return globals
}

// Lookup returns the built-in bound to name.
func Lookup(name string) (value.Value, bool) {
	v, ok := table()[name]
	return v, ok
}

// Names returns the names of all built-ins in sorted order.
func Names() []string {
	t := table()
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// registry collects built-ins while the table is being built.
type registry struct {
	vals map[string]value.Value
}

// def registers a native function that executes once it has curry
// arguments.
func (r *registry) def(name string, curry int, params []string, impl value.Impl) {
	r.vals[name] = value.NewFunc(name, curry, params, impl)
}

// op registers a binary operator as a curried two-argument function. Extra
// arguments fold from the left, so add(1, 2, 3) is 6.
func (r *registry) op(name string, op Op) {
	r.def(name, 2, []string{"x", "y"}, func(args []value.Value) (value.Value, error) {
		acc := op(args[0], args[1])
		for _, a := range args[2:] {
			acc = op(acc, a)
		}
		return acc, nil
	})
}

// flipped registers a binary operator whose first argument is the
// threshold, so greater(4)(x) reports x > 4.
func (r *registry) flipped(name string, op Op) {
	r.def(name, 2, []string{"threshold", "x"}, func(args []value.Value) (value.Value, error) {
		return op(args[1], args[0]), nil
	})
}

// unary registers a unary operator as a one-argument function.
func (r *registry) unary(name string, f Unary) {
	r.def(name, 1, []string{"x"}, func(args []value.Value) (value.Value, error) {
		return f(args[0]), nil
	})
}

// Call invokes f with args. Calling a value that is not a function is a
// dispatch miss and yields no result.
func Call(f value.Value, args ...value.Value) (value.Value, error) {
	fn, ok := f.(*value.Func)
	if !ok {
		return nil, nil
	}
	return fn.Call(args...)
}

func registerArithmetic(r *registry) {
	r.op("add", Add)
	r.op("subtract", Sub)
	r.op("multiply", Mul)
	r.op("divide", Div)
	r.op("mod", Mod)
	r.op("pow", Pow)
	r.unary("negate", Neg)
	r.unary("factorial", Factorial)

	r.op("equal", Equal)
	r.op("unequal", NotEqual)
	r.flipped("less", Less)
	r.flipped("lessEq", LessEq)
	r.flipped("greater", Greater)
	r.flipped("greaterEq", GreaterEq)

	r.unary("not", Not)
	r.def("and", 2, []string{"x", "y"}, func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			if !value.Truthy(a) {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	})
	r.def("or", 2, []string{"x", "y"}, func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			if value.Truthy(a) {
				return value.Bool(true), nil
			}
		}
		return value.Bool(false), nil
	})
}

package value

// Impl is the native body of a function. It receives the bound prefix
// arguments followed by the call-site arguments and returns an optional
// value; a nil Value means "no result". A non-nil error is a host fault.
type Impl func(args []Value) (Value, error)

// Func is a callable value: a native implementation plus zero or more bound
// prefix arguments.
//
// Params is informational only (introspection and completion). Curry is the
// minimum number of arguments the function needs before it executes; calls
// that supply fewer return a partial application instead.
type Func struct {
	Name   string
	Params []string
	Curry  int

	impl  Impl
	bound []Value
}

func (*Func) Kind() Kind { return KindFunc }

// NewFunc returns a function that executes once it has received at least
// curry arguments.
func NewFunc(name string, curry int, params []string, impl Impl) *Func {
	return &Func{Name: name, Params: params, Curry: curry, impl: impl}
}

// Call invokes f with args appended to its bound prefix.
//
// When the combined argument count is below the curry threshold, Call
// returns a new partial that closes over the supplied arguments, or f itself
// when no arguments were supplied at this call site.
func (f *Func) Call(args ...Value) (Value, error) {
	all := args
	if len(f.bound) > 0 {
		all = make([]Value, 0, len(f.bound)+len(args))
		all = append(all, f.bound...)
		all = append(all, args...)
	}
	if len(all) < f.Curry {
		if len(args) == 0 {
			return f, nil
		}
		return f.Bind(args...), nil
	}
	return f.impl(all)
}

// Bind returns a partial application of f with args appended to the bound
// prefix. f is left unchanged.
func (f *Func) Bind(args ...Value) *Func {
	bound := make([]Value, 0, len(f.bound)+len(args))
	bound = append(bound, f.bound...)
	bound = append(bound, args...)
	return &Func{Name: f.Name, Params: f.Params, Curry: f.Curry, impl: f.impl, bound: bound}
}

// Bound returns a copy of the bound prefix arguments.
func (f *Func) Bound() []Value {
	out := make([]Value, len(f.bound))
	copy(out, f.bound)
	return out
}

// Remaining returns the parameter names not yet covered by bound arguments.
func (f *Func) Remaining() []string {
	if len(f.bound) >= len(f.Params) {
		return nil
	}
	return f.Params[len(f.bound):]
}

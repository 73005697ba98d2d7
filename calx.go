// Package calx is an embeddable expression language.
//
// Source text is parsed into a syntax tree that never fails to build:
// malformed input becomes Invalid leaves reported by Diagnostics, and
// evaluating one raises a syntax error. An Interpreter runs parsed programs
// against a dynamically typed value model of numbers, complex numbers,
// matrices, strings, maps and curried functions.
//
//	in := calx.New()
//	v, err := in.Run(ctx, "prices.calx", []byte("sum(where(greater(10), prices))"))
package calx

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/you-not-fish/calx/internal/interp"
	"github.com/you-not-fish/calx/internal/plugin"
	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

// Version is the language release.
const Version = "0.1.0-dev"

type (
	// Value is a runtime value; nil is null.
	Value = value.Value
	// Stmt is a parsed statement.
	Stmt = syntax.Stmt
	// Expr is a parsed expression.
	Expr = syntax.Expr
	// Diagnostic locates a malformed construct.
	Diagnostic = syntax.Diagnostic
	// Plugin is a named bundle of global values.
	Plugin = plugin.Plugin
	// Option configures an Interpreter.
	Option = interp.Option
)

// Parse parses a program.
func Parse(filename string, src []byte) []Stmt {
	return syntax.ParseFile(filename, src)
}

// ParseExpression parses a single expression.
func ParseExpression(src string) Expr {
	return syntax.ParseString(src)
}

// Diagnostics lists the malformed constructs of a parsed program in source
// order.
func Diagnostics(list []Stmt) []Diagnostic {
	return syntax.DiagnosticsOf(list)
}

// Format renders v the way the language prints values.
func Format(v Value) string {
	return value.Format(v)
}

// LoadPlugin reads a YAML plugin manifest.
func LoadPlugin(path string) (*Plugin, error) {
	return plugin.LoadFile(path)
}

// WithOutput directs the print built-in to w.
func WithOutput(w io.Writer) Option {
	return interp.WithOutput(w)
}

// WithMaxDepth bounds the nesting of script function calls.
func WithMaxDepth(n int) Option {
	return interp.WithMaxDepth(n)
}

// Interpreter runs programs against one global scope.
type Interpreter struct {
	in *interp.Interpreter
}

// New returns an interpreter with only the built-ins in scope.
func New(opts ...Option) *Interpreter {
	return &Interpreter{in: interp.New(opts...)}
}

// Run parses and executes src, returning the value of its last top-level
// expression statement.
func (x *Interpreter) Run(ctx context.Context, filename string, src []byte) (Value, error) {
	return x.in.Exec(ctx, Parse(filename, src))
}

// Exec executes an already parsed program.
func (x *Interpreter) Exec(ctx context.Context, list []Stmt) (Value, error) {
	return x.in.Exec(ctx, list)
}

// Eval evaluates a single expression.
func (x *Interpreter) Eval(ctx context.Context, src string) (Value, error) {
	return x.in.Eval(ctx, ParseExpression(src))
}

// Call invokes the global function name. Arguments are converted with the
// same rules as Define.
func (x *Interpreter) Call(ctx context.Context, name string, args ...interface{}) (Value, error) {
	f, ok := x.in.Lookup(name)
	if !ok {
		return nil, errors.Errorf("calx: %s is not defined", name)
	}
	vals := make([]Value, len(args))
	for i, a := range args {
		v, err := value.FromGo(a)
		if err != nil {
			return nil, errors.Wrapf(err, "calx: argument %d of %s", i+1, name)
		}
		vals[i] = v
	}
	return x.in.Call(ctx, f, vals...)
}

// Define binds a global. Go numbers, strings, booleans, slices, string-keyed
// maps and func([]Value) (Value, error) are converted; Values are bound as
// they are.
func (x *Interpreter) Define(name string, v interface{}) error {
	val, err := value.FromGo(v)
	if err != nil {
		return errors.Wrapf(err, "calx: define %s", name)
	}
	if f, ok := val.(*value.Func); ok && f.Name == "" {
		f.Name = name
	}
	x.in.Define(name, val)
	return nil
}

// Lookup returns the global or built-in bound to name.
func (x *Interpreter) Lookup(name string) (Value, bool) {
	return x.in.Lookup(name)
}

// Use installs a plugin. Its entries never replace existing bindings; the
// names that were skipped are returned.
func (x *Interpreter) Use(ctx context.Context, p *Plugin) ([]string, error) {
	return plugin.Install(ctx, x.in, p)
}

// Complete returns the global names matching prefix, best match first.
func (x *Interpreter) Complete(prefix string) []string {
	return x.in.Complete(prefix)
}

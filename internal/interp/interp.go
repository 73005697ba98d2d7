// Package interp executes parsed calx programs.
//
// The interpreter is a tree walker over the syntax package's nodes. Function
// activations live in an arena of frames addressed by index; a closure
// captures the index of the frame it was created in. Variables tagged with a
// parse-time frame are read from the matching activation; untagged variables
// are resolved dynamically along the chain, then among the globals and
// finally in the built-in table.
//
// An Interpreter is not safe for concurrent use.
package interp

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"github.com/you-not-fish/calx/internal/builtin"
	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

// DefaultMaxDepth bounds the nesting of script function calls.
const DefaultMaxDepth = 2048

// Interpreter holds the global state of one program.
type Interpreter struct {
	frames   *arena
	cur      int
	depth    int
	maxDepth int
	out      io.Writer
	ctx      context.Context
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput directs print to w.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithGlobals predefines the given global variables.
func WithGlobals(globals map[string]value.Value) Option {
	return func(in *Interpreter) {
		for name, v := range globals {
			in.Define(name, v)
		}
	}
}

// WithMaxDepth overrides DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) { in.maxDepth = n }
}

// New returns an interpreter with an empty global frame.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		frames:   newArena(),
		maxDepth: DefaultMaxDepth,
		out:      os.Stdout,
		ctx:      context.Background(),
	}
	in.Define("print", value.NewFunc("print", 0, []string{"values"}, in.print))
	for _, opt := range opts {
		opt(in)
	}
	return in
}

func (in *Interpreter) print(args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.ToString(a)
	}
	if _, err := fmt.Fprintln(in.out, strings.Join(parts, " ")); err != nil {
		return nil, errors.Wrap(err, "print")
	}
	if len(args) == 0 {
		return nil, nil
	}
	return args[len(args)-1], nil
}

// enter installs ctx for the duration of a host-initiated run and returns
// the function that restores the previous one.
func (in *Interpreter) enter(ctx context.Context) func() {
	if ctx == nil {
		ctx = context.Background()
	}
	saved := in.ctx
	in.ctx = ctx
	return func() { in.ctx = saved }
}

// Exec runs a statement list in the global frame. It returns the value of
// the last expression statement executed at top level.
func (in *Interpreter) Exec(ctx context.Context, list []syntax.Stmt) (value.Value, error) {
	defer in.enter(ctx)()

	var last value.Value
	for _, s := range list {
		if err := in.ctx.Err(); err != nil {
			return nil, err
		}
		ctl, v, err := in.exec(s)
		if err != nil {
			return nil, located(err, s.Pos())
		}
		switch ctl {
		case ctlReturn:
			return v, nil
		case ctlBreak, ctlContinue:
			// loop control outside a loop ends the current statement only
		default:
			if _, ok := s.(*syntax.ExprStmt); ok {
				last = v
			}
		}
	}
	return last, nil
}

// Eval evaluates a single expression in the global frame.
func (in *Interpreter) Eval(ctx context.Context, x syntax.Expr) (value.Value, error) {
	defer in.enter(ctx)()
	if err := in.ctx.Err(); err != nil {
		return nil, err
	}
	v, err := in.eval(x)
	if err != nil {
		return nil, located(err, x.Pos())
	}
	return v, nil
}

// Call invokes f with args. Script functions run with ctx.
func (in *Interpreter) Call(ctx context.Context, f value.Value, args ...value.Value) (value.Value, error) {
	defer in.enter(ctx)()
	return in.call(f, args)
}

// Define binds a global variable, replacing any existing binding.
func (in *Interpreter) Define(name string, v value.Value) {
	in.frames.globals()[name] = v
}

// Lookup resolves a global name, including built-ins.
func (in *Interpreter) Lookup(name string) (value.Value, bool) {
	if v, ok := in.frames.globals()[name]; ok {
		return v, true
	}
	return builtin.Lookup(name)
}

// Names returns every global and built-in name in sorted order.
func (in *Interpreter) Names() []string {
	return uniqueSorted(in.frames.visible(0), builtin.Names())
}

// Complete returns the global names that fuzzily match prefix, best match
// first. Names that start with prefix rank ahead of the rest.
func (in *Interpreter) Complete(prefix string) []string {
	names := in.Names()
	if prefix == "" {
		return names
	}
	ranks := fuzzy.RankFindFold(prefix, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		pi := strings.HasPrefix(ranks[i].Target, prefix)
		pj := strings.HasPrefix(ranks[j].Target, prefix)
		if pi != pj {
			return pi
		}
		return ranks[i].Distance < ranks[j].Distance
	})
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

func uniqueSorted(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range lists {
		for _, s := range l {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}

// located prefixes runtime exceptions and host faults with the position of
// the statement that raised them. Errors that already carry a position and
// cancellation pass through.
func located(err error, pos syntax.Pos) error {
	var se *SyntaxError
	var ue *UndefinedError
	if errors.As(err, &se) || errors.As(err, &ue) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.WithMessagef(err, "%s", pos)
}

package interp

import (
	"math"

	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

// call applies f to args. Functions run; matrices, maps and strings are
// indexed; any other callee is a dispatch miss.
func (in *Interpreter) call(f value.Value, args []value.Value) (value.Value, error) {
	if err := in.ctx.Err(); err != nil {
		return nil, err
	}
	switch fn := f.(type) {
	case *value.Func:
		v, err := fn.Call(args...)
		return v, hostFault(err, fn.Name)
	case *value.Matrix:
		return indexMatrix(fn, args), nil
	case *value.Map:
		if len(args) == 1 {
			v, _ := fn.Get(value.ToString(args[0]))
			return v, nil
		}
	case value.String:
		if len(args) == 1 {
			rs := []rune(string(fn))
			if i, ok := index(args[0]); ok && i < len(rs) {
				return value.String(rs[i]), nil
			}
		}
	}
	return nil, nil
}

// indexMatrix reads one cell: m(i) is the i-th cell in row-major order and
// m(r, c) addresses row and column. Indices are zero-based.
func indexMatrix(m *value.Matrix, args []value.Value) value.Value {
	switch len(args) {
	case 1:
		i, ok := index(args[0])
		if !ok {
			return nil
		}
		v, _ := m.Index(i)
		return v
	case 2:
		r, ok1 := index(args[0])
		c, ok2 := index(args[1])
		if !ok1 || !ok2 {
			return nil
		}
		v, _ := m.At(r, c)
		return v
	}
	return nil
}

func index(v value.Value) (int, bool) {
	r, ok := value.AsReal(v)
	if !ok || r < 0 || r != math.Trunc(r) || r > math.MaxInt32 {
		return 0, false
	}
	return int(r), true
}

// closure returns a script function whose activations are children of the
// current frame.
func (in *Interpreter) closure(name string, params []string, static *syntax.Frame, body syntax.Node) *value.Func {
	parent := in.cur
	in.frames.frames[parent].captured = true
	return value.NewFunc(name, len(params), params, func(args []value.Value) (value.Value, error) {
		return in.invoke(parent, static, params, body, args)
	})
}

func (in *Interpreter) invoke(parent int, static *syntax.Frame, params []string, body syntax.Node, args []value.Value) (value.Value, error) {
	if err := in.ctx.Err(); err != nil {
		return nil, err
	}
	if in.depth >= in.maxDepth {
		return nil, ErrMaxDepth
	}
	in.depth++

	idx := in.frames.push(parent, static)
	saved := in.cur
	in.cur = idx
	defer func() {
		in.cur = saved
		in.frames.release(idx)
		in.depth--
	}()

	vars := in.frames.frames[idx].vars
	for i, p := range params {
		if i < len(args) {
			vars[p] = args[i]
		} else {
			vars[p] = nil
		}
	}

	switch b := body.(type) {
	case *syntax.BlockStmt:
		ctl, v, err := in.block(b.Stmts)
		if err != nil || ctl != ctlReturn {
			return nil, err
		}
		return v, nil
	case syntax.Expr:
		return in.eval(b)
	}
	return nil, nil
}

// await blocks until v, if it is a future, completes. Other values are
// returned unchanged.
func (in *Interpreter) await(v value.Value) (value.Value, error) {
	f, ok := v.(*value.Future)
	if !ok {
		return v, nil
	}

	type outcome struct {
		v   value.Value
		err error
	}
	done := make(chan outcome, 1)
	if err := f.OnComplete(func(v value.Value, err error) {
		done <- outcome{v, err}
	}); err != nil {
		return nil, hostFault(err, "await")
	}

	select {
	case o := <-done:
		if o.err != nil {
			return nil, hostFault(o.err, "await")
		}
		return o.v, nil
	case <-in.ctx.Done():
		return nil, in.ctx.Err()
	}
}

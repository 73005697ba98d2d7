package interp

import (
	"strings"

	"github.com/you-not-fish/calx/internal/builtin"
	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

var binaryOps = map[syntax.Token]builtin.Op{
	syntax.Add: builtin.Add,
	syntax.Sub: builtin.Sub,
	syntax.Mul: builtin.Mul,
	syntax.Div: builtin.Div,
	syntax.Rem: builtin.Mod,
	syntax.Pow: builtin.Pow,
	syntax.Eql: builtin.Equal,
	syntax.Neq: builtin.NotEqual,
	syntax.Lss: builtin.Less,
	syntax.Leq: builtin.LessEq,
	syntax.Gtr: builtin.Greater,
	syntax.Geq: builtin.GreaterEq,
}

var prefixOps = map[syntax.Token]builtin.Unary{
	syntax.Sub: builtin.Neg,
	syntax.Add: builtin.Plus,
	syntax.Not: builtin.Not,
}

func (in *Interpreter) eval(x syntax.Expr) (value.Value, error) {
	switch n := x.(type) {
	case nil, *syntax.Empty:
		return nil, nil

	case *syntax.Invalid:
		return nil, &SyntaxError{Diag: syntax.Diagnostic{Pos: n.Pos(), End: n.End(), Code: n.Code}}

	case *syntax.Constant:
		return n.Value, nil

	case *syntax.Variable:
		return in.variable(n)

	case *syntax.Identifier:
		return nil, nil

	case *syntax.Binary:
		return in.binary(n)

	case *syntax.PreUnary:
		v, err := in.eval(n.X)
		if err != nil {
			return nil, err
		}
		if n.Op == syntax.Await {
			return in.await(v)
		}
		op, ok := prefixOps[n.Op]
		if !ok {
			return nil, raise("unsupported prefix operator %s", n.Op)
		}
		return op(v), nil

	case *syntax.PostUnary:
		v, err := in.eval(n.X)
		if err != nil {
			return nil, err
		}
		return builtin.Factorial(v), nil

	case *syntax.Range:
		from, err := in.eval(n.From)
		if err != nil {
			return nil, err
		}
		var step value.Value
		if n.Step != nil {
			if step, err = in.eval(n.Step); err != nil {
				return nil, err
			}
		}
		to, err := in.eval(n.To)
		if err != nil {
			return nil, err
		}
		return builtin.Range(from, step, to), nil

	case *syntax.Conditional:
		t, err := in.eval(n.Test)
		if err != nil {
			return nil, err
		}
		if value.Truthy(t) {
			return in.eval(n.Then)
		}
		return in.eval(n.Else)

	case *syntax.Call:
		f, err := in.eval(n.Fun)
		if err != nil {
			return nil, err
		}
		args, err := in.evalList(n.Args)
		if err != nil {
			return nil, err
		}
		return in.call(f, args)

	case *syntax.Arguments:
		switch len(n.List) {
		case 0:
			return nil, nil
		case 1:
			return in.eval(n.List[0])
		}
		vals, err := in.evalList(n.List)
		if err != nil {
			return nil, err
		}
		return value.NewArray(vals...), nil

	case *syntax.Matrix:
		return in.matrix(n)

	case *syntax.Object:
		m := value.NewMap()
		for _, p := range n.Props {
			prop, ok := p.(*syntax.Property)
			if !ok {
				if _, err := in.eval(p); err != nil {
					return nil, err
				}
				continue
			}
			v, err := in.eval(prop.Value)
			if err != nil {
				return nil, err
			}
			m.Set(prop.Key, v)
		}
		return m, nil

	case *syntax.Function:
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		return in.closure("", params, n.Frame, n.Body), nil

	case *syntax.Member:
		obj, err := in.eval(n.X)
		if err != nil {
			return nil, err
		}
		if m, ok := obj.(*value.Map); ok {
			v, _ := m.Get(n.Sel.Name)
			return v, nil
		}
		return nil, nil

	case *syntax.Assignment:
		return in.assignment(n)

	case *syntax.Interpolated:
		var b strings.Builder
		for i, part := range n.Format {
			b.WriteString(part)
			if i < len(n.Replacements) {
				v, err := in.eval(n.Replacements[i])
				if err != nil {
					return nil, err
				}
				b.WriteString(value.ToString(v))
			}
		}
		return value.String(b.String()), nil

	case *syntax.Jsx:
		return in.jsx(n)
	}
	return nil, raise("cannot evaluate %T", x)
}

func (in *Interpreter) evalList(list []syntax.Expr) ([]value.Value, error) {
	vals := make([]value.Value, len(list))
	for i, x := range list {
		v, err := in.eval(x)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (in *Interpreter) binary(n *syntax.Binary) (value.Value, error) {
	x, err := in.eval(n.X)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case syntax.AndAnd:
		if !value.Truthy(x) {
			return value.Bool(false), nil
		}
		y, err := in.eval(n.Y)
		if err != nil {
			return nil, err
		}
		return value.Bool(value.Truthy(y)), nil
	case syntax.OrOr:
		if value.Truthy(x) {
			return value.Bool(true), nil
		}
		y, err := in.eval(n.Y)
		if err != nil {
			return nil, err
		}
		return value.Bool(value.Truthy(y)), nil
	}

	y, err := in.eval(n.Y)
	if err != nil {
		return nil, err
	}
	if n.Op == syntax.Pipe {
		return in.call(y, []value.Value{x})
	}
	op, ok := binaryOps[n.Op]
	if !ok {
		return nil, raise("unsupported operator %s", n.Op)
	}
	return op(x, y), nil
}

// variable resolves x. A tagged variable is read from the activation of
// its declaring frame; otherwise the dynamic chain, the globals and the
// built-ins are searched in that order.
func (in *Interpreter) variable(x *syntax.Variable) (value.Value, error) {
	if x.Frame != nil {
		if i := in.frames.owner(in.cur, x.Frame); i >= 0 {
			if v, ok := in.frames.frames[i].vars[x.Name]; ok {
				return v, nil
			}
		}
	}
	if v, ok := in.frames.lookup(in.cur, x.Name); ok {
		return v, nil
	}
	if v, ok := builtin.Lookup(x.Name); ok {
		return v, nil
	}
	names := uniqueSorted(in.frames.visible(in.cur), builtin.Names())
	return nil, &UndefinedError{Pos: x.Pos(), Name: x.Name, Suggestion: suggest(x.Name, names)}
}

// setVariable writes an existing binding, or creates a global.
func (in *Interpreter) setVariable(x *syntax.Variable, v value.Value) {
	if x.Frame != nil {
		if i := in.frames.owner(in.cur, x.Frame); i >= 0 {
			in.frames.frames[i].vars[x.Name] = v
			return
		}
	}
	in.frames.assign(in.cur, x.Name, v)
}

// declare binds x in the activation of its declaring frame.
func (in *Interpreter) declare(x *syntax.Variable, v value.Value) {
	i := in.frames.owner(in.cur, x.Frame)
	if i < 0 {
		i = in.cur
	}
	in.frames.frames[i].vars[x.Name] = v
}

func (in *Interpreter) assignment(n *syntax.Assignment) (value.Value, error) {
	if c, ok := n.Target.(*syntax.Call); ok {
		return in.defineFunc(c, n.Value)
	}

	v, err := in.eval(n.Value)
	if err != nil {
		return nil, err
	}
	if err := in.store(n.Target, v); err != nil {
		return nil, err
	}
	return v, nil
}

// store writes v to an assignable expression.
func (in *Interpreter) store(target syntax.Expr, v value.Value) error {
	switch t := target.(type) {
	case *syntax.Variable:
		in.setVariable(t, v)
		return nil
	case *syntax.Member:
		obj, err := in.eval(t.X)
		if err != nil {
			return err
		}
		m, ok := obj.(*value.Map)
		if !ok {
			return raise("cannot set property %s of %s", t.Sel.Name, value.KindOf(obj))
		}
		m.Set(t.Sel.Name, v)
		return nil
	case *syntax.Invalid:
		_, err := in.eval(t)
		return err
	}
	return raise("cannot assign to %T", target)
}

// defineFunc handles f(x, y) = body: the body is not evaluated but becomes
// a function of the listed parameters.
func (in *Interpreter) defineFunc(c *syntax.Call, body syntax.Expr) (value.Value, error) {
	params := make([]string, len(c.Args))
	for i, a := range c.Args {
		p, ok := a.(*syntax.Variable)
		if !ok {
			return nil, raise("parameter %d of function definition is not a name", i+1)
		}
		params[i] = p.Name
	}

	var name string
	switch fun := c.Fun.(type) {
	case *syntax.Variable:
		name = fun.Name
	case *syntax.Member:
		name = fun.Sel.Name
	}
	f := in.closure(name, params, nil, body)
	if err := in.store(c.Fun, f); err != nil {
		return nil, err
	}
	return f, nil
}

// matrix evaluates a matrix literal. Row vectors inside a row are spliced,
// so [0, 1..3] has four cells. Literals with non-numeric or ragged rows
// become arrays (of arrays for more than one row).
func (in *Interpreter) matrix(n *syntax.Matrix) (value.Value, error) {
	rows := make([][]value.Value, 0, len(n.Rows))
	numeric := true
	for _, r := range n.Rows {
		var row []value.Value
		for _, x := range r {
			v, err := in.eval(x)
			if err != nil {
				return nil, err
			}
			if m, ok := v.(*value.Matrix); ok && m.Rows() == 1 {
				row = append(row, m.Cells()...)
				continue
			}
			if !value.IsNumeric(v) {
				numeric = false
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return value.Reals(0, 0), nil
	}
	cols := len(rows[0])
	for _, r := range rows[1:] {
		if len(r) != cols {
			numeric = false
		}
	}
	if numeric {
		cells := make([]value.Value, 0, len(rows)*cols)
		for _, r := range rows {
			cells = append(cells, r...)
		}
		if m := value.NewMatrix(len(rows), cols, cells); m != nil {
			return m, nil
		}
	}

	if len(rows) == 1 {
		return value.NewArray(rows[0]...), nil
	}
	arr := value.NewArray()
	for _, r := range rows {
		arr.Push(value.NewArray(r...))
	}
	return arr, nil
}

// jsx builds a markup element. A plain tag yields {tag, props, children};
// a component tag bound to a function is called with (props, children).
func (in *Interpreter) jsx(n *syntax.Jsx) (value.Value, error) {
	props := value.NewMap()
	for _, p := range n.Props {
		prop, ok := p.(*syntax.Property)
		if !ok {
			if _, err := in.eval(p); err != nil {
				return nil, err
			}
			continue
		}
		v, err := in.eval(prop.Value)
		if err != nil {
			return nil, err
		}
		props.Set(prop.Key, v)
	}
	children := value.NewArray()
	for _, c := range n.Children {
		v, err := in.eval(c)
		if err != nil {
			return nil, err
		}
		children.Push(v)
	}

	var tag value.Value
	if id, ok := n.Tag.(*syntax.Identifier); ok {
		tag = value.String(id.Name)
	} else {
		t, err := in.eval(n.Tag)
		if err != nil {
			return nil, err
		}
		if _, ok := t.(*value.Func); ok {
			return in.call(t, []value.Value{props, children})
		}
		tag = t
	}

	el := value.NewMap()
	el.Set("tag", tag)
	el.Set("props", props)
	el.Set("children", children)
	return el, nil
}

package interp

import (
	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

// control reports how a statement ended.
type control int

const (
	ctlNone control = iota
	ctlBreak
	ctlContinue
	ctlReturn
)

// exec runs one statement. The value is the result of an expression
// statement or of a return.
func (in *Interpreter) exec(s syntax.Stmt) (control, value.Value, error) {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		v, err := in.eval(s.X)
		return ctlNone, v, err

	case *syntax.BlockStmt:
		return in.block(s.Stmts)

	case *syntax.IfStmt:
		c, err := in.eval(s.Cond)
		if err != nil {
			return ctlNone, nil, err
		}
		if value.Truthy(c) {
			if s.Then == nil {
				return ctlNone, nil, nil
			}
			return in.block(s.Then.Stmts)
		}
		if s.Else != nil {
			return in.exec(s.Else)
		}

	case *syntax.WhileStmt:
		for {
			if err := in.ctx.Err(); err != nil {
				return ctlNone, nil, err
			}
			c, err := in.eval(s.Cond)
			if err != nil {
				return ctlNone, nil, err
			}
			if !value.Truthy(c) {
				break
			}
			if s.Body == nil {
				continue
			}
			ctl, v, err := in.block(s.Body.Stmts)
			if err != nil || ctl == ctlReturn {
				return ctl, v, err
			}
			if ctl == ctlBreak {
				break
			}
		}

	case *syntax.ForStmt:
		return in.forStmt(s)

	case *syntax.ReturnStmt:
		if s.Result == nil {
			return ctlReturn, nil, nil
		}
		v, err := in.eval(s.Result)
		if err != nil {
			return ctlNone, nil, err
		}
		return ctlReturn, v, nil

	case *syntax.BranchStmt:
		if s.Tok == syntax.Break {
			return ctlBreak, nil, nil
		}
		return ctlContinue, nil, nil

	case *syntax.LetStmt:
		v, err := in.eval(s.Value)
		if err != nil {
			return ctlNone, nil, err
		}
		if s.Name != nil {
			in.declare(s.Name, v)
		}
	}
	return ctlNone, nil, nil
}

func (in *Interpreter) block(list []syntax.Stmt) (control, value.Value, error) {
	for _, s := range list {
		if err := in.ctx.Err(); err != nil {
			return ctlNone, nil, err
		}
		ctl, v, err := in.exec(s)
		if err != nil || ctl != ctlNone {
			return ctl, v, err
		}
	}
	return ctlNone, nil, nil
}

func (in *Interpreter) forStmt(s *syntax.ForStmt) (control, value.Value, error) {
	coll, err := in.eval(s.X)
	if err != nil {
		return ctlNone, nil, err
	}
	if s.Value == nil {
		return ctlNone, nil, nil
	}

	for _, it := range items(coll) {
		if err := in.ctx.Err(); err != nil {
			return ctlNone, nil, err
		}
		if s.Key != nil {
			in.declare(s.Key, it.key)
		}
		in.declare(s.Value, it.val)
		if s.Body == nil {
			continue
		}
		ctl, v, err := in.block(s.Body.Stmts)
		if err != nil || ctl == ctlReturn {
			return ctl, v, err
		}
		if ctl == ctlBreak {
			break
		}
	}
	return ctlNone, nil, nil
}

type item struct {
	key, val value.Value
}

// items lists the (key, value) pairs a for loop visits: cells of a matrix
// by flat index, entries of a map by key, characters of a string. Null
// yields nothing and any other value is visited once.
func items(coll value.Value) []item {
	var out []item
	switch c := coll.(type) {
	case nil:
	case *value.Matrix:
		for i, v := range c.Cells() {
			out = append(out, item{value.Real(i), v})
		}
	case *value.Map:
		c.Range(func(k string, v value.Value) bool {
			out = append(out, item{value.String(k), v})
			return true
		})
	case value.String:
		for i, r := range []rune(string(c)) {
			out = append(out, item{value.Real(i), value.String(r)})
		}
	default:
		out = append(out, item{value.Real(0), c})
	}
	return out
}

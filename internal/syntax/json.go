package syntax

import (
	"encoding/json"
	"io"

	"github.com/you-not-fish/calx/internal/value"
)

// FprintJSON writes a JSON representation of the AST to w.
func FprintJSON(w io.Writer, node Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(toJSON(node))
}

// FprintStmtsJSON writes a statement list as a JSON array.
func FprintStmtsJSON(w io.Writer, list []Stmt) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(mapSlice(list, func(s Stmt) interface{} { return toJSON(s) }))
}

type object = map[string]interface{}

// newObject starts the JSON form of n with its type tag and span.
func newObject(typ string, n Node) object {
	return object{
		"type": typ,
		"pos":  n.Pos().String(),
		"end":  n.End().String(),
	}
}

func toJSON(node Node) interface{} {
	if node == nil {
		return nil
	}

	switch n := node.(type) {
	case *Empty:
		return newObject("Empty", n)

	case *Invalid:
		m := newObject("Invalid", n)
		m["code"] = n.Code.Name()
		m["message"] = n.Code.String()
		return m

	case *Constant:
		m := newObject("Constant", n)
		m["kind"] = value.KindOf(n.Value).String()
		m["value"] = value.Format(n.Value)
		return m

	case *Variable:
		m := newObject("Variable", n)
		m["name"] = n.Name
		m["local"] = n.Frame != nil
		return m

	case *Identifier:
		m := newObject("Identifier", n)
		m["name"] = n.Name
		return m

	case *Binary:
		m := newObject("Binary", n)
		m["op"] = n.Op.String()
		m["x"] = toJSON(n.X)
		m["y"] = toJSON(n.Y)
		if n.Implicit {
			m["implicit"] = true
		}
		return m

	case *PreUnary:
		m := newObject("PreUnary", n)
		m["op"] = n.Op.String()
		m["x"] = toJSON(n.X)
		return m

	case *PostUnary:
		m := newObject("PostUnary", n)
		m["op"] = n.Op.String()
		m["x"] = toJSON(n.X)
		return m

	case *Range:
		m := newObject("Range", n)
		m["from"] = toJSON(n.From)
		if n.Step != nil {
			m["step"] = toJSON(n.Step)
		}
		m["to"] = toJSON(n.To)
		return m

	case *Conditional:
		m := newObject("Conditional", n)
		m["test"] = toJSON(n.Test)
		m["then"] = toJSON(n.Then)
		m["else"] = toJSON(n.Else)
		return m

	case *Call:
		m := newObject("Call", n)
		m["fun"] = toJSON(n.Fun)
		m["args"] = mapSlice(n.Args, exprJSON)
		return m

	case *Arguments:
		m := newObject("Arguments", n)
		m["list"] = mapSlice(n.List, exprJSON)
		return m

	case *Matrix:
		m := newObject("Matrix", n)
		m["rows"] = mapSlice(n.Rows, func(row []Expr) interface{} { return mapSlice(row, exprJSON) })
		return m

	case *Object:
		m := newObject("Object", n)
		m["props"] = mapSlice(n.Props, exprJSON)
		return m

	case *Property:
		m := newObject("Property", n)
		m["key"] = n.Key
		m["value"] = toJSON(n.Value)
		return m

	case *Function:
		m := newObject("Function", n)
		m["params"] = mapSlice(n.Params, func(v *Variable) interface{} { return v.Name })
		m["body"] = toJSON(n.Body)
		return m

	case *Member:
		m := newObject("Member", n)
		m["x"] = toJSON(n.X)
		m["sel"] = n.Sel.Name
		return m

	case *Assignment:
		m := newObject("Assignment", n)
		m["target"] = toJSON(n.Target)
		m["value"] = toJSON(n.Value)
		return m

	case *Interpolated:
		m := newObject("Interpolated", n)
		m["format"] = n.Format
		m["replacements"] = mapSlice(n.Replacements, exprJSON)
		return m

	case *Jsx:
		m := newObject("Jsx", n)
		m["tag"] = toJSON(n.Tag)
		m["props"] = mapSlice(n.Props, exprJSON)
		m["children"] = mapSlice(n.Children, exprJSON)
		return m

	case *ExprStmt:
		m := newObject("ExprStmt", n)
		m["x"] = toJSON(n.X)
		return m

	case *BlockStmt:
		m := newObject("BlockStmt", n)
		m["stmts"] = mapSlice(n.Stmts, func(s Stmt) interface{} { return toJSON(s) })
		return m

	case *IfStmt:
		m := newObject("IfStmt", n)
		m["cond"] = toJSON(n.Cond)
		m["then"] = toJSON(n.Then)
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}
		return m

	case *WhileStmt:
		m := newObject("WhileStmt", n)
		m["cond"] = toJSON(n.Cond)
		m["body"] = toJSON(n.Body)
		return m

	case *ForStmt:
		m := newObject("ForStmt", n)
		if n.Key != nil {
			m["key"] = n.Key.Name
		}
		if n.Value != nil {
			m["value"] = n.Value.Name
		}
		m["x"] = toJSON(n.X)
		m["body"] = toJSON(n.Body)
		return m

	case *ReturnStmt:
		m := newObject("ReturnStmt", n)
		if n.Result != nil {
			m["result"] = toJSON(n.Result)
		}
		return m

	case *BranchStmt:
		m := newObject("BranchStmt", n)
		m["token"] = n.Tok.String()
		return m

	case *LetStmt:
		m := newObject("LetStmt", n)
		m["name"] = n.Name.Name
		if n.Value != nil {
			m["value"] = toJSON(n.Value)
		}
		return m

	default:
		return object{
			"type": "Unknown",
		}
	}
}

func exprJSON(x Expr) interface{} {
	return toJSON(x)
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}

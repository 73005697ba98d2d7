package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order, visiting children in source
// order. If visitor returns false, children are not visited.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Binary:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *PreUnary:
		Walk(n.X, v)

	case *PostUnary:
		Walk(n.X, v)

	case *Range:
		Walk(n.From, v)
		if n.Step != nil {
			Walk(n.Step, v)
		}
		Walk(n.To, v)

	case *Conditional:
		Walk(n.Test, v)
		Walk(n.Then, v)
		Walk(n.Else, v)

	case *Call:
		Walk(n.Fun, v)
		walkList(n.Args, v)

	case *Arguments:
		walkList(n.List, v)

	case *Matrix:
		for _, row := range n.Rows {
			walkList(row, v)
		}

	case *Object:
		walkList(n.Props, v)

	case *Property:
		Walk(n.Value, v)

	case *Function:
		for _, p := range n.Params {
			Walk(p, v)
		}
		Walk(n.Body, v)

	case *Member:
		Walk(n.X, v)
		Walk(n.Sel, v)

	case *Assignment:
		Walk(n.Target, v)
		Walk(n.Value, v)

	case *Interpolated:
		walkList(n.Replacements, v)

	case *Jsx:
		Walk(n.Tag, v)
		walkList(n.Props, v)
		walkList(n.Children, v)

	case *ExprStmt:
		Walk(n.X, v)

	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, v)
		}

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *ForStmt:
		if n.Key != nil {
			Walk(n.Key, v)
		}
		if n.Value != nil {
			Walk(n.Value, v)
		}
		Walk(n.X, v)
		Walk(n.Body, v)

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, v)
		}

	case *LetStmt:
		Walk(n.Name, v)
		if n.Value != nil {
			Walk(n.Value, v)
		}

	// Leaf nodes: Empty, Invalid, Constant, Variable, Identifier, BranchStmt
	// No children to visit
	}
}

func walkList(list []Expr, v Visitor) {
	for _, x := range list {
		Walk(x, v)
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

// DiagnosticsOf collects the Invalid leaves of a statement list.
func DiagnosticsOf(list []Stmt) []Diagnostic {
	var out []Diagnostic
	for _, s := range list {
		out = append(out, Diagnostics(s)...)
	}
	return out
}

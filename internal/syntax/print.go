package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/you-not-fish/calx/internal/value"
)

// Fprint writes a textual representation of the AST to w.
func Fprint(w io.Writer, node Node) {
	p := &printer{w: w}
	p.print(node)
}

// FprintStmts writes every statement of list to w.
func FprintStmts(w io.Writer, list []Stmt) {
	p := &printer{w: w}
	for _, s := range list {
		p.print(s)
	}
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// field prints a labelled child one level deeper.
func (p *printer) field(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) list(label string, list []Expr) {
	if len(list) == 0 {
		return
	}
	p.printf("%s:\n", label)
	p.indent++
	for _, x := range list {
		p.print(x)
	}
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		p.printf("<nil>\n")
		return
	}

	switch n := node.(type) {
	case *Empty:
		p.printf("Empty %s\n", n.pos)

	case *Invalid:
		p.printf("Invalid %s %q\n", n.pos, n.Code)

	case *Constant:
		p.printf("Constant %s %s\n", n.pos, value.Format(n.Value))

	case *Variable:
		if n.Frame != nil {
			p.printf("Variable %s %s (local)\n", n.pos, n.Name)
		} else {
			p.printf("Variable %s %s\n", n.pos, n.Name)
		}

	case *Identifier:
		p.printf("Identifier %s %q\n", n.pos, n.Name)

	case *Binary:
		if n.Implicit {
			p.printf("Binary %s %s (implicit)\n", n.pos, n.Op)
		} else {
			p.printf("Binary %s %s\n", n.pos, n.Op)
		}
		p.indent++
		p.field("X", n.X)
		p.field("Y", n.Y)
		p.indent--

	case *PreUnary:
		p.printf("PreUnary %s %s\n", n.pos, n.Op)
		p.indent++
		p.print(n.X)
		p.indent--

	case *PostUnary:
		p.printf("PostUnary %s %s\n", n.pos, n.Op)
		p.indent++
		p.print(n.X)
		p.indent--

	case *Range:
		p.printf("Range %s\n", n.pos)
		p.indent++
		p.field("From", n.From)
		if n.Step != nil {
			p.field("Step", n.Step)
		}
		p.field("To", n.To)
		p.indent--

	case *Conditional:
		p.printf("Conditional %s\n", n.pos)
		p.indent++
		p.field("Test", n.Test)
		p.field("Then", n.Then)
		p.field("Else", n.Else)
		p.indent--

	case *Call:
		p.printf("Call %s\n", n.pos)
		p.indent++
		p.field("Fun", n.Fun)
		p.list("Args", n.Args)
		p.indent--

	case *Arguments:
		p.printf("Arguments %s\n", n.pos)
		p.indent++
		for _, x := range n.List {
			p.print(x)
		}
		p.indent--

	case *Matrix:
		p.printf("Matrix %s\n", n.pos)
		p.indent++
		for i, row := range n.Rows {
			p.printf("Row %d:\n", i)
			p.indent++
			for _, x := range row {
				p.print(x)
			}
			p.indent--
		}
		p.indent--

	case *Object:
		p.printf("Object %s\n", n.pos)
		p.indent++
		for _, x := range n.Props {
			p.print(x)
		}
		p.indent--

	case *Property:
		p.printf("Property %s %q\n", n.pos, n.Key)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *Function:
		names := make([]string, len(n.Params))
		for i, v := range n.Params {
			names[i] = v.Name
		}
		p.printf("Function %s (%s)\n", n.pos, strings.Join(names, ", "))
		p.indent++
		p.print(n.Body)
		p.indent--

	case *Member:
		p.printf("Member %s %s\n", n.pos, n.Sel.Name)
		p.indent++
		p.print(n.X)
		p.indent--

	case *Assignment:
		p.printf("Assignment %s\n", n.pos)
		p.indent++
		p.field("Target", n.Target)
		p.field("Value", n.Value)
		p.indent--

	case *Interpolated:
		p.printf("Interpolated %s %q\n", n.pos, n.Format)
		p.indent++
		for _, x := range n.Replacements {
			p.print(x)
		}
		p.indent--

	case *Jsx:
		p.printf("Jsx %s <%s>\n", n.pos, tagPath(n.Tag))
		p.indent++
		p.list("Props", n.Props)
		p.list("Children", n.Children)
		p.indent--

	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Then", n.Then)
		if n.Else != nil {
			p.field("Else", n.Else)
		}
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.field("Cond", n.Cond)
		p.field("Body", n.Body)
		p.indent--

	case *ForStmt:
		p.printf("ForStmt %s\n", n.pos)
		p.indent++
		if n.Key != nil {
			p.printf("Key: %s\n", n.Key.Name)
		}
		if n.Value != nil {
			p.printf("Value: %s\n", n.Value.Name)
		}
		p.field("In", n.X)
		p.field("Body", n.Body)
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Result != nil {
			p.indent++
			p.print(n.Result)
			p.indent--
		}

	case *BranchStmt:
		p.printf("BranchStmt %s %s\n", n.pos, n.Tok)

	case *LetStmt:
		p.printf("LetStmt %s %s\n", n.pos, n.Name.Name)
		if n.Value != nil {
			p.indent++
			p.print(n.Value)
			p.indent--
		}

	default:
		p.printf("<%T>\n", node)
	}
}

// String renders a node as a compact S-expression, e.g. (^ 1 (^ 2 3)).
// Invalid nodes render as !Name, Empty as _.
func String(n Node) string {
	var b strings.Builder
	sexpr(&b, n)
	return b.String()
}

func sexpr(b *strings.Builder, node Node) {
	write := func(head string, kids ...Node) {
		b.WriteString("(")
		b.WriteString(head)
		for _, k := range kids {
			b.WriteString(" ")
			sexpr(b, k)
		}
		b.WriteString(")")
	}
	exprs := func(list []Expr) []Node {
		out := make([]Node, len(list))
		for i, x := range list {
			out[i] = x
		}
		return out
	}

	switch n := node.(type) {
	case nil:
		b.WriteString("nil")
	case *Empty:
		b.WriteString("_")
	case *Invalid:
		b.WriteString("!" + n.Code.Name())
	case *Constant:
		b.WriteString(value.Format(n.Value))
	case *Variable:
		b.WriteString(n.Name)
	case *Identifier:
		fmt.Fprintf(b, "%q", n.Name)
	case *Binary:
		write(n.Op.String(), n.X, n.Y)
	case *PreUnary:
		write(n.Op.String(), n.X)
	case *PostUnary:
		write("post"+n.Op.String(), n.X)
	case *Range:
		if n.Step != nil {
			write("..", n.From, n.Step, n.To)
		} else {
			write("..", n.From, n.To)
		}
	case *Conditional:
		write("?", n.Test, n.Then, n.Else)
	case *Call:
		write("call", append([]Node{n.Fun}, exprs(n.Args)...)...)
	case *Arguments:
		write("args", exprs(n.List)...)
	case *Matrix:
		var rows []Node
		for _, row := range n.Rows {
			a := &Arguments{List: row}
			rows = append(rows, a)
		}
		write("matrix", rows...)
	case *Object:
		write("object", exprs(n.Props)...)
	case *Property:
		write(n.Key+":", n.Value)
	case *Function:
		params := make([]Expr, len(n.Params))
		for i, v := range n.Params {
			params[i] = v
		}
		write("=>", &Arguments{List: params}, n.Body)
	case *Member:
		write(".", n.X, n.Sel)
	case *Assignment:
		write("=", n.Target, n.Value)
	case *Interpolated:
		write(fmt.Sprintf("template %q", n.Format), exprs(n.Replacements)...)
	case *Jsx:
		kids := []Node{n.Tag}
		kids = append(kids, exprs(n.Props)...)
		kids = append(kids, exprs(n.Children)...)
		write("jsx", kids...)
	case *ExprStmt:
		sexpr(b, n.X)
	case *BlockStmt:
		var kids []Node
		for _, s := range n.Stmts {
			kids = append(kids, s)
		}
		write("block", kids...)
	case *IfStmt:
		if n.Else != nil {
			write("if", n.Cond, n.Then, n.Else)
		} else {
			write("if", n.Cond, n.Then)
		}
	case *WhileStmt:
		write("while", n.Cond, n.Body)
	case *ForStmt:
		var kids []Node
		if n.Key != nil {
			kids = append(kids, n.Key)
		}
		if n.Value != nil {
			kids = append(kids, n.Value)
		}
		write("for", append(kids, n.X, n.Body)...)
	case *ReturnStmt:
		if n.Result != nil {
			write("return", n.Result)
		} else {
			write("return")
		}
	case *BranchStmt:
		write(n.Tok.String())
	case *LetStmt:
		if n.Value != nil {
			write("let", n.Name, n.Value)
		} else {
			write("let", n.Name)
		}
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}

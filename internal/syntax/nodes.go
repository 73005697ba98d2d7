package syntax

import "github.com/you-not-fish/calx/internal/value"

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 classes of nodes: Expressions and Statements. All nodes
// implement the Node interface and carry the span they were parsed from.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of first character belonging to the node
	End() Pos // position of first character immediately after the node
	aNode()   // marker method to restrict implementations to this package
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	// Assignable reports whether the expression may appear on the left of =.
	Assignable() bool
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

// node is the base struct embedded in all AST nodes.
type node struct {
	pos, end Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) End() Pos { return n.end }
func (n *node) aNode()   {}

func (n *node) span(pos, end Pos) {
	n.pos, n.end = pos, end
}

// expr is embedded in all expression nodes.
type expr struct{ node }

func (*expr) Assignable() bool { return false }
func (*expr) aExpr()           {}

// stmt is embedded in all statement nodes.
type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Expressions

// Empty stands for a missing operand, e.g. the right side of "1 +".
type Empty struct {
	expr
}

// Invalid replaces a malformed construct. Evaluating it is an error.
type Invalid struct {
	expr
	Code Code
}

// Constant is a literal number, string, boolean or null.
type Constant struct {
	expr
	Value value.Value // nil for null
}

// Variable is a reference to a name resolved at run time. Frame is the
// function frame that declares the name, or nil for globals.
type Variable struct {
	expr
	Name  string
	Frame *Frame
}

func (*Variable) Assignable() bool { return true }

// Identifier is a bare name that is not looked up: a member selector, a
// property key or a lower-case markup tag.
type Identifier struct {
	expr
	Name string
}

// Binary is X Op Y. Implicit marks a multiplication written by
// juxtaposition, as in 2x.
type Binary struct {
	expr
	Op       Token
	X, Y     Expr
	Implicit bool
}

// PreUnary is Op X for -, +, ! and await.
type PreUnary struct {
	expr
	Op Token
	X  Expr
}

// PostUnary is X Op; the only postfix operator is ! (factorial).
type PostUnary struct {
	expr
	Op Token
	X  Expr
}

// Range is From..To or From..Step..To. Step is nil when omitted.
type Range struct {
	expr
	From, Step, To Expr
}

// Conditional is Test ? Then : Else.
type Conditional struct {
	expr
	Test, Then, Else Expr
}

// Call is Fun(Args...).
type Call struct {
	expr
	Fun  Expr
	Args []Expr
}

func (*Call) Assignable() bool { return true }

// Arguments is a parenthesized list. With one element it is a plain
// grouping; followed by => it is a parameter list.
type Arguments struct {
	expr
	List []Expr
}

// Matrix is [a, b; c, d]. Rows may be ragged.
type Matrix struct {
	expr
	Rows [][]Expr
}

// Object is {key: value, ...}. Props holds *Property and *Invalid nodes.
type Object struct {
	expr
	Props []Expr
}

// Property is one key: value entry of an Object.
type Property struct {
	expr
	Key   string
	Value Expr
}

// Function is (Params) => Body. Body is a *BlockStmt or an Expr.
type Function struct {
	expr
	Frame  *Frame
	Params []*Variable
	Body   Node
}

// Member is X.Sel.
type Member struct {
	expr
	X   Expr
	Sel *Identifier
}

func (*Member) Assignable() bool { return true }

// Assignment is Target = Value. Compound forms are desugared.
type Assignment struct {
	expr
	Target Expr
	Value  Expr
}

// Interpolated is a template string. len(Format) == len(Replacements)+1.
type Interpolated struct {
	expr
	Format       []string
	Replacements []Expr
}

// Jsx is a markup element. Tag is an *Identifier (lower-case and fragment
// tags, Name "" for fragments), a *Variable or a *Member for components.
type Jsx struct {
	expr
	Tag      Expr
	Props    []Expr // *Property or *Invalid
	Children []Expr
}

// ----------------------------------------------------------------------------
// Statements

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	stmt
	X Expr
}

// BlockStmt is { Stmts... }.
type BlockStmt struct {
	stmt
	Stmts []Stmt
}

// IfStmt is if Cond Then [else Else]. Else is nil, *IfStmt or *BlockStmt.
type IfStmt struct {
	stmt
	Cond Expr
	Then *BlockStmt
	Else Stmt
}

// WhileStmt is while Cond { Body }.
type WhileStmt struct {
	stmt
	Cond Expr
	Body *BlockStmt
}

// ForStmt is for [Key,] Value in X { Body }. Key is nil for the one-name
// form.
type ForStmt struct {
	stmt
	Key, Value *Variable
	X          Expr
	Body       *BlockStmt
}

// ReturnStmt is return [Result].
type ReturnStmt struct {
	stmt
	Result Expr // nil for bare return
}

// BranchStmt is break or continue.
type BranchStmt struct {
	stmt
	Tok Token
}

// LetStmt is let Name = Value. It declares Name in the innermost function
// frame.
type LetStmt struct {
	stmt
	Name  *Variable
	Value Expr
}

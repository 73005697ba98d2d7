package syntax

import (
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/you-not-fish/calx/internal/value"
)

// Parser performs syntax analysis over a lexeme stream.
//
// Parsing never fails. Malformed input becomes Invalid nodes carrying a
// diagnostic Code and the parser continues after the offending lexeme, so
// every input yields exactly one tree.
type Parser struct {
	toks  *TokenStream
	scope *Tracker // shared with template sub-parsers

	// Current lexeme (cached from toks)
	lex  Lexeme
	tok  Token
	prev Pos // end of the last consumed lexeme
}

// NewParser creates a Parser over toks as produced by the Scanner.
func NewParser(toks []Lexeme) *Parser {
	return newParser(toks, new(Tracker))
}

func newParser(toks []Lexeme, scope *Tracker) *Parser {
	p := &Parser{toks: NewTokenStream(toks), scope: scope}
	p.lex = p.toks.Current()
	p.tok = p.lex.Tok
	p.prev = p.lex.Pos
	return p
}

// ParseExpression parses toks as a single expression.
func ParseExpression(toks []Lexeme) Expr {
	return NewParser(toks).Expression()
}

// ParseStatements parses toks as a statement list.
func ParseStatements(toks []Lexeme) []Stmt {
	return NewParser(toks).Statements()
}

// ParseString scans and parses src as a single expression.
func ParseString(src string) Expr {
	return ParseExpression(TokenizeString(src))
}

// ParseFile scans and parses src as a statement list.
func ParseFile(filename string, src []byte) []Stmt {
	return ParseStatements(NewScanner(filename, src).All())
}

// ----------------------------------------------------------------------------
// Token navigation

// next advances to the next significant lexeme.
func (p *Parser) next() {
	p.prev = p.lex.End
	p.toks.Advance()
	p.lex = p.toks.Current()
	p.tok = p.lex.Tok
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Token) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// mark returns an opaque cursor used to detect whether a parse consumed
// anything.
func (p *Parser) mark() int {
	return p.toks.i
}

// ----------------------------------------------------------------------------
// Error recovery

// bad replaces the current lexeme with an Invalid node and consumes it.
func (p *Parser) bad(code Code) *Invalid {
	x := &Invalid{Code: code}
	x.span(p.lex.Pos, p.lex.End)
	p.next()
	return x
}

// missing returns a zero-width Invalid node at the current lexeme without
// consuming it.
func (p *Parser) missing(code Code) *Invalid {
	x := &Invalid{Code: code}
	x.span(p.lex.Pos, p.lex.Pos)
	return x
}

func invalid(code Code, pos, end Pos) *Invalid {
	x := &Invalid{Code: code}
	x.span(pos, end)
	return x
}

func (p *Parser) empty() *Empty {
	x := new(Empty)
	x.span(p.lex.Pos, p.lex.Pos)
	return x
}

func binary(op Token, x, y Expr) *Binary {
	b := &Binary{Op: op, X: x, Y: y}
	b.span(x.Pos(), y.End())
	return b
}

// ----------------------------------------------------------------------------
// Entry points

// Expression parses the whole stream as one expression. Lexemes left over
// after a complete expression are folded in as Invalid factors so that the
// rest of the input is still parsed.
func (p *Parser) Expression() Expr {
	for p.got(_Semi) {
	}
	x := p.expr()
	for {
		for p.got(_Semi) {
		}
		if p.tok == _EOF {
			return x
		}
		x = binary(_Mul, x, p.bad(CodeUnexpectedToken))
		if y := p.expr(); !isEmpty(y) {
			x = binary(_Mul, x, y)
		}
	}
}

// Statements parses the whole stream as a statement list.
func (p *Parser) Statements() []Stmt {
	list, _ := p.stmtList(false)
	return list
}

// ----------------------------------------------------------------------------
// Expressions
//
// One method per precedence level, loosest first:
//
//	assignment   x = y, right-associative
//	lambda       params => body
//	conditional  a ? b : c
//	range        a..b, a..step..b
//	pipe         x |> f
//	or, and      || &&
//	equality     == !=
//	relational   < <= > >=
//	additive     + -
//	multiplicative * / % and juxtaposition
//	power        ^, right-associative
//	unary        - + ! await
//	postfix      x! f(args) x.name

// expr parses a full expression.
func (p *Parser) expr() Expr {
	return p.assignment()
}

func (p *Parser) assignment() Expr {
	x := p.lambda()
	if p.tok != _Assign {
		return x
	}
	p.next()
	return p.assign(x, p.assignment())
}

// assign builds target = v, or an Invalid node when target cannot be
// assigned to.
func (p *Parser) assign(target, v Expr) Expr {
	if !target.Assignable() {
		return invalid(CodeInvalidAssignment, target.Pos(), v.End())
	}
	a := &Assignment{Target: target, Value: v}
	a.span(target.Pos(), v.End())
	return a
}

// compound reports whether the operator just consumed, ending at opEnd, is
// directly followed by '=' as in x += y. The '=' is consumed if so.
func (p *Parser) compound(opEnd Pos) bool {
	if p.tok == _Assign && opEnd.Adjacent(p.lex.Pos) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) lambda() Expr {
	x := p.conditional()
	if p.tok != _Arrow {
		return x
	}

	var params []Expr
	switch x := x.(type) {
	case *Variable:
		params = []Expr{x}
	case *Arguments:
		params = x.List
	default:
		return x
	}
	p.next() // =>

	f := &Function{Frame: p.scope.PushNewFrame()}
	ok := true
	for _, e := range params {
		v, isVar := e.(*Variable)
		if !isVar {
			ok = false
			continue
		}
		v.Frame = f.Frame
		p.scope.Provide(v.Name, v)
		f.Params = append(f.Params, v)
	}
	if p.tok == _Lbrace {
		f.Body = p.blockStmt()
	} else {
		f.Body = p.expr()
	}
	p.scope.PopCurrentFrame()

	if !ok {
		return invalid(CodeInvalidParameter, x.Pos(), f.Body.End())
	}
	f.span(x.Pos(), f.Body.End())
	return f
}

func (p *Parser) conditional() Expr {
	x := p.rangeExpr()
	if p.tok != _Question {
		return x
	}
	p.next()

	c := &Conditional{Test: x}
	c.Then = p.lambda()
	if p.got(_Colon) {
		c.Else = p.lambda()
	} else {
		c.Else = p.missing(CodeColonExpected)
	}
	c.span(x.Pos(), c.Else.End())
	return c
}

func (p *Parser) rangeExpr() Expr {
	x := p.pipe()
	if p.tok != _Range {
		return x
	}
	p.next()

	r := &Range{From: x, To: p.pipe()}
	if p.got(_Range) {
		r.Step = r.To
		r.To = p.pipe()
	}
	r.span(x.Pos(), r.To.End())
	return r
}

func (p *Parser) pipe() Expr {
	x := p.or()
	for p.tok == _Pipe {
		p.next()
		x = binary(_Pipe, x, p.or())
	}
	return x
}

func (p *Parser) or() Expr {
	x := p.and()
	for p.tok == _OrOr {
		p.next()
		x = binary(_OrOr, x, p.and())
	}
	return x
}

func (p *Parser) and() Expr {
	x := p.equality()
	for p.tok == _AndAnd {
		p.next()
		x = binary(_AndAnd, x, p.equality())
	}
	return x
}

func (p *Parser) equality() Expr {
	x := p.relational()
	for p.tok == _Eql || p.tok == _Neq {
		op := p.tok
		p.next()
		x = binary(op, x, p.relational())
	}
	return x
}

func (p *Parser) relational() Expr {
	x := p.additive()
	for p.tok == _Lss || p.tok == _Leq || p.tok == _Gtr || p.tok == _Geq {
		op := p.tok
		p.next()
		x = binary(op, x, p.additive())
	}
	return x
}

func (p *Parser) additive() Expr {
	x := p.multiplicative()
	for p.tok == _Add || p.tok == _Sub {
		op, end := p.tok, p.lex.End
		p.next()
		if p.compound(end) {
			rhs := p.assignment()
			return p.assign(x, binary(op, x, rhs))
		}
		x = binary(op, x, p.multiplicative())
	}
	return x
}

func (p *Parser) multiplicative() Expr {
	x := p.power()
	for {
		switch p.tok {
		case _Mul, _Div, _Rem:
			op, end := p.tok, p.lex.End
			p.next()
			if p.compound(end) {
				rhs := p.assignment()
				return p.assign(x, binary(op, x, rhs))
			}
			x = binary(op, x, p.power())

		case _Name, _Number, _True, _False, _Null, _Lbrack, _Illegal:
			x = implicit(x, p.power())

		case _Lparen:
			if !isNumber(x) {
				return x
			}
			x = implicit(x, p.power())

		default:
			return x
		}
	}
}

func implicit(x, y Expr) *Binary {
	b := binary(_Mul, x, y)
	b.Implicit = true
	return b
}

// power collects a chain of unary operands separated by ^ and folds it from
// the right.
func (p *Parser) power() Expr {
	operands := []Expr{p.unary()}
	for p.tok == _Pow {
		end := p.lex.End
		p.next()
		if p.compound(end) {
			x := foldPower(operands)
			rhs := p.assignment()
			return p.assign(x, binary(_Pow, x, rhs))
		}
		operands = append(operands, p.unary())
	}
	return foldPower(operands)
}

func foldPower(operands []Expr) Expr {
	x := operands[len(operands)-1]
	for i := len(operands) - 2; i >= 0; i-- {
		x = binary(_Pow, operands[i], x)
	}
	return x
}

func (p *Parser) unary() Expr {
	switch p.tok {
	case _Sub, _Add, _Not, _Await:
		u := &PreUnary{Op: p.tok}
		pos := p.lex.Pos
		p.next()
		u.X = p.unary()
		u.span(pos, u.X.End())
		return u
	}
	return p.postfix()
}

// postfix parses an operand followed by calls, member selectors and the
// factorial operator.
func (p *Parser) postfix() Expr {
	x := p.operand()
	for {
		switch p.tok {
		case _Lparen:
			// 2(3) is a product, not a call
			if isNumber(x) {
				return x
			}
			x = p.call(x)

		case _Dot:
			p.next()
			if p.tok != _Name {
				return binary(_Mul, x, p.missing(CodeIdentifierExpected))
			}
			sel := &Identifier{Name: p.lex.Lit}
			sel.span(p.lex.Pos, p.lex.End)
			p.next()
			m := &Member{X: x, Sel: sel}
			m.span(x.Pos(), sel.End())
			x = m

		case _Not:
			p.next()
			u := &PostUnary{Op: _Not, X: x}
			u.span(x.Pos(), p.prev)
			x = u

		default:
			return x
		}
	}
}

// call parses the argument list of fun(args...).
func (p *Parser) call(fun Expr) Expr {
	c := &Call{Fun: fun}
	p.next() // (
	c.Args = p.list(_Rparen, CodeParenExpected)
	c.span(fun.Pos(), p.prev)
	return c
}

// list parses comma-separated expressions up to and including close. A
// missing close leaves a zero-width Invalid node as the last element.
func (p *Parser) list(close Token, code Code) []Expr {
	var list []Expr
	for p.tok != close {
		x := p.expr()
		if !isEmpty(x) || p.tok == _Comma {
			list = append(list, x)
		}
		if !p.got(_Comma) {
			break
		}
	}
	if !p.got(close) {
		list = append(list, p.missing(code))
	}
	return list
}

// operand parses a literal, a name or a bracketed construct. At a lexeme
// that cannot start an operand but may legitimately follow one, it returns
// Empty without consuming anything.
func (p *Parser) operand() Expr {
	switch p.tok {
	case _Number:
		return p.number()

	case _String:
		c := &Constant{Value: value.String(p.lex.Lit)}
		c.span(p.lex.Pos, p.lex.End)
		p.next()
		return c

	case _BadString:
		return p.bad(CodeUnterminatedString)

	case _Template:
		return p.template()

	case _True, _False:
		c := &Constant{Value: value.Bool(p.tok == _True)}
		c.span(p.lex.Pos, p.lex.End)
		p.next()
		return c

	case _Null:
		c := new(Constant)
		c.span(p.lex.Pos, p.lex.End)
		p.next()
		return c

	case _Name:
		return p.variable()

	case _Lparen:
		a := &Arguments{}
		pos := p.lex.Pos
		p.next()
		a.List = p.list(_Rparen, CodeParenExpected)
		a.span(pos, p.prev)
		return a

	case _Lbrack:
		return p.matrix()

	case _Lbrace:
		return p.object()

	case _Lss:
		return p.jsx()

	case _Illegal:
		return p.bad(CodeInvalidSymbol)

	case _EOF, _Rparen, _Rbrack, _Rbrace, _Comma, _Semi, _Colon:
		return p.empty()
	}
	return p.bad(CodeUnexpectedToken)
}

func (p *Parser) variable() *Variable {
	v := &Variable{Name: p.lex.Lit, Frame: p.scope.Find(p.lex.Lit)}
	v.span(p.lex.Pos, p.lex.End)
	p.next()
	return v
}

func (p *Parser) number() Expr {
	lit := p.lex.Lit
	var f float64
	var err error
	if len(lit) > 1 && lit[0] == '0' && lower(rune(lit[1])) == 'x' {
		var i int64
		i, err = strconv.ParseInt(lit, 0, 64)
		f = float64(i)
	} else {
		f, err = strconv.ParseFloat(lit, 64)
		if math.IsInf(f, 0) {
			err = nil
		}
	}
	if err != nil {
		return p.bad(CodeInvalidSymbol)
	}
	c := &Constant{Value: value.Real(f)}
	c.span(p.lex.Pos, p.lex.End)
	p.next()
	return c
}

// matrix parses [a, b; c, d]. Newlines inside the brackets separate rows.
func (p *Parser) matrix() Expr {
	m := &Matrix{}
	pos := p.lex.Pos
	p.next() // [

	var row []Expr
	endRow := func() {
		if len(row) > 0 {
			m.Rows = append(m.Rows, row)
			row = nil
		}
	}
	for {
		switch p.tok {
		case _Rbrack:
			p.next()
			endRow()
			m.span(pos, p.prev)
			return m

		case _EOF:
			row = append(row, p.missing(CodeUnterminatedMatrix))
			endRow()
			m.span(pos, p.prev)
			return m

		case _Semi:
			p.next()
			endRow()

		case _Comma:
			p.next()

		default:
			x := p.expr()
			if isEmpty(x) {
				x = p.bad(CodeUnexpectedToken)
			}
			row = append(row, x)
		}
	}
}

// object parses {key: value, ...}. Keys are names, strings or numbers; a
// bare name k is short for k: k.
func (p *Parser) object() Expr {
	o := &Object{}
	pos := p.lex.Pos
	p.next() // {

	for {
		switch p.tok {
		case _Rbrace:
			p.next()
			o.span(pos, p.prev)
			return o

		case _EOF:
			o.Props = append(o.Props, p.missing(CodeUnterminatedObject))
			o.span(pos, p.prev)
			return o

		case _Comma, _Semi:
			p.next()

		case _Name, _String, _Number:
			o.Props = append(o.Props, p.property())

		default:
			o.Props = append(o.Props, p.bad(CodeIdentifierExpected))
		}
	}
}

func (p *Parser) property() Expr {
	key := p.lex
	p.next()

	prop := &Property{Key: key.Lit}
	if p.got(_Colon) {
		prop.Value = p.expr()
	} else if key.Tok == _Name {
		v := &Variable{Name: key.Lit, Frame: p.scope.Find(key.Lit)}
		v.span(key.Pos, key.End)
		prop.Value = v
	} else {
		return invalid(CodeColonExpected, key.Pos, key.End)
	}
	prop.span(key.Pos, p.prev)
	return prop
}

// template parses a template string. Each replacement was scanned into its
// own lexeme stream and is parsed by a sub-parser sharing this scope.
func (p *Parser) template() Expr {
	t := &Interpolated{Format: p.lex.Parts}
	t.span(p.lex.Pos, p.lex.End)
	for _, sub := range p.lex.Subs {
		t.Replacements = append(t.Replacements, newParser(sub, p.scope).Expression())
	}
	p.next()
	return t
}

// ----------------------------------------------------------------------------
// Helpers

func isEmpty(x Expr) bool {
	_, ok := x.(*Empty)
	return ok
}

// isNumber reports whether x is a numeric literal, possibly signed.
func isNumber(x Expr) bool {
	switch x := x.(type) {
	case *Constant:
		_, ok := x.Value.(value.Real)
		return ok
	case *PreUnary:
		return (x.Op == _Sub || x.Op == _Add) && isNumber(x.X)
	}
	return false
}

// tagPath renders a markup tag as the dotted path written in the source.
func tagPath(x Expr) string {
	switch x := x.(type) {
	case *Identifier:
		return x.Name
	case *Variable:
		return x.Name
	case *Member:
		return tagPath(x.X) + "." + x.Sel.Name
	}
	return ""
}

func isUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

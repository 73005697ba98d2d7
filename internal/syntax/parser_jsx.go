package syntax

import "github.com/you-not-fish/calx/internal/value"

// ----------------------------------------------------------------------------
// Markup
//
//	<tag name="s" n=1 expr={x} flag>children</tag>
//	<Component.Sub/>
//	<>fragment</>

// jsx parses a markup element starting at '<'.
func (p *Parser) jsx() Expr {
	pos := p.lex.Pos
	p.next() // <

	if p.tok == _Div {
		for p.tok != _Gtr && p.tok != _EOF {
			p.next()
		}
		p.got(_Gtr)
		return invalid(CodeJsxNotOpened, pos, p.prev)
	}

	el := &Jsx{Tag: p.jsxTag()}

	// attributes
	for {
		switch p.tok {
		case _Name:
			el.Props = append(el.Props, p.jsxProp())
			continue
		case _Div:
			p.next()
			if !p.got(_Gtr) {
				return invalid(CodeJsxNotClosed, pos, p.prev)
			}
			el.span(pos, p.prev)
			return el
		case _Gtr:
			p.next()
		case _EOF:
			return invalid(CodeJsxNotClosed, pos, p.prev)
		default:
			el.Props = append(el.Props, p.bad(CodeUnexpectedToken))
			continue
		}
		break
	}

	// children
	var text *Constant
	for {
		switch p.tok {
		case _EOF:
			return invalid(CodeJsxNotClosed, pos, p.prev)

		case _Lss:
			if p.toks.Peek().Tok == _Div {
				return p.jsxClose(el, pos)
			}
			el.Children = append(el.Children, p.jsx())
			text = nil

		case _Lbrace:
			p.next()
			x := p.expr()
			if !p.got(_Rbrace) {
				x = binary(_Mul, x, p.missing(CodeBraceExpected))
			}
			el.Children = append(el.Children, x)
			text = nil

		case _String:
			c := &Constant{Value: value.String(p.lex.Lit)}
			c.span(p.lex.Pos, p.lex.End)
			p.next()
			el.Children = append(el.Children, c)
			text = nil

		case _Semi:
			p.next()

		default:
			// bare words are text; adjacent words join with one space
			if text != nil {
				text.Value = text.Value.(value.String) + " " + value.String(p.lex.Lit)
				text.end = p.lex.End
			} else {
				text = &Constant{Value: value.String(p.lex.Lit)}
				text.span(p.lex.Pos, p.lex.End)
				el.Children = append(el.Children, text)
			}
			p.next()
		}
	}
}

// jsxClose parses a closing tag and checks it against el's opening tag.
func (p *Parser) jsxClose(el *Jsx, pos Pos) Expr {
	p.next() // <
	p.next() // /
	tag := p.jsxTag()
	if !p.got(_Gtr) {
		return invalid(CodeJsxNotClosed, pos, p.prev)
	}
	if tagPath(tag) != tagPath(el.Tag) {
		return invalid(CodeJsxTagMismatch, pos, p.prev)
	}
	el.span(pos, p.prev)
	return el
}

// jsxTag parses a tag name. Lower-case names are literal tags, upper-case
// names are component references. A missing name is a fragment.
func (p *Parser) jsxTag() Expr {
	if p.tok != _Name {
		id := &Identifier{}
		id.span(p.lex.Pos, p.lex.Pos)
		return id
	}

	if !isUpper(p.lex.Lit) {
		id := &Identifier{Name: p.lex.Lit}
		id.span(p.lex.Pos, p.lex.End)
		p.next()
		for p.tok == _Dot && p.toks.Peek().Tok == _Name {
			p.next()
			id.Name += "." + p.lex.Lit
			id.end = p.lex.End
			p.next()
		}
		return id
	}

	var x Expr = p.variable()
	for p.tok == _Dot && p.toks.Peek().Tok == _Name {
		p.next()
		sel := &Identifier{Name: p.lex.Lit}
		sel.span(p.lex.Pos, p.lex.End)
		p.next()
		m := &Member{X: x, Sel: sel}
		m.span(x.Pos(), sel.End())
		x = m
	}
	return x
}

// jsxProp parses one attribute. A bare name is true.
func (p *Parser) jsxProp() Expr {
	prop := &Property{Key: p.lex.Lit}
	pos := p.lex.Pos
	p.next()

	if !p.got(_Assign) {
		c := &Constant{Value: value.Bool(true)}
		c.span(pos, p.prev)
		prop.Value = c
		prop.span(pos, p.prev)
		return prop
	}

	switch p.tok {
	case _String:
		c := &Constant{Value: value.String(p.lex.Lit)}
		c.span(p.lex.Pos, p.lex.End)
		p.next()
		prop.Value = c
	case _Number:
		prop.Value = p.number()
	case _Template:
		prop.Value = p.template()
	case _Lbrace:
		p.next()
		prop.Value = p.expr()
		if !p.got(_Rbrace) {
			prop.Value = binary(_Mul, prop.Value, p.missing(CodeBraceExpected))
		}
	default:
		return p.bad(CodeUnexpectedToken)
	}
	prop.span(pos, p.prev)
	return prop
}

package syntax

// ----------------------------------------------------------------------------
// Statements

// stmtList parses statements until EOF, or until '}' when inBlock is set.
// It reports whether it stopped at '}'. Every iteration consumes at least
// one lexeme.
func (p *Parser) stmtList(inBlock bool) ([]Stmt, bool) {
	var list []Stmt
	for {
		switch p.tok {
		case _Semi:
			p.next()
			continue
		case _EOF:
			return list, false
		case _Rbrace:
			if inBlock {
				return list, true
			}
		}

		mark := p.mark()
		s := p.stmt()
		if p.mark() == mark {
			s = exprStmt(p.bad(CodeUnexpectedToken))
		}
		list = append(list, s)

		switch s.(type) {
		case *BlockStmt, *IfStmt, *WhileStmt, *ForStmt:
		default:
			if t := p.terminator(); t != nil {
				list = append(list, t)
			}
		}
	}
}

// terminator consumes a ';'. EOF and '}' terminate a statement without
// being consumed. Anything else is replaced by an Invalid statement.
func (p *Parser) terminator() Stmt {
	switch p.tok {
	case _Semi:
		p.next()
		return nil
	case _EOF, _Rbrace:
		return nil
	}
	return exprStmt(p.bad(CodeTerminatorExpected))
}

func exprStmt(x Expr) *ExprStmt {
	s := &ExprStmt{X: x}
	s.span(x.Pos(), x.End())
	return s
}

// stmt parses a statement.
func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Lbrace:
		return p.blockStmt()
	case _If:
		return p.ifStmt()
	case _While:
		return p.whileStmt()
	case _For:
		return p.forStmt()
	case _Return:
		return p.returnStmt()
	case _Break, _Continue:
		return p.branchStmt()
	case _Let:
		return p.letStmt()
	}
	return exprStmt(p.expr())
}

// blockStmt parses { stmts... }. An unterminated block ends with an
// Invalid statement.
func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	pos := p.lex.Pos
	p.next() // {

	list, closed := p.stmtList(true)
	b.Stmts = list
	if closed {
		p.next()
	} else {
		b.Stmts = append(b.Stmts, exprStmt(p.missing(CodeUnterminatedBlock)))
	}
	b.span(pos, p.prev)
	return b
}

// body parses the block of an if, while or for statement.
func (p *Parser) body() *BlockStmt {
	if p.tok == _Lbrace {
		return p.blockStmt()
	}
	b := &BlockStmt{Stmts: []Stmt{exprStmt(p.missing(CodeBraceExpected))}}
	b.span(p.lex.Pos, p.lex.Pos)
	return b
}

// ifStmt parses: if cond { then } [else if ... | else { else }]
func (p *Parser) ifStmt() *IfStmt {
	s := &IfStmt{}
	pos := p.lex.Pos
	p.next() // if

	s.Cond = p.expr()
	s.Then = p.body()

	// A newline before else must not end the statement.
	if p.tok == _Semi && p.toks.Peek().Tok == _Else {
		p.next()
	}
	if p.got(_Else) {
		if p.tok == _If {
			s.Else = p.ifStmt()
		} else {
			s.Else = p.body()
		}
	}
	s.span(pos, p.prev)
	return s
}

// whileStmt parses: while cond { body }
func (p *Parser) whileStmt() *WhileStmt {
	s := &WhileStmt{}
	pos := p.lex.Pos
	p.next() // while

	s.Cond = p.expr()
	s.Body = p.body()
	s.span(pos, p.prev)
	return s
}

// forStmt parses: for v in x { body } or for k, v in x { body }
func (p *Parser) forStmt() *ForStmt {
	s := &ForStmt{}
	pos := p.lex.Pos
	p.next() // for

	if p.tok != _Name {
		s.X = p.missing(CodeIdentifierExpected)
		p.skipTo(_Lbrace)
		s.Body = p.body()
		s.span(pos, p.prev)
		return s
	}
	s.Value = p.loopVar()
	if p.got(_Comma) {
		s.Key = s.Value
		if p.tok == _Name {
			s.Value = p.loopVar()
		} else {
			s.Value = nil
			s.X = p.missing(CodeIdentifierExpected)
		}
	}

	if s.X == nil {
		if p.got(_In) {
			s.X = p.expr()
		} else {
			s.X = p.missing(CodeKeywordExpected)
		}
	}
	p.skipTo(_Lbrace)
	s.Body = p.body()
	s.span(pos, p.prev)
	return s
}

// loopVar declares a loop variable in the innermost function frame.
func (p *Parser) loopVar() *Variable {
	v := &Variable{Name: p.lex.Lit, Frame: p.scope.Current()}
	v.span(p.lex.Pos, p.lex.End)
	p.scope.Provide(v.Name, v)
	p.next()
	return v
}

// skipTo advances to tok without passing a statement boundary.
func (p *Parser) skipTo(tok Token) {
	for p.tok != tok && p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		p.next()
	}
}

// returnStmt parses: return [expr]
func (p *Parser) returnStmt() *ReturnStmt {
	s := &ReturnStmt{}
	pos := p.lex.Pos
	p.next() // return

	if p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		s.Result = p.expr()
	}
	s.span(pos, p.prev)
	return s
}

// branchStmt parses: break or continue
func (p *Parser) branchStmt() *BranchStmt {
	s := &BranchStmt{Tok: p.tok}
	s.span(p.lex.Pos, p.lex.End)
	p.next()
	return s
}

// letStmt parses: let name [= value]
func (p *Parser) letStmt() Stmt {
	pos := p.lex.Pos
	p.next() // let

	if p.tok != _Name {
		return exprStmt(p.missing(CodeIdentifierExpected))
	}
	s := &LetStmt{}
	s.Name = &Variable{Name: p.lex.Lit, Frame: p.scope.Current()}
	s.Name.span(p.lex.Pos, p.lex.End)
	p.scope.Provide(s.Name.Name, s)
	p.next()

	if p.got(_Assign) {
		s.Value = p.expr()
	}
	s.span(pos, p.prev)
	return s
}

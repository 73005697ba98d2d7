package syntax

import (
	"io"
	"strings"
)

// Scanner performs lexical analysis on calx source text. It never fails:
// unrecognized characters become _Illegal lexemes and unterminated strings
// become _BadString lexemes, leaving the parser to report them.
type Scanner struct {
	source // embedded character reader

	lex Lexeme // current lexeme

	// ASI (Automatic Semicolon Insertion) state
	nlsemi     bool   // whether to insert semicolon at newline
	asiEnabled bool   // whether ASI is enabled
	brackets   []rune // open brackets; ASI is off directly inside '('

	litBuf strings.Builder
}

// NewScanner creates a Scanner for src.
func NewScanner(filename string, src []byte) *Scanner {
	return newScannerAt(filename, src, 1, 1, 0)
}

func newScannerAt(filename string, src []byte, line, col uint32, base int) *Scanner {
	return &Scanner{
		source:     *newSource(filename, src, line, col, base),
		asiEnabled: true,
	}
}

// SetASIEnabled enables or disables automatic semicolon insertion.
func (s *Scanner) SetASIEnabled(enabled bool) {
	s.asiEnabled = enabled
}

// Tokenize scans all of src, including insignificant lexemes, and returns
// them terminated by a single _EOF lexeme.
func Tokenize(filename string, src io.Reader) ([]Lexeme, error) {
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	return NewScanner(filename, buf).All(), nil
}

// TokenizeString is Tokenize over an in-memory string.
func TokenizeString(src string) []Lexeme {
	return NewScanner("", []byte(src)).All()
}

// All scans the remaining input.
func (s *Scanner) All() []Lexeme {
	var out []Lexeme
	for {
		s.Next()
		out = append(out, s.lex)
		if s.lex.Tok == _EOF {
			return out
		}
	}
}

// Lexeme returns the current lexeme.
func (s *Scanner) Lexeme() Lexeme {
	return s.lex
}

// Token returns the current token type.
func (s *Scanner) Token() Token {
	return s.lex.Tok
}

// Next advances to the next lexeme.
func (s *Scanner) Next() {
	nlsemi := s.nlsemi
	s.nlsemi = false

	start := s.pos()
	s.lex = Lexeme{Pos: start}

	switch {
	case s.ch < 0:
		s.lex.Tok = _EOF

	case s.ch == '\n' && nlsemi && s.asiActive():
		s.nextch()
		s.lex.Tok = _Semi
		s.lex.Lit = "newline"

	case isWhitespace(s.ch) || s.ch == '\n':
		for isWhitespace(s.ch) || s.ch == '\n' && !(nlsemi && s.asiActive()) {
			s.nextch()
		}
		s.lex.Tok = _Space
		s.lex.Lit = s.text(start)
		s.nlsemi = nlsemi

	case s.ch == '/' && (s.peek() == '/' || s.peek() == '*'):
		s.scanComment()
		s.lex.Lit = s.text(start)
		s.nlsemi = nlsemi

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch) || s.ch == '.' && isDigit(s.peek()):
		s.scanNumber()

	case s.ch == '"' || s.ch == '\'':
		s.scanString(s.ch)

	case s.ch == '`':
		s.scanTemplate()

	default:
		s.scanOperator()
	}

	s.lex.End = s.pos()
	if s.lex.Tok.Significant() {
		s.nlsemi = s.shouldInsertSemi()
	}
}

// text returns the raw source between start and the current position.
func (s *Scanner) text(start Pos) string {
	from := start.offs - s.base
	to := s.pos().offs - s.base
	return string(s.buf[from:to])
}

// asiActive reports whether a newline may become a semicolon here.
func (s *Scanner) asiActive() bool {
	if !s.asiEnabled {
		return false
	}
	return len(s.brackets) == 0 || s.brackets[len(s.brackets)-1] != '('
}

// shouldInsertSemi reports whether a semicolon should be inserted
// after the current token when followed by a newline.
func (s *Scanner) shouldInsertSemi() bool {
	switch s.lex.Tok {
	case _Name, _Number, _String, _Template, _BadString:
		return true
	case _Break, _Continue, _Return, _True, _False, _Null:
		return true
	case _Rparen, _Rbrack, _Rbrace:
		return true
	case _Gtr: // end of a markup element
		return true
	}
	return false
}

func (s *Scanner) scanComment() {
	s.lex.Tok = _Comment
	s.nextch() // '/'
	if s.ch == '/' {
		for s.ch != '\n' && s.ch >= 0 {
			s.nextch()
		}
		return
	}
	s.nextch() // '*'
	for s.ch >= 0 {
		if s.ch == '*' && s.peek() == '/' {
			s.nextch()
			s.nextch()
			return
		}
		s.nextch()
	}
}

// scanIdent scans an identifier or keyword.
func (s *Scanner) scanIdent() {
	s.litBuf.Reset()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.litBuf.WriteRune(s.ch)
		s.nextch()
	}
	s.lex.Lit = s.litBuf.String()
	s.lex.Tok = LookupKeyword(s.lex.Lit)
}

// scanNumber scans a number literal. The literal keeps its source text;
// the parser converts it.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.lex.Tok = _Number

	if s.ch == '0' && lower(s.peek()) == 'x' {
		s.continueLit()
		s.continueLit()
		for isHexDigit(s.ch) {
			s.continueLit()
		}
		s.lex.Lit = s.litBuf.String()
		return
	}

	for isDigit(s.ch) {
		s.continueLit()
	}
	// A dot starts a fraction only when a digit follows, so 1..5 is a range.
	if s.ch == '.' && isDigit(s.peek()) {
		s.continueLit()
		for isDigit(s.ch) {
			s.continueLit()
		}
	}
	if lower(s.ch) == 'e' {
		next := s.peek()
		if isDigit(next) || next == '+' || next == '-' {
			s.continueLit()
			if s.ch == '+' || s.ch == '-' {
				s.continueLit()
			}
			for isDigit(s.ch) {
				s.continueLit()
			}
		}
	}
	s.lex.Lit = s.litBuf.String()
}

func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
	s.nextch()
}

// scanString scans a quoted string literal. The literal is the decoded
// content; an unterminated string yields _BadString.
func (s *Scanner) scanString(quote rune) {
	s.nextch() // skip opening quote
	var b strings.Builder

	for {
		switch {
		case s.ch == quote:
			s.nextch()
			s.lex.Tok = _String
			s.lex.Lit = b.String()
			return

		case s.ch == '\\':
			b.WriteRune(s.scanEscape())

		case s.ch == '\n' || s.ch < 0:
			s.lex.Tok = _BadString
			s.lex.Lit = b.String()
			return

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanTemplate scans `text ${expr} text`. Each embedded expression is
// tokenized into its own lexeme stream with positions in the enclosing source.
func (s *Scanner) scanTemplate() {
	s.nextch() // skip `
	var b strings.Builder

	for {
		switch {
		case s.ch < 0:
			s.lex.Tok = _BadString
			s.lex.Lit = b.String()
			return

		case s.ch == '`':
			s.nextch()
			s.lex.Tok = _Template
			s.lex.Parts = append(s.lex.Parts, b.String())
			return

		case s.ch == '\\':
			b.WriteRune(s.scanEscape())

		case s.ch == '$' && s.peek() == '{':
			s.lex.Parts = append(s.lex.Parts, b.String())
			b.Reset()
			s.nextch()
			s.nextch()
			sub, ok := s.scanReplacement()
			if !ok {
				s.lex.Tok = _BadString
				s.lex.Lit = strings.Join(s.lex.Parts, "")
				s.lex.Parts = nil
				s.lex.Subs = nil
				return
			}
			s.lex.Subs = append(s.lex.Subs, sub)

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanReplacement consumes the body of a ${...} replacement, up to and
// including the matching '}', and tokenizes it.
func (s *Scanner) scanReplacement() ([]Lexeme, bool) {
	start := s.pos()
	depth := 0
	for s.ch >= 0 {
		switch s.ch {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				body := s.buf[start.offs-s.base : s.pos().offs-s.base]
				s.nextch()
				sub := newScannerAt(s.filename, body, start.line, start.col, start.offs)
				return sub.All(), true
			}
			depth--
		case '"', '\'':
			q := s.ch
			s.nextch()
			for s.ch >= 0 && s.ch != q && s.ch != '\n' {
				if s.ch == '\\' {
					s.nextch()
				}
				s.nextch()
			}
		}
		s.nextch()
	}
	return nil, false
}

// scanEscape scans an escape sequence and returns the decoded rune.
// Unknown escapes decode to the escaped character itself.
func (s *Scanner) scanEscape() rune {
	s.nextch() // skip \

	ch := s.ch
	if ch < 0 {
		return '\\'
	}
	s.nextch()
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case '0':
		return 0
	case 'x':
		return s.scanHexEscape(2)
	case 'u':
		return s.scanHexEscape(4)
	}
	return ch
}

// scanHexEscape scans n hex digits of a \x or \u escape.
func (s *Scanner) scanHexEscape(n int) rune {
	var val rune
	for i := 0; i < n && isHexDigit(s.ch); i++ {
		val = val*16 + hexValue(s.ch)
		s.nextch()
	}
	return val
}

// hexValue returns the numeric value of a hex digit.
func hexValue(r rune) rune {
	switch {
	case '0' <= r && r <= '9':
		return r - '0'
	case 'a' <= lower(r) && lower(r) <= 'f':
		return lower(r) - 'a' + 10
	}
	return 0
}

// scanOperator scans an operator or delimiter. Anything else becomes a
// single-character _Illegal lexeme.
func (s *Scanner) scanOperator() {
	ch := s.ch
	s.nextch()

	tok := _Illegal
	switch ch {
	case '+':
		tok = _Add
	case '-':
		tok = _Sub
	case '*':
		tok = _Mul
	case '/':
		tok = _Div
	case '%':
		tok = _Rem
	case '^':
		tok = _Pow
	case '?':
		tok = _Question
	case ':':
		tok = _Colon
	case '&':
		if s.ch == '&' {
			s.nextch()
			tok = _AndAnd
		}
	case '|':
		switch s.ch {
		case '|':
			s.nextch()
			tok = _OrOr
		case '>':
			s.nextch()
			tok = _Pipe
		}
	case '<':
		tok = _Lss
		if s.ch == '=' {
			s.nextch()
			tok = _Leq
		}
	case '>':
		tok = _Gtr
		if s.ch == '=' {
			s.nextch()
			tok = _Geq
		}
	case '=':
		tok = _Assign
		switch s.ch {
		case '=':
			s.nextch()
			tok = _Eql
		case '>':
			s.nextch()
			tok = _Arrow
		}
	case '!':
		tok = _Not
		if s.ch == '=' {
			s.nextch()
			tok = _Neq
		}
	case '.':
		tok = _Dot
		if s.ch == '.' {
			s.nextch()
			tok = _Range
		}
	case '(':
		tok = _Lparen
		s.brackets = append(s.brackets, ch)
	case '[':
		tok = _Lbrack
		s.brackets = append(s.brackets, ch)
	case '{':
		tok = _Lbrace
		s.brackets = append(s.brackets, ch)
	case ')':
		tok = _Rparen
		s.closeBracket()
	case ']':
		tok = _Rbrack
		s.closeBracket()
	case '}':
		tok = _Rbrace
		s.closeBracket()
	case ',':
		tok = _Comma
	case ';':
		tok = _Semi
	}

	s.lex.Tok = tok
	if tok == _Illegal {
		s.lex.Lit = string(ch)
	} else {
		s.lex.Lit = tok.String()
	}
}

func (s *Scanner) closeBracket() {
	if n := len(s.brackets); n > 0 {
		s.brackets = s.brackets[:n-1]
	}
}

package syntax

// TokenStream is a cursor over scanned lexemes. Advance skips insignificant
// lexemes (spaces and comments) in one step; the stream always ends in _EOF.
type TokenStream struct {
	toks []Lexeme
	i    int
}

// NewTokenStream returns a cursor positioned on the first significant
// lexeme of toks. A missing trailing _EOF is supplied.
func NewTokenStream(toks []Lexeme) *TokenStream {
	if n := len(toks); n == 0 || toks[n-1].Tok != _EOF {
		eof := Lexeme{Tok: _EOF}
		if n > 0 {
			eof.Pos = toks[n-1].End
			eof.End = toks[n-1].End
		}
		toks = append(toks[:n:n], eof)
	}
	s := &TokenStream{toks: toks}
	s.skip()
	return s
}

// Current returns the lexeme under the cursor.
func (s *TokenStream) Current() Lexeme {
	return s.toks[s.i]
}

// Advance moves to the next significant lexeme. It stays on _EOF.
func (s *TokenStream) Advance() {
	if s.toks[s.i].Tok == _EOF {
		return
	}
	s.i++
	s.skip()
}

// Peek returns the significant lexeme after the current one without moving.
func (s *TokenStream) Peek() Lexeme {
	if s.toks[s.i].Tok == _EOF {
		return s.toks[s.i]
	}
	j := s.i + 1
	for !s.toks[j].Tok.Significant() {
		j++
	}
	return s.toks[j]
}

func (s *TokenStream) skip() {
	for !s.toks[s.i].Tok.Significant() {
		s.i++
	}
}

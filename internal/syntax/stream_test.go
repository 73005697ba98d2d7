package syntax

import "testing"

func TestTokenStream(t *testing.T) {
	s := NewTokenStream(TokenizeString("a /* c */ + b"))

	if got := s.Current(); got.Tok != _Name || got.Lit != "a" {
		t.Fatalf("Current() = %v, want NAME \"a\"", got)
	}
	if got := s.Peek(); got.Tok != _Add {
		t.Errorf("Peek() = %v, want +", got)
	}

	s.Advance()
	if got := s.Current(); got.Tok != _Add {
		t.Errorf("Current() after Advance = %v, want +", got)
	}
	s.Advance()
	s.Advance()
	if got := s.Current(); got.Tok != _EOF {
		t.Errorf("Current() at end = %v, want EOF", got)
	}

	// Advance and Peek stay on EOF.
	s.Advance()
	if got := s.Current(); got.Tok != _EOF {
		t.Errorf("Current() after advancing past EOF = %v", got)
	}
	if got := s.Peek(); got.Tok != _EOF {
		t.Errorf("Peek() at EOF = %v", got)
	}
}

func TestTokenStreamSuppliesEOF(t *testing.T) {
	for _, toks := range [][]Lexeme{
		nil,
		{{Tok: _Space, Lit: " "}},
		{{Tok: _Name, Lit: "x"}},
	} {
		s := NewTokenStream(toks)
		for i := 0; i < 3 && s.Current().Tok != _EOF; i++ {
			s.Advance()
		}
		if s.Current().Tok != _EOF {
			t.Errorf("stream over %v never reached EOF", toks)
		}
	}
}

// Package syntax implements lexical and syntactic analysis for the calx
// expression language.
package syntax

import "fmt"

// Token represents the type of a lexical token.
type Token uint

const (
	// Special tokens
	_EOF       Token = iota // end of input
	_Illegal                // unrecognized character
	_BadString              // unterminated string literal

	// Insignificant tokens, skipped by TokenStream
	_Space   // spaces, tabs, newlines not turned into ;
	_Comment // // line comment or /* block comment */

	// Literals
	_Name     // identifier: foo, Bar
	_Number   // 12, 3.5, 1e-3, 0x1f
	_String   // "text" or 'text'
	_Template // `text ${expr} text`

	// Operators, ordered loosest to tightest
	_Assign   // =
	_Arrow    // =>
	_Question // ?
	_Colon    // :
	_Range    // ..
	_Pipe     // |>
	_OrOr     // ||
	_AndAnd   // &&

	_Eql // ==
	_Neq // !=

	_Lss // <
	_Leq // <=
	_Gtr // >
	_Geq // >=

	_Add // +
	_Sub // -

	_Mul // *
	_Div // /
	_Rem // %

	_Pow // ^

	_Not // !

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;
	_Dot    // .

	// Keywords
	_Await
	_Break
	_Continue
	_Else
	_False
	_For
	_If
	_In
	_Let
	_Null
	_Return
	_True
	_While

	tokenCount
)

// tokenNames maps tokens to their string representation.
var tokenNames = [...]string{
	_EOF:       "EOF",
	_Illegal:   "ILLEGAL",
	_BadString: "BADSTRING",

	_Space:   "SPACE",
	_Comment: "COMMENT",

	_Name:     "NAME",
	_Number:   "NUMBER",
	_String:   "STRING",
	_Template: "TEMPLATE",

	_Assign:   "=",
	_Arrow:    "=>",
	_Question: "?",
	_Colon:    ":",
	_Range:    "..",
	_Pipe:     "|>",
	_OrOr:     "||",
	_AndAnd:   "&&",

	_Eql: "==",
	_Neq: "!=",

	_Lss: "<",
	_Leq: "<=",
	_Gtr: ">",
	_Geq: ">=",

	_Add: "+",
	_Sub: "-",

	_Mul: "*",
	_Div: "/",
	_Rem: "%",

	_Pow: "^",

	_Not: "!",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Dot:    ".",

	_Await:    "await",
	_Break:    "break",
	_Continue: "continue",
	_Else:     "else",
	_False:    "false",
	_For:      "for",
	_If:       "if",
	_In:       "in",
	_Let:      "let",
	_Null:     "null",
	_Return:   "return",
	_True:     "true",
	_While:    "while",
}

// String returns the string representation of the token.
func (t Token) String() string {
	if t < tokenCount {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword reports whether t is a keyword token.
func (t Token) IsKeyword() bool {
	return t >= _Await && t <= _While
}

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool {
	return t >= _Assign && t <= _Not
}

// IsEOF reports whether t is the EOF token.
func (t Token) IsEOF() bool {
	return t == _EOF
}

// Malformed reports whether t marks text the scanner could not read.
func (t Token) Malformed() bool {
	return t == _Illegal || t == _BadString
}

// Significant reports whether the parser should see t. Spaces and comments
// are skipped by TokenStream.
func (t Token) Significant() bool {
	return t != _Space && t != _Comment
}

// Exported operator tokens for the evaluator.
const (
	Assign Token = _Assign
	Pipe   Token = _Pipe
	OrOr   Token = _OrOr
	AndAnd Token = _AndAnd
	Eql    Token = _Eql
	Neq    Token = _Neq
	Lss    Token = _Lss
	Leq    Token = _Leq
	Gtr    Token = _Gtr
	Geq    Token = _Geq
	Add    Token = _Add
	Sub    Token = _Sub
	Mul    Token = _Mul
	Div    Token = _Div
	Rem    Token = _Rem
	Pow    Token = _Pow
	Not    Token = _Not
	Await  Token = _Await
	Break  Token = _Break
)

// keywords maps keyword strings to their token type.
// Built-in function and constant names (add, pi, i, ...) are NOT keywords;
// they are scanned as _Name and resolved against the global scope.
var keywords = map[string]Token{
	"await":    _Await,
	"break":    _Break,
	"continue": _Continue,
	"else":     _Else,
	"false":    _False,
	"for":      _For,
	"if":       _If,
	"in":       _In,
	"let":      _Let,
	"null":     _Null,
	"return":   _Return,
	"true":     _True,
	"while":    _While,
}

// LookupKeyword returns the token for the given identifier string.
// If the identifier is a keyword, returns the keyword token.
// Otherwise, returns _Name.
func LookupKeyword(ident string) Token {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}

// Lexeme is one token produced by the scanner together with its payload and
// source span. Lexemes are never mutated after scanning.
type Lexeme struct {
	Tok Token
	Lit string // raw text; decoded content for strings
	Pos Pos    // first character
	End Pos    // position immediately after the last character

	// Template tokens only: len(Parts) == len(Subs)+1.
	Parts []string
	Subs  [][]Lexeme
}

func (l Lexeme) String() string {
	switch l.Tok {
	case _Name, _Number, _Illegal, _String, _BadString:
		return fmt.Sprintf("%s %q", l.Tok, l.Lit)
	case _Template:
		return fmt.Sprintf("%s %q (%d replacements)", l.Tok, l.Parts, len(l.Subs))
	case _Semi:
		if l.Lit == "newline" {
			return "; (newline)"
		}
	}
	return l.Tok.String()
}

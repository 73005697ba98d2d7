package syntax

import (
	"reflect"
	"strings"
	"testing"
)

// scan returns the significant lexemes of src, without the trailing EOF.
func scan(src string) []Lexeme {
	var out []Lexeme
	for _, l := range TokenizeString(src) {
		if l.Tok.Significant() && l.Tok != _EOF {
			out = append(out, l)
		}
	}
	return out
}

func toksOf(lexemes []Lexeme) []Token {
	toks := make([]Token, len(lexemes))
	for i, l := range lexemes {
		toks[i] = l.Tok
	}
	return toks
}

func litsOf(lexemes []Lexeme) []string {
	lits := make([]string, len(lexemes))
	for i, l := range lexemes {
		lits[i] = l.Lit
	}
	return lits
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Token
		lits   []string
	}{
		// Identifiers and keywords
		{"ident", "foo", []Token{_Name}, []string{"foo"}},
		{"ident_underscore", "_bar", []Token{_Name}, []string{"_bar"}},
		{"ident_mixed", "foo123", []Token{_Name}, []string{"foo123"}},
		{"ident_unicode", "π", []Token{_Name}, []string{"π"}},
		{"builtin_is_name", "add", []Token{_Name}, []string{"add"}},
		{"kw_await", "await", []Token{_Await}, []string{"await"}},
		{"kw_true", "true", []Token{_True}, []string{"true"}},
		{"kw_null", "null", []Token{_Null}, []string{"null"}},

		// Numbers keep their source text
		{"int", "123", []Token{_Number}, []string{"123"}},
		{"zero", "0", []Token{_Number}, []string{"0"}},
		{"hex", "0x1f", []Token{_Number}, []string{"0x1f"}},
		{"hex_upper", "0X1F", []Token{_Number}, []string{"0X1F"}},
		{"float", "3.14", []Token{_Number}, []string{"3.14"}},
		{"float_leading_dot", ".5", []Token{_Number}, []string{".5"}},
		{"exp", "1e10", []Token{_Number}, []string{"1e10"}},
		{"exp_neg", "2.5e-3", []Token{_Number}, []string{"2.5e-3"}},
		{"exp_pos", "1E+2", []Token{_Number}, []string{"1E+2"}},
		{"e_is_name", "2e", []Token{_Number, _Name}, []string{"2", "e"}},
		{"range", "1..5", []Token{_Number, _Range, _Number}, []string{"1", "..", "5"}},

		// Strings are decoded
		{"string", `"hello"`, []Token{_String}, []string{"hello"}},
		{"string_single", `'hi'`, []Token{_String}, []string{"hi"}},
		{"string_empty", `""`, []Token{_String}, []string{""}},
		{"escape_n", `"a\nb"`, []Token{_String}, []string{"a\nb"}},
		{"escape_t", `"a\tb"`, []Token{_String}, []string{"a\tb"}},
		{"escape_quote", `"a\"b"`, []Token{_String}, []string{`a"b`}},
		{"escape_backslash", `"a\\b"`, []Token{_String}, []string{`a\b`}},
		{"escape_hex", `"\x41B"`, []Token{_String}, []string{"AB"}},
		{"escape_unknown", `"\q"`, []Token{_String}, []string{"q"}},
		{"unterminated", `"abc`, []Token{_BadString}, []string{"abc"}},
		{"unterminated_newline", "\"ab\ncd", []Token{_BadString, _Semi, _Name}, []string{"ab", "newline", "cd"}},

		// Operators
		{"op_add", "+", []Token{_Add}, []string{"+"}},
		{"op_sub", "-", []Token{_Sub}, []string{"-"}},
		{"op_mul", "*", []Token{_Mul}, []string{"*"}},
		{"op_div", "/", []Token{_Div}, []string{"/"}},
		{"op_rem", "%", []Token{_Rem}, []string{"%"}},
		{"op_pow", "^", []Token{_Pow}, []string{"^"}},
		{"op_not", "!", []Token{_Not}, []string{"!"}},
		{"op_question", "?", []Token{_Question}, []string{"?"}},
		{"op_colon", ":", []Token{_Colon}, []string{":"}},
		{"op_assign", "=", []Token{_Assign}, []string{"="}},
		{"op_arrow", "=>", []Token{_Arrow}, []string{"=>"}},
		{"op_pipe", "|>", []Token{_Pipe}, []string{"|>"}},
		{"op_oror", "||", []Token{_OrOr}, []string{"||"}},
		{"op_andand", "&&", []Token{_AndAnd}, []string{"&&"}},
		{"op_eql", "==", []Token{_Eql}, []string{"=="}},
		{"op_neq", "!=", []Token{_Neq}, []string{"!="}},
		{"op_leq", "<=", []Token{_Leq}, []string{"<="}},
		{"op_geq", ">=", []Token{_Geq}, []string{">="}},
		{"op_dot", ".", []Token{_Dot}, []string{"."}},
		{"compound", "x+=1", []Token{_Name, _Add, _Assign, _Number}, []string{"x", "+", "=", "1"}},

		// Unknown characters
		{"illegal_dollar", "$", []Token{_Illegal}, []string{"$"}},
		{"illegal_bar", "|", []Token{_Illegal}, []string{"|"}},
		{"illegal_amp", "a & b", []Token{_Name, _Illegal, _Name}, []string{"a", "&", "b"}},
		{"illegal_then_op", "$+", []Token{_Illegal, _Add}, []string{"$", "+"}},

		// Comments are skipped
		{"line_comment", "a // note\nb", []Token{_Name, _Semi, _Name}, []string{"a", "newline", "b"}},
		{"block_comment", "a /* x\ny */ + b", []Token{_Name, _Add, _Name}, []string{"a", "+", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scan(tt.src)
			if toks := toksOf(got); !reflect.DeepEqual(toks, tt.tokens) {
				t.Fatalf("tokens = %v, want %v", toks, tt.tokens)
			}
			if lits := litsOf(got); !reflect.DeepEqual(lits, tt.lits) {
				t.Errorf("lits = %q, want %q", lits, tt.lits)
			}
		})
	}
}

func TestASI(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Token
	}{
		{"ident_newline", "foo\nbar", []Token{_Name, _Semi, _Name}},
		{"number_newline", "1\n2", []Token{_Number, _Semi, _Number}},
		{"string_newline", "\"a\"\nb", []Token{_String, _Semi, _Name}},
		{"return_newline", "return\n1", []Token{_Return, _Semi, _Number}},
		{"break_newline", "break\nx", []Token{_Break, _Semi, _Name}},
		{"rparen_newline", "f()\nx", []Token{_Name, _Lparen, _Rparen, _Semi, _Name}},
		{"rbrace_newline", "{}\nx", []Token{_Lbrace, _Rbrace, _Semi, _Name}},
		{"markup_newline", "<a/>\nx", []Token{_Lss, _Name, _Div, _Gtr, _Semi, _Name}},
		{"operator_continues", "1 +\n2", []Token{_Number, _Add, _Number}},
		{"blank_lines_once", "a\n\n\nb", []Token{_Name, _Semi, _Name}},
		{"comment_keeps_semi", "a // c\nb", []Token{_Name, _Semi, _Name}},
		{"no_semi_in_parens", "(a\nb)", []Token{_Lparen, _Name, _Name, _Rparen}},
		{"rows_in_brackets", "[1\n2]", []Token{_Lbrack, _Number, _Semi, _Number, _Rbrack}},
		{"semi_in_block_in_parens", "(x => {a\nb})", []Token{_Lparen, _Name, _Arrow, _Lbrace, _Name, _Semi, _Name, _Rbrace, _Rparen}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toksOf(scan(tt.src)); !reflect.DeepEqual(got, tt.tokens) {
				t.Errorf("tokens = %v, want %v", got, tt.tokens)
			}
		})
	}
}

func TestASIDisabled(t *testing.T) {
	s := NewScanner("t", []byte("a\nb"))
	s.SetASIEnabled(false)

	var toks []Token
	for _, l := range s.All() {
		if l.Tok.Significant() {
			toks = append(toks, l.Tok)
		}
	}
	want := []Token{_Name, _Name, _EOF}
	if !reflect.DeepEqual(toks, want) {
		t.Errorf("tokens = %v, want %v", toks, want)
	}
}

func TestPosition(t *testing.T) {
	src := "ab + 1\ncd = `x${y}`"

	expected := []struct {
		tok       Token
		line, col uint32
		endCol    uint32
	}{
		{_Name, 1, 1, 3},
		{_Add, 1, 4, 5},
		{_Number, 1, 6, 7},
		{_Semi, 1, 7, 1},
		{_Name, 2, 1, 3},
		{_Assign, 2, 4, 5},
		{_Template, 2, 6, 13},
	}

	got := scan(src)
	if len(got) != len(expected) {
		t.Fatalf("got %d lexemes %v, want %d", len(got), toksOf(got), len(expected))
	}
	for i, exp := range expected {
		l := got[i]
		if l.Tok != exp.tok {
			t.Errorf("lexeme %d: got %v, want %v", i, l.Tok, exp.tok)
		}
		if l.Pos.Line() != exp.line || l.Pos.Col() != exp.col {
			t.Errorf("lexeme %d (%v): pos = %d:%d, want %d:%d",
				i, l.Tok, l.Pos.Line(), l.Pos.Col(), exp.line, exp.col)
		}
		if l.End.Col() != exp.endCol {
			t.Errorf("lexeme %d (%v): end col = %d, want %d", i, l.Tok, l.End.Col(), exp.endCol)
		}
	}

	sub := got[6].Subs[0][0]
	if sub.Tok != _Name || sub.Lit != "y" || sub.Pos.Line() != 2 || sub.Pos.Col() != 10 {
		t.Errorf("replacement lexeme = %v at %v, want NAME \"y\" at 2:10", sub, sub.Pos)
	}
	if sub.Pos.Offset() != 16 {
		t.Errorf("replacement offset = %d, want 16", sub.Pos.Offset())
	}
}

func TestScanTemplate(t *testing.T) {
	got := scan("`a${x}b${y + 1}c`")
	if len(got) != 1 || got[0].Tok != _Template {
		t.Fatalf("got %v, want a single TEMPLATE", toksOf(got))
	}

	tmpl := got[0]
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(tmpl.Parts, want) {
		t.Errorf("Parts = %q, want %q", tmpl.Parts, want)
	}
	if len(tmpl.Subs) != 2 {
		t.Fatalf("len(Subs) = %d, want 2", len(tmpl.Subs))
	}

	var second []Token
	for _, l := range tmpl.Subs[1] {
		if l.Tok.Significant() {
			second = append(second, l.Tok)
		}
	}
	if want := []Token{_Name, _Add, _Number, _EOF}; !reflect.DeepEqual(second, want) {
		t.Errorf("second replacement = %v, want %v", second, want)
	}
}

func TestScanTemplateNested(t *testing.T) {
	got := scan("`${ {a: \"}\"}.a }`")
	if len(got) != 1 || got[0].Tok != _Template {
		t.Fatalf("got %v, want a single TEMPLATE", toksOf(got))
	}
	if want := []string{"", ""}; !reflect.DeepEqual(got[0].Parts, want) {
		t.Errorf("Parts = %q, want %q", got[0].Parts, want)
	}
}

func TestScanTemplateUnterminated(t *testing.T) {
	for _, src := range []string{"`abc", "`a${x", "`a${x}"} {
		got := scan(src)
		if len(got) != 1 || got[0].Tok != _BadString {
			t.Errorf("scan(%q) = %v, want a single BADSTRING", src, toksOf(got))
		}
	}
}

func TestTokenize(t *testing.T) {
	toks, err := Tokenize("t.calx", strings.NewReader("x = 1"))
	if err != nil {
		t.Fatal(err)
	}
	last := toks[len(toks)-1]
	if last.Tok != _EOF {
		t.Errorf("last lexeme = %v, want EOF", last)
	}
	if toks[0].Pos.Filename() != "t.calx" {
		t.Errorf("filename = %q, want t.calx", toks[0].Pos.Filename())
	}

	// Insignificant lexemes are kept and cover the whole input.
	var b strings.Builder
	for _, l := range TokenizeString("a  +\t// c\n b") {
		if l.Tok == _Space || l.Tok == _Comment {
			b.WriteString(l.Lit)
		}
	}
	if got := b.String(); got != "  \t// c\n " {
		t.Errorf("insignificant text = %q", got)
	}
}

func FuzzScanner(f *testing.F) {
	seeds := []string{
		"x = 2 + 3 * 4",
		"f = (x, y) => x * y + y",
		"[1, 2, 3; 4, 5, 6](1, 1)",
		"`a ${b} c`",
		`"unterminated`,
		"<div a={1}>hi</div>",
		"// comment\nfoo",
		"$+",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		toks := TokenizeString(src)
		if n := len(toks); n == 0 || toks[n-1].Tok != _EOF {
			t.Fatalf("scan of %q does not end in EOF", src)
		}
	})
}

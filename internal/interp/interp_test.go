package interp

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

func run(t *testing.T, in *Interpreter, src string) (value.Value, error) {
	t.Helper()
	return in.Exec(context.Background(), syntax.ParseFile("test.calx", []byte(src)))
}

func mustRun(t *testing.T, src string) value.Value {
	t.Helper()
	v, err := run(t, New(), src)
	if err != nil {
		t.Fatalf("%q: %v", src, err)
	}
	return v
}

func check(t *testing.T, src string, got, want value.Value) {
	t.Helper()
	if !value.Identical(got, want) {
		t.Errorf("%q = %s, want %s", src, value.Format(got), value.Format(want))
	}
}

func obj(kv ...interface{}) *value.Map {
	m := value.NewMap()
	for i := 0; i < len(kv); i += 2 {
		v, _ := kv[i+1].(value.Value)
		m.Set(kv[i].(string), v)
	}
	return m
}

func TestEval(t *testing.T) {
	tests := []struct {
		src  string
		want value.Value
	}{
		{"2+3*4", value.Real(14)},
		{"2^3^2", value.Real(512)},
		{"-2^2", value.Real(4)},
		{"x = 3; 2x", value.Real(6)},
		{"5!", value.Real(120)},
		{"7 % 4", value.Real(3)},
		{"1 < 2 && 2 < 3", value.Bool(true)},
		{"0 || \"\"", value.Bool(false)},
		{"null == null", value.Bool(true)},
		{"1 != 2", value.Bool(true)},
		{"true ? 1 : 2", value.Real(1)},
		{"false ? 1 : 2", value.Real(2)},
		{`"a" + "b"`, value.String("ab")},
		{"(1, 2)", value.NewArray(value.Real(1), value.Real(2))},
		{"((4))", value.Real(4)},
		{"1..4", value.Reals(1, 4, 1, 2, 3, 4)},
		{"0..2..6", value.Reals(1, 4, 0, 2, 4, 6)},
		{"[1,2;3,4]", value.Reals(2, 2, 1, 2, 3, 4)},
		{"[0, 1..3]", value.Reals(1, 4, 0, 1, 2, 3)},
		{"[]", value.Reals(0, 0)},
		{`[1, "a"]`, value.NewArray(value.Real(1), value.String("a"))},
		{"[1,2;3]", value.NewArray(value.NewArray(value.Real(1), value.Real(2)), value.NewArray(value.Real(3)))},
		{"o = {a: 1, b: 2}; o.b", value.Real(2)},
		{"o = {a: 1}; o.missing", nil},
		{"`x=${1+1}!`", value.String("x=2!")},
		{"9 |> sqrt", value.Real(3)},
		{"3 |> add(2)", value.Real(5)},
		{"[1,2,3;4,5,6](1,1)", value.Real(5)},
		{"[1,2,3;4,5,6](4)", value.Real(5)},
		{"[1,2,3](7)", nil},
		{"o = {a: 1}; o(\"a\")", value.Real(1)},
		{`"hey"(1)`, value.String("e")},
		{"t = true; t(1)", nil},
		{"1 + null", nil},
	}
	for _, tt := range tests {
		check(t, tt.src, mustRun(t, tt.src), tt.want)
	}
}

func TestClosures(t *testing.T) {
	tests := []struct {
		src  string
		want value.Value
	}{
		{"((x, y) => x*y + y)(2, 3)", value.Real(9)},
		{`((x, y) => x*y + y)("a", 3)`, nil},
		{"f = (x, y, z) => x + y^2 + z^3; f()(1)(2)(3)", value.Real(32)},
		{"f = (x, y, z) => x + y^2 + z^3; f(1, 2, 3)", value.Real(32)},
		{"f = (x, y, z) => x + y^2 + z^3; f(1)(3, 3)", value.Real(37)},
		{"f = (x, y, z) => x + y^2 + z^3; f() == f", value.Bool(true)},
		{"sq(x) = x^2; sq(5)", value.Real(25)},
		{"hyp(a, b) = sqrt(a^2 + b^2); hyp(3, 4)", value.Real(5)},
		{"k = 10; f = x => x + k; k = 20; f(1)", value.Real(21)},
		{"adder = n => x => x + n; adder(2)(3)", value.Real(5)},
		{"mk = () => { let c = 0; () => { c = c + 1; c } }; n = mk(); n(); n(); n()", nil},
		{"mk = () => { let c = 0; return () => { c = c + 1; return c } }; n = mk(); n(); n(); n()", value.Real(3)},
		{"f = x => { if x > 0 { return 1 } return -1 }; f(-5)", value.Real(-1)},
		{"fact = n => n <= 1 ? 1 : n * fact(n - 1); fact(10)", value.Real(3628800)},
		{"o = {}; o.f(x) = x + 1; o.f(1)", value.Real(2)},
		{"g = () => { total = 42 }; g(); total", value.Real(42)},
	}
	for _, tt := range tests {
		check(t, tt.src, mustRun(t, tt.src), tt.want)
	}
}

func TestStatements(t *testing.T) {
	tests := []struct {
		src  string
		want value.Value
	}{
		{"s = 0; for x in 1..4 { s = s + x }; s", value.Real(10)},
		{"s = \"\"; for k, v in {a: 1, b: 2} { s = s + k + v }; s", value.String("a1b2")},
		{"n = 0; for c in \"héllo\" { n = n + 1 }; n", value.Real(5)},
		{"n = 0; for x in null { n = n + 1 }; n", value.Real(0)},
		{"i = 0; while true { i = i + 1; if i == 5 { break } }; i", value.Real(5)},
		{"s = 0; for x in 1..6 { if x % 2 == 0 { continue }; s = s + x }; s", value.Real(9)},
		{"if 0 { 1 } else if 1 { x = 2 } else { x = 3 }; x", value.Real(2)},
		{"let y = 7; y", value.Real(7)},
		{"f = () => { let x = 1; x }; x = 5; f(); x", value.Real(5)},
		{"f = () => { for i in 1..3 { if i == 2 { return i } } }; f()", value.Real(2)},
		{"1; return 2; 3", value.Real(2)},
	}
	for _, tt := range tests {
		check(t, tt.src, mustRun(t, tt.src), tt.want)
	}
}

func TestBuiltinsFromScript(t *testing.T) {
	tests := []struct {
		src  string
		want value.Value
	}{
		{"add(2, 3)", value.Real(5)},
		{"add(2)(3)", value.Real(5)},
		{"reduce(add, 0, [1..6])", value.Real(21)},
		{"where(greater(4), [1,2,3,4,5,6])", value.Reals(1, 2, 5, 6)},
		{"where(less(0), {a: 5, b: 4, c: 3})", value.NewMap()},
		{"map(x => x * 2, [1, 2])", value.Reals(1, 2, 2, 4)},
		{"catch(() => throw(\"boom\")).error", value.String("boom")},
		{"catch(() => 1).value", value.Real(1)},
		{"typeof(x => x)", value.String("function")},
		{"await resolve(4)", value.Real(4)},
		{"await sleep(1)", value.Real(1)},
		{"await 3", value.Real(3)},
	}
	for _, tt := range tests {
		check(t, tt.src, mustRun(t, tt.src), tt.want)
	}
}

func TestJsx(t *testing.T) {
	got := mustRun(t, `<div id="a">hi</div>`)
	want := obj(
		"tag", value.String("div"),
		"props", obj("id", value.String("a")),
		"children", value.NewArray(value.String("hi")),
	)
	check(t, "div", got, want)

	got = mustRun(t, `Box = (props, children) => props.n * 2; <Box n={21}/>`)
	check(t, "component", got, value.Real(42))
}

func TestSyntaxError(t *testing.T) {
	_, err := run(t, New(), "1 + $")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *SyntaxError", err)
	}
	if se.Diag.Code != syntax.CodeInvalidSymbol {
		t.Errorf("code = %v, want %v", se.Diag.Code, syntax.CodeInvalidSymbol)
	}

	// catch turns a syntax error raised in a function into an exception
	v := mustRun(t, "typeof(catch(() => 1 + $).error)")
	check(t, "catch syntax error", v, value.String("string"))
}

func TestUndefined(t *testing.T) {
	in := New()
	_, err := run(t, in, "prnt(1)")
	var ue *UndefinedError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UndefinedError", err)
	}
	if ue.Name != "prnt" || ue.Suggestion != "print" {
		t.Errorf("got %q (suggestion %q), want prnt (print)", ue.Name, ue.Suggestion)
	}
	if !strings.Contains(err.Error(), "did you mean print?") {
		t.Errorf("message %q lacks suggestion", err.Error())
	}

	_, err = run(t, in, "qqqqqqqq")
	if !errors.As(err, &ue) || ue.Suggestion != "" {
		t.Errorf("qqqqqqqq: got %v, want undefined without suggestion", err)
	}
}

func TestUncaughtException(t *testing.T) {
	_, err := run(t, New(), `x = 1
throw("bad")`)
	ex := value.AsException(err)
	if ex == nil {
		t.Fatalf("err = %v, want exception", err)
	}
	check(t, "thrown", ex.Value, value.String("bad"))
	if !strings.HasPrefix(err.Error(), "test.calx:2:1: ") {
		t.Errorf("error %q is not located", err.Error())
	}
}

func TestHostFault(t *testing.T) {
	in := New()
	in.Define("fail", value.NewFunc("fail", 0, nil, func([]value.Value) (value.Value, error) {
		return nil, errors.New("disk on fire")
	}))

	_, err := run(t, in, "fail()")
	ex := value.AsException(err)
	if ex == nil || ex.Cause() == nil || ex.Cause().Error() != "disk on fire" {
		t.Fatalf("err = %v, want host fault", err)
	}

	v, err := run(t, in, "catch(fail).error")
	if err != nil {
		t.Fatal(err)
	}
	check(t, "caught", v, value.String("catch: disk on fire"))
}

func TestMaxDepth(t *testing.T) {
	in := New(WithMaxDepth(50))
	_, err := run(t, in, "f = n => f(n + 1); f(0)")
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("err = %v, want ErrMaxDepth", err)
	}

	// the interpreter is usable afterwards
	v, err := run(t, in, "f = n => n; f(3)")
	if err != nil {
		t.Fatal(err)
	}
	check(t, "after overflow", v, value.Real(3))
}

func TestCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	in := New()
	_, err := in.Exec(ctx, syntax.ParseFile("loop.calx", []byte("while true { x = 1 }")))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel2()
	_, err = in.Exec(ctx2, syntax.ParseFile("await.calx", []byte("await sleep(10000)")))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("await: err = %v, want deadline exceeded", err)
	}
}

func TestAwaitFailure(t *testing.T) {
	f := value.NewFuture()
	in := New(WithGlobals(map[string]value.Value{"pending": f}))
	go func() {
		time.Sleep(5 * time.Millisecond)
		_ = f.SetError(errors.New("backend down"))
	}()

	v, err := run(t, in, "catch(() => await pending).error")
	if err != nil {
		t.Fatal(err)
	}
	check(t, "await error", v, value.String("await: backend down"))
}

func TestPrint(t *testing.T) {
	var buf bytes.Buffer
	in := New(WithOutput(&buf))
	if _, err := run(t, in, `print("a", 1, [1,2]); print()`); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "a 1 [1, 2]\n\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestHostAPI(t *testing.T) {
	in := New(WithGlobals(map[string]value.Value{"rate": value.Real(2)}))
	if _, err := run(t, in, "scale = x => x * rate"); err != nil {
		t.Fatal(err)
	}

	f, ok := in.Lookup("scale")
	if !ok {
		t.Fatal("scale not defined")
	}
	v, err := in.Call(context.Background(), f, value.Real(21))
	if err != nil {
		t.Fatal(err)
	}
	check(t, "scale(21)", v, value.Real(42))

	if _, ok := in.Lookup("sqrt"); !ok {
		t.Error("Lookup does not see built-ins")
	}

	v, err = in.Eval(context.Background(), syntax.ParseString("rate + 1"))
	if err != nil {
		t.Fatal(err)
	}
	check(t, "rate + 1", v, value.Real(3))
}

func TestComplete(t *testing.T) {
	in := New()
	in.Define("maximum", value.Real(1))

	got := in.Complete("max")
	if len(got) < 2 || got[0] != "max" || got[1] != "maximum" {
		t.Errorf("Complete(max) = %v, want [max maximum ...]", got)
	}
	for _, name := range in.Complete("sq") {
		if name == "sqrt" {
			return
		}
	}
	t.Errorf("Complete(sq) lacks sqrt")
}

func TestNames(t *testing.T) {
	in := New()
	in.Define("zz", nil)
	names := in.Names()
	var hasPrint, hasZZ, hasPi bool
	for i, n := range names {
		if i > 0 && names[i-1] >= n {
			t.Fatalf("names not sorted and unique at %q", n)
		}
		hasPrint = hasPrint || n == "print"
		hasZZ = hasZZ || n == "zz"
		hasPi = hasPi || n == "pi"
	}
	if !hasPrint || !hasZZ || !hasPi {
		t.Errorf("Names() = %v, missing print, zz or pi", names)
	}
}

func TestFramesReleased(t *testing.T) {
	in := New()
	if _, err := run(t, in, "f = x => x + 1; for i in 1..100 { f(i) }"); err != nil {
		t.Fatal(err)
	}
	if n := len(in.frames.frames); n != 1 {
		t.Errorf("%d frames live after plain calls, want 1", n)
	}
}

package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunFilePrints(t *testing.T) {
	src := `sq(x) = x^2
total = reduce(add, 0, map(sq, [1..3]))
print("total", total)
`
	filename := writeTempFile(t, "input.calx", src)
	code, out, errOut := captureOutput(t, func() int {
		return runFile(filename)
	})

	if code != 0 {
		t.Fatalf("runFile exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if out != "total 14\n" {
		t.Fatalf("stdout = %q, want %q", out, "total 14\n")
	}
}

func TestRunFileRejectsSyntaxErrors(t *testing.T) {
	filename := writeTempFile(t, "bad.calx", "print(1)\nx = $\n")
	code, out, errOut := captureOutput(t, func() int {
		return runFile(filename)
	})

	if code != 1 {
		t.Fatalf("runFile exit=%d, want 1", code)
	}
	if out != "" {
		t.Fatalf("program ran despite syntax errors, stdout:\n%s", out)
	}
	if !strings.Contains(errOut, "bad.calx:2:5: invalid symbol") {
		t.Fatalf("stderr missing located diagnostic:\n%s", errOut)
	}
}

func TestRunFileReportsExceptions(t *testing.T) {
	filename := writeTempFile(t, "throw.calx", "x = 1\nthrow(\"bad input\")\n")
	code, _, errOut := captureOutput(t, func() int {
		return runFile(filename)
	})

	if code != 1 {
		t.Fatalf("runFile exit=%d, want 1", code)
	}
	if !strings.Contains(errOut, `2:1: uncaught exception: "bad input"`) {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRunFileTimeout(t *testing.T) {
	old := *timeout
	*timeout = 20 * time.Millisecond
	defer func() { *timeout = old }()

	filename := writeTempFile(t, "loop.calx", "while true { }\n")
	code, _, errOut := captureOutput(t, func() int {
		return runFile(filename)
	})

	if code != 1 || !strings.Contains(errOut, "deadline exceeded") {
		t.Fatalf("exit=%d stderr=%q, want deadline failure", code, errOut)
	}
}

func TestRunExpr(t *testing.T) {
	tests := []struct {
		src  string
		code int
		want string
	}{
		{"2+3*4", 0, "14\n"},
		{"[1,2,3;4,5,6](1,1)", 0, "5\n"},
		{`upper("a") + 1`, 0, "\"A1\"\n"},
		{"1 +", 0, "null\n"},
		{"$", 1, ""},
		{"nope", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			code, out, errOut := captureOutput(t, func() int {
				return runExpr(tt.src)
			})
			if code != tt.code || out != tt.want {
				t.Errorf("exit=%d stdout=%q stderr=%q, want exit=%d stdout=%q", code, out, errOut, tt.code, tt.want)
			}
		})
	}
}

func TestRunExprWithPlugin(t *testing.T) {
	manifest := writeTempFile(t, "units.yaml", `name: units
constants:
  km: 1000
  sqrt: 0
functions:
  toKm: m => m / km
`)
	plugins = pluginList{manifest}
	defer func() { plugins = nil }()

	code, out, errOut := captureOutput(t, func() int {
		return runExpr("toKm(2500)")
	})
	if code != 0 || out != "2.5\n" {
		t.Fatalf("exit=%d stdout=%q stderr=%q", code, out, errOut)
	}
	if !strings.Contains(errOut, "warning: plugin units: sqrt is already defined") {
		t.Fatalf("stderr missing merge warning:\n%s", errOut)
	}
}

func TestRunEmitASTJSON(t *testing.T) {
	old := *astFormat
	*astFormat = "json"
	defer func() { *astFormat = old }()

	filename := writeTempFile(t, "ast.calx", "f = x => x + 1\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitAST exit=%d\nstderr:\n%s", code, errOut)
	}
	if !json.Valid([]byte(out)) {
		t.Fatalf("output is not JSON:\n%s", out)
	}
	if !strings.Contains(out, `"Function"`) {
		t.Fatalf("JSON AST missing Function node:\n%s", out)
	}
}

func TestRunEmitASTText(t *testing.T) {
	filename := writeTempFile(t, "ast.calx", "1 + $\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename)
	})

	if code != 1 {
		t.Fatalf("runEmitAST exit=%d, want 1", code)
	}
	if !strings.Contains(out, `ast.calx:1:5 "invalid symbol"`) {
		t.Fatalf("AST missing invalid leaf:\n%s", out)
	}
	if !strings.Contains(errOut, "ast.calx:1:5: invalid symbol") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestRunEmitTokens(t *testing.T) {
	filename := writeTempFile(t, "toks.calx", "x = \"a\\tb\" $\n")
	code, out, errOut := captureOutput(t, func() int {
		return runEmitTokens(filename)
	})

	if code != 1 {
		t.Fatalf("runEmitTokens exit=%d, want 1 for illegal token", code)
	}
	if !strings.Contains(out, `"a\tb"`) {
		t.Fatalf("token listing missing escaped string literal:\n%s", out)
	}
	if !strings.Contains(errOut, "1 malformed token(s)") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		lit, want string
	}{
		{"", `""`},
		{"abc", `"abc"`},
		{"a\nb", `"a\nb"`},
		{`q"`, `"q\""`},
	}
	for _, tt := range tests {
		if got := formatLiteral(tt.lit); got != tt.want {
			t.Errorf("formatLiteral(%q) = %s, want %s", tt.lit, got, tt.want)
		}
	}
}

func writeTempFile(t *testing.T, name, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}

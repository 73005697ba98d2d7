// Package main implements the calx command-line interpreter.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/you-not-fish/calx"
	"github.com/you-not-fish/calx/internal/syntax"
)

// Interpreter flags
var (
	emitTokens = flag.Bool("emit-tokens", false, "Output token stream")
	emitAST    = flag.Bool("emit-ast", false, "Output AST")
	astFormat  = flag.String("ast-format", "text", "AST output format (text or json)")
	expr       = flag.String("e", "", "Evaluate expression and print the result")
	timeout    = flag.Duration("timeout", 0, "Abort evaluation after this long (0 means no limit)")
	version    = flag.Bool("version", false, "Print version")
	plugins    pluginList
)

func init() {
	flag.Var(&plugins, "plugin", "Load a YAML plugin manifest (repeatable)")
}

// pluginList collects repeated -plugin flags.
type pluginList []string

func (l *pluginList) String() string { return strings.Join(*l, ",") }

func (l *pluginList) Set(path string) error {
	*l = append(*l, path)
	return nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "calx %s\n\n", calx.Version)
		fmt.Fprintf(os.Stderr, "Usage: calx [options] <file.calx>\n")
		fmt.Fprintf(os.Stderr, "       calx [options] -e <expression>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Printf("calx version %s\n", calx.Version)
		fmt.Printf("go version %s\n", runtime.Version())
		os.Exit(0)
	}

	if *expr != "" {
		os.Exit(runExpr(*expr))
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "error: no input file")
		fmt.Fprintln(os.Stderr, "usage: calx [options] <file.calx>")
		os.Exit(1)
	}

	filename := args[0]

	if *emitTokens {
		os.Exit(runEmitTokens(filename))
	}

	if *emitAST {
		os.Exit(runEmitAST(filename))
	}

	os.Exit(runFile(filename))
}

// runEmitTokens scans the input file and prints all tokens with positions.
func runEmitTokens(filename string) int {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer f.Close()

	toks, err := syntax.Tokenize(filename, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	fmt.Printf("%-20s %-12s %s\n", "POSITION", "TOKEN", "LITERAL")
	fmt.Printf("%-20s %-12s %s\n", strings.Repeat("-", 20), strings.Repeat("-", 12), strings.Repeat("-", 20))

	bad := 0
	for _, l := range toks {
		if !l.Tok.Significant() {
			continue
		}
		if l.Tok.Malformed() {
			bad++
		}
		fmt.Printf("%-20s %-12s %s\n", l.Pos, l.Tok, formatLiteral(l.Lit))
	}

	if bad > 0 {
		fmt.Fprintf(os.Stderr, "%s: %d malformed token(s)\n", filename, bad)
		return 1
	}
	return 0
}

// formatLiteral formats a literal for display, escaping special characters.
func formatLiteral(lit string) string {
	if lit == "" {
		return "\"\""
	}

	var b strings.Builder
	b.WriteRune('"')
	for _, r := range lit {
		switch r {
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune('"')
	return b.String()
}

// runEmitAST parses the input file and outputs the AST.
func runEmitAST(filename string) int {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	list := calx.Parse(filename, src)
	diags := calx.Diagnostics(list)
	printDiagnostics(os.Stderr, diags)

	switch *astFormat {
	case "json":
		if err := syntax.FprintStmtsJSON(os.Stdout, list); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	default:
		syntax.FprintStmts(os.Stdout, list)
	}

	if len(diags) > 0 {
		return 1
	}
	return 0
}

// runFile parses and executes a program. Programs with syntax errors are
// not run.
func runFile(filename string) int {
	src, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	list := calx.Parse(filename, src)
	if diags := calx.Diagnostics(list); len(diags) > 0 {
		printDiagnostics(os.Stderr, diags)
		return 1
	}

	ctx, cancel := runContext()
	defer cancel()

	in, code := newInterpreter(ctx)
	if in == nil {
		return code
	}
	if _, err := in.Exec(ctx, list); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runExpr evaluates a single expression and prints its value.
func runExpr(src string) int {
	x := calx.ParseExpression(src)
	if diags := syntax.Diagnostics(x); len(diags) > 0 {
		printDiagnostics(os.Stderr, diags)
		return 1
	}

	ctx, cancel := runContext()
	defer cancel()

	in, code := newInterpreter(ctx)
	if in == nil {
		return code
	}
	v, err := in.Eval(ctx, src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	fmt.Println(calx.Format(v))
	return 0
}

func runContext() (context.Context, context.CancelFunc) {
	if *timeout > 0 {
		return context.WithTimeout(context.Background(), *timeout)
	}
	return context.WithCancel(context.Background())
}

// newInterpreter builds an interpreter with the requested plugins installed.
func newInterpreter(ctx context.Context) (*calx.Interpreter, int) {
	in := calx.New(calx.WithOutput(os.Stdout))
	for _, path := range plugins {
		p, err := calx.LoadPlugin(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return nil, 1
		}
		skipped, err := in.Use(ctx, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return nil, 1
		}
		for _, name := range skipped {
			fmt.Fprintf(os.Stderr, "warning: plugin %s: %s is already defined\n", p.Name, name)
		}
	}
	return in, 0
}

func printDiagnostics(w io.Writer, diags []calx.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.Error())
	}
}

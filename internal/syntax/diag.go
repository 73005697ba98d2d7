package syntax

import "fmt"

// Code identifies the kind of malformed input an Invalid node replaces.
type Code uint8

const (
	_ Code = iota
	CodeParenExpected
	CodeBracketExpected
	CodeBraceExpected
	CodeTerminatorExpected
	CodeIdentifierExpected
	CodeColonExpected
	CodeKeywordExpected
	CodeInvalidSymbol
	CodeUnexpectedToken
	CodeUnterminatedBlock
	CodeUnterminatedMatrix
	CodeUnterminatedObject
	CodeUnterminatedString
	CodeJsxNotOpened
	CodeJsxNotClosed
	CodeJsxTagMismatch
	CodeInvalidAssignment
	CodeInvalidParameter

	codeCount
)

var codeDescriptions = [...]string{
	CodeParenExpected:      "expected )",
	CodeBracketExpected:    "expected ]",
	CodeBraceExpected:      "expected }",
	CodeTerminatorExpected: "expected ; or newline",
	CodeIdentifierExpected: "expected identifier",
	CodeColonExpected:      "expected :",
	CodeKeywordExpected:    "expected keyword",
	CodeInvalidSymbol:      "invalid symbol",
	CodeUnexpectedToken:    "unexpected token",
	CodeUnterminatedBlock:  "block is not terminated",
	CodeUnterminatedMatrix: "matrix is not terminated",
	CodeUnterminatedObject: "object is not terminated",
	CodeUnterminatedString: "string is not terminated",
	CodeJsxNotOpened:       "element was closed but never opened",
	CodeJsxNotClosed:       "element is not closed",
	CodeJsxTagMismatch:     "closing tag does not match opening tag",
	CodeInvalidAssignment:  "left side cannot be assigned to",
	CodeInvalidParameter:   "parameter must be a name",
}

var codeNames = [...]string{
	CodeParenExpected:      "ParenExpected",
	CodeBracketExpected:    "BracketExpected",
	CodeBraceExpected:      "BraceExpected",
	CodeTerminatorExpected: "TerminatorExpected",
	CodeIdentifierExpected: "IdentifierExpected",
	CodeColonExpected:      "ColonExpected",
	CodeKeywordExpected:    "KeywordExpected",
	CodeInvalidSymbol:      "InvalidSymbol",
	CodeUnexpectedToken:    "UnexpectedToken",
	CodeUnterminatedBlock:  "UnterminatedBlock",
	CodeUnterminatedMatrix: "UnterminatedMatrix",
	CodeUnterminatedObject: "UnterminatedObject",
	CodeUnterminatedString: "UnterminatedString",
	CodeJsxNotOpened:       "JsxNotOpened",
	CodeJsxNotClosed:       "JsxNotClosed",
	CodeJsxTagMismatch:     "JsxTagMismatch",
	CodeInvalidAssignment:  "InvalidAssignment",
	CodeInvalidParameter:   "InvalidParameter",
}

// Name returns the identifier-style name of c, e.g. "InvalidSymbol".
func (c Code) Name() string {
	if c > 0 && c < codeCount {
		return codeNames[c]
	}
	return fmt.Sprintf("Code%d", uint8(c))
}

// String returns the fixed description of c.
func (c Code) String() string {
	if c > 0 && c < codeCount {
		return codeDescriptions[c]
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// Diagnostic is an Invalid node found in a tree, rendered for display.
type Diagnostic struct {
	Pos  Pos
	End  Pos
	Code Code
}

func (d Diagnostic) Error() string {
	return d.Pos.String() + ": " + d.Code.String()
}

// Diagnostics returns every Invalid leaf reachable from n in source order.
func Diagnostics(n Node) []Diagnostic {
	var out []Diagnostic
	Walk(n, func(n Node) bool {
		if inv, ok := n.(*Invalid); ok {
			out = append(out, Diagnostic{Pos: inv.Pos(), End: inv.End(), Code: inv.Code})
		}
		return true
	})
	return out
}

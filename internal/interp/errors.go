package interp

import (
	"context"
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"

	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

// ErrMaxDepth is raised when calls nest deeper than the interpreter allows.
var ErrMaxDepth = errors.New("maximum call depth exceeded")

// SyntaxError is raised when evaluation reaches an Invalid node.
type SyntaxError struct {
	Diag syntax.Diagnostic
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Diag.Error()
}

// UndefinedError is raised when a name is not bound in any enclosing scope.
type UndefinedError struct {
	Pos        syntax.Pos
	Name       string
	Suggestion string // closest bound name, or ""
}

func (e *UndefinedError) Error() string {
	msg := fmt.Sprintf("%s: undefined: %s", e.Pos, e.Name)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %s?)", e.Suggestion)
	}
	return msg
}

// raise builds a language-level exception carrying a message.
func raise(format string, args ...interface{}) error {
	return value.Throw(value.String(fmt.Sprintf(format, args...)))
}

// passThrough reports whether err must reach the caller unchanged rather
// than be converted into an exception.
func passThrough(err error) bool {
	var se *SyntaxError
	var ue *UndefinedError
	return errors.As(err, &se) || errors.As(err, &ue) ||
		value.AsException(err) != nil ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrMaxDepth)
}

// hostFault converts an error returned by a native function into an
// exception annotated with the function name.
func hostFault(err error, name string) error {
	if err == nil || passThrough(err) {
		return err
	}
	if name == "" {
		name = "native function"
	}
	return value.Fault(err, "%s", name)
}

// suggest returns the candidate closest to name, or "" when nothing is
// close enough to be a plausible typo.
func suggest(name string, candidates []string) string {
	if len(name) >= 3 {
		ranks := fuzzy.RankFindFold(name, candidates)
		if len(ranks) > 0 {
			sort.Stable(ranks)
			return ranks[0].Target
		}
	}

	limit := len(name) / 3
	if limit < 1 {
		limit = 1
	}
	best, bestDist := "", limit+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

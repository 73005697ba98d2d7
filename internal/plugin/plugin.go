// Package plugin bundles named values that extend an interpreter's global
// scope, and loads such bundles from YAML manifests.
//
// A manifest looks like:
//
//	name: physics
//	version: 1.2.0
//	author: Lab Tools
//	constants:
//	  c: 299792458
//	  units: {length: m, time: s}
//	functions:
//	  kinetic: (m, v) => m * v^2 / 2
//
// Constants are converted with value.FromGo. Functions are calx source
// evaluated by the host interpreter when the plugin is installed.
package plugin

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

// Plugin is a named bundle of global values.
type Plugin struct {
	Name    string
	Version string
	Author  string

	// Content holds ready-made values.
	Content map[string]value.Value

	// Functions holds source expressions evaluated on installation.
	Functions map[string]string
}

// Scope is the global scope a plugin is merged into.
type Scope interface {
	Lookup(name string) (value.Value, bool)
	Define(name string, v value.Value)
}

// Evaluator is a scope that can also evaluate expressions.
type Evaluator interface {
	Scope
	Eval(ctx context.Context, x syntax.Expr) (value.Value, error)
}

// ValidationError aggregates manifest problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "plugin: invalid manifest"
	}
	var b strings.Builder
	b.WriteString("plugin manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Merge binds every Content entry whose name is still free in dst. Merging
// is additive: existing bindings, built-ins included, are never replaced.
// It returns the skipped names in sorted order.
func Merge(dst Scope, p *Plugin) []string {
	var skipped []string
	for _, name := range sortedKeys(p.Content) {
		if _, ok := dst.Lookup(name); ok {
			skipped = append(skipped, name)
			continue
		}
		dst.Define(name, p.Content[name])
	}
	return skipped
}

// Install evaluates p's functions with ev and merges the results together
// with p's content. Names already bound in ev are skipped and returned.
func Install(ctx context.Context, ev Evaluator, p *Plugin) ([]string, error) {
	content := make(map[string]value.Value, len(p.Content)+len(p.Functions))
	for name, v := range p.Content {
		content[name] = v
	}

	for _, name := range sortedKeys(p.Functions) {
		x := syntax.ParseString(p.Functions[name])
		if diags := syntax.Diagnostics(x); len(diags) > 0 {
			return nil, errors.Errorf("plugin %s: function %s: %s", p.Name, name, diags[0])
		}
		v, err := ev.Eval(ctx, x)
		if err != nil {
			return nil, errors.Wrapf(err, "plugin %s: function %s", p.Name, name)
		}
		if f, ok := v.(*value.Func); ok && f.Name == "" {
			f.Name = name
		}
		content[name] = v
	}

	merged := *p
	merged.Content = content
	return Merge(ev, &merged), nil
}

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Author    string                 `yaml:"author"`
	Constants map[string]interface{} `yaml:"constants"`
	Functions map[string]string      `yaml:"functions"`
}

// Load parses a manifest from r.
func Load(r io.Reader) (*Plugin, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("plugin: empty manifest")
		}
		return nil, errors.Wrap(err, "plugin: parse manifest")
	}
	return raw.toPlugin()
}

// LoadFile parses the manifest at path.
func LoadFile(path string) (*Plugin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "plugin")
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return p, nil
}

func (m *manifestFile) toPlugin() (*Plugin, error) {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}

	p := &Plugin{
		Name:      m.Name,
		Version:   m.Version,
		Author:    m.Author,
		Content:   make(map[string]value.Value, len(m.Constants)),
		Functions: make(map[string]string, len(m.Functions)),
	}
	for _, name := range sortedKeys(m.Constants) {
		if !validName(name) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("constants: %q is not a valid name", name))
			continue
		}
		v, err := value.FromGo(m.Constants[name])
		if err != nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("constants.%s: %v", name, err))
			continue
		}
		p.Content[name] = v
	}
	for _, name := range sortedKeys(m.Functions) {
		_, dup := m.Constants[name]
		switch {
		case !validName(name):
			errs.Issues = append(errs.Issues, fmt.Sprintf("functions: %q is not a valid name", name))
		case dup:
			errs.Issues = append(errs.Issues, fmt.Sprintf("functions.%s: also defined as a constant", name))
		case strings.TrimSpace(m.Functions[name]) == "":
			errs.Issues = append(errs.Issues, fmt.Sprintf("functions.%s: empty source", name))
		default:
			p.Functions[name] = m.Functions[name]
		}
	}

	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return p, nil
}

// validName reports whether name scans as a single identifier.
func validName(name string) bool {
	x, ok := syntax.ParseString(name).(*syntax.Variable)
	return ok && x.Name == name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

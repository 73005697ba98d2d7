package plugin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/you-not-fish/calx/internal/interp"
	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

const physics = `
name: physics
version: 1.2.0
author: Lab Tools
constants:
  c: 299792458
  g: 9.81
  units: {length: m, time: s}
  primes: [2, 3, 5]
functions:
  kinetic: (m, v) => m * v^2 / 2
  weight: m => m * g
`

func TestLoad(t *testing.T) {
	p, err := Load(strings.NewReader(physics))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "physics" || p.Version != "1.2.0" || p.Author != "Lab Tools" {
		t.Errorf("metadata = %q %q %q", p.Name, p.Version, p.Author)
	}

	tests := []struct {
		name string
		want value.Value
	}{
		{"c", value.Real(299792458)},
		{"g", value.Real(9.81)},
		{"primes", value.NewArray(value.Real(2), value.Real(3), value.Real(5))},
	}
	for _, tt := range tests {
		if got := p.Content[tt.name]; !value.Identical(got, tt.want) {
			t.Errorf("%s = %s, want %s", tt.name, value.Format(got), value.Format(tt.want))
		}
	}
	units, ok := p.Content["units"].(*value.Map)
	if !ok {
		t.Fatalf("units = %s, want map", value.Format(p.Content["units"]))
	}
	if v, _ := units.Get("length"); !value.Identical(v, value.String("m")) {
		t.Errorf("units.length = %s", value.Format(v))
	}
	if len(p.Functions) != 2 {
		t.Errorf("functions = %v", p.Functions)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     string
	}{
		{"empty", "", "empty manifest"},
		{"unknown_field", "name: x\nextra: 1\n", "field extra not found"},
		{"missing_name", "version: \"1\"\n", "name must be provided"},
		{"bad_constant_name", "name: x\nconstants:\n  \"a b\": 1\n", `"a b" is not a valid name`},
		{"keyword_name", "name: x\nfunctions:\n  if: x => x\n", `"if" is not a valid name`},
		{"duplicate", "name: x\nconstants:\n  f: 1\nfunctions:\n  f: x => x\n", "also defined as a constant"},
		{"empty_source", "name: x\nfunctions:\n  f: \" \"\n", "empty source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.manifest))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	var verr *ValidationError
	_, err := Load(strings.NewReader("version: \"1\"\nconstants:\n  \"1x\": 2\n"))
	if !errors.As(err, &verr) || len(verr.Issues) != 2 {
		t.Errorf("err = %v, want two validation issues", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "physics.yaml")
	if err := os.WriteFile(path, []byte(physics), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "physics" {
		t.Errorf("name = %q", p.Name)
	}

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestMergeIsAdditive(t *testing.T) {
	in := interp.New()
	in.Define("c", value.Real(3))

	p := &Plugin{Name: "p", Content: map[string]value.Value{
		"c":    value.Real(299792458),
		"sqrt": value.Real(0),
		"h":    value.Real(6.626e-34),
	}}
	skipped := Merge(in, p)
	if strings.Join(skipped, ",") != "c,sqrt" {
		t.Errorf("skipped = %v, want [c sqrt]", skipped)
	}
	if v, _ := in.Lookup("c"); !value.Identical(v, value.Real(3)) {
		t.Errorf("c was replaced by %s", value.Format(v))
	}
	if v, _ := in.Lookup("sqrt"); !isFunc(v) {
		t.Errorf("built-in sqrt was replaced")
	}
	if v, _ := in.Lookup("h"); !value.Identical(v, value.Real(6.626e-34)) {
		t.Errorf("h = %s", value.Format(v))
	}
}

func TestInstall(t *testing.T) {
	p, err := Load(strings.NewReader(physics))
	if err != nil {
		t.Fatal(err)
	}
	in := interp.New()
	skipped, err := Install(context.Background(), in, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v", skipped)
	}

	tests := []struct {
		src  string
		want value.Value
	}{
		{"kinetic(2, 3)", value.Real(9)},
		{"weight(2)", value.Real(19.62)},
		{"units.time", value.String("s")},
	}
	for _, tt := range tests {
		got, err := in.Exec(context.Background(), syntax.ParseFile("t", []byte(tt.src)))
		if err != nil {
			t.Fatalf("%s: %v", tt.src, err)
		}
		if !value.Identical(got, tt.want) {
			t.Errorf("%s = %s, want %s", tt.src, value.Format(got), value.Format(tt.want))
		}
	}

	f, _ := in.Lookup("kinetic")
	if fn, ok := f.(*value.Func); !ok || fn.Name != "kinetic" {
		t.Errorf("kinetic = %s, want named function", value.Format(f))
	}
}

func TestInstallBadSource(t *testing.T) {
	p := &Plugin{Name: "broken", Functions: map[string]string{"f": "x => x +* 1"}}
	_, err := Install(context.Background(), interp.New(), p)
	if err == nil || !strings.Contains(err.Error(), "plugin broken: function f") {
		t.Errorf("err = %v", err)
	}
}

func isFunc(v value.Value) bool {
	_, ok := v.(*value.Func)
	return ok
}

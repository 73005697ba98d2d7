package interp

import (
	"github.com/you-not-fish/calx/internal/syntax"
	"github.com/you-not-fish/calx/internal/value"
)

// A frame holds the variables of one function activation. Frames live in
// an arena and refer to their lexical parent by index, so closures capture
// an int rather than a pointer chain.
type frame struct {
	parent   int           // -1 for the global frame
	static   *syntax.Frame // parse-time frame this activation instantiates
	vars     map[string]value.Value
	captured bool // a closure refers to this frame; it must outlive the call
}

// arena owns every live frame. Index 0 is the global frame.
type arena struct {
	frames []frame
}

func newArena() *arena {
	return &arena{frames: []frame{{parent: -1, vars: make(map[string]value.Value)}}}
}

func (a *arena) push(parent int, static *syntax.Frame) int {
	a.frames = append(a.frames, frame{parent: parent, static: static, vars: make(map[string]value.Value)})
	return len(a.frames) - 1
}

// release drops frame i if it is the newest frame and nothing captured it.
func (a *arena) release(i int) {
	if i > 0 && i == len(a.frames)-1 && !a.frames[i].captured {
		a.frames[i] = frame{}
		a.frames = a.frames[:i]
	}
}

func (a *arena) globals() map[string]value.Value {
	return a.frames[0].vars
}

// lookup resolves an untagged name by walking the chain from i outwards.
func (a *arena) lookup(i int, name string) (value.Value, bool) {
	for ; i >= 0; i = a.frames[i].parent {
		if v, ok := a.frames[i].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// owner returns the index of the activation of static visible from i, or
// -1 if the chain does not contain one. A nil static frame is the global
// frame.
func (a *arena) owner(i int, static *syntax.Frame) int {
	if static == nil {
		return 0
	}
	for ; i >= 0; i = a.frames[i].parent {
		if a.frames[i].static == static {
			return i
		}
	}
	return -1
}

// assign writes name into the nearest frame that already binds it,
// falling back to the global frame.
func (a *arena) assign(i int, name string, v value.Value) {
	for ; i >= 0; i = a.frames[i].parent {
		if _, ok := a.frames[i].vars[name]; ok {
			a.frames[i].vars[name] = v
			return
		}
	}
	a.globals()[name] = v
}

// visible returns every name bound along the chain from i.
func (a *arena) visible(i int) []string {
	var names []string
	for ; i >= 0; i = a.frames[i].parent {
		for name := range a.frames[i].vars {
			names = append(names, name)
		}
	}
	return names
}

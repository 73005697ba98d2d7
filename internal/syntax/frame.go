package syntax

import "sort"

// Frame is a lexical function frame seen while parsing. It maps each name
// declared by the function (parameters and let bindings) to the node that
// declares it. Frames exist only to tag Variable nodes; values live in the
// evaluator.
type Frame struct {
	parent *Frame
	decls  map[string]Node
}

// NewFrame creates an empty frame nested in parent.
func NewFrame(parent *Frame) *Frame {
	return &Frame{parent: parent, decls: make(map[string]Node)}
}

// Parent returns the enclosing frame, or nil for a top-level function.
func (f *Frame) Parent() *Frame {
	return f.parent
}

// Lookup returns the node declaring name in this frame only.
func (f *Frame) Lookup(name string) Node {
	return f.decls[name]
}

// Names returns the declared names in sorted order.
func (f *Frame) Names() []string {
	names := make([]string, 0, len(f.decls))
	for name := range f.decls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tracker maintains the stack of frames during a parse. The zero value has
// no current frame, so top-level names resolve to globals.
type Tracker struct {
	cur *Frame
}

// PushNewFrame enters a new function frame.
func (t *Tracker) PushNewFrame() *Frame {
	t.cur = NewFrame(t.cur)
	return t.cur
}

// PopCurrentFrame leaves the current frame and returns it.
func (t *Tracker) PopCurrentFrame() *Frame {
	f := t.cur
	if f != nil {
		t.cur = f.parent
	}
	return f
}

// Current returns the innermost frame, or nil at top level.
func (t *Tracker) Current() *Frame {
	return t.cur
}

// Provide declares name in the current frame. It is a no-op at top level.
func (t *Tracker) Provide(name string, decl Node) {
	if t.cur != nil {
		t.cur.decls[name] = decl
	}
}

// Find returns the innermost frame declaring name, or nil if name is
// free in every enclosing function.
func (t *Tracker) Find(name string) *Frame {
	for f := t.cur; f != nil; f = f.parent {
		if _, ok := f.decls[name]; ok {
			return f
		}
	}
	return nil
}

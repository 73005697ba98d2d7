package value

import "strconv"

// Map is an ordered, string-keyed map. Keys iterate in insertion order.
//
// Arrays are maps whose keys are the zero-based indices "0", "1", ... in
// insertion order. Every array-producing operation must emit keys in that
// form so that length, key listing and iteration stay consistent.
type Map struct {
	keys []string
	vals map[string]Value
}

func (*Map) Kind() Kind { return KindMap }

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// NewArray returns an array map holding vals under keys "0".."n-1".
func NewArray(vals ...Value) *Map {
	m := &Map{keys: make([]string, 0, len(vals)), vals: make(map[string]Value, len(vals))}
	for _, v := range vals {
		m.Push(v)
	}
	return m
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// Get returns the value stored under key. A key may be present with a nil
// value.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// Set stores v under key, appending key if it is new.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Push appends v under the next array index.
func (m *Map) Push(v Value) {
	m.Set(strconv.Itoa(len(m.keys)), v)
}

// Delete removes key, preserving the order of the remaining keys.
func (m *Map) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the values in key order.
func (m *Map) Values() []Value {
	out := make([]Value, len(m.keys))
	for i, k := range m.keys {
		out[i] = m.vals[k]
	}
	return out
}

// Range calls f for each entry in order until f returns false.
func (m *Map) Range(f func(key string, v Value) bool) {
	for _, k := range m.keys {
		if !f(k, m.vals[k]) {
			return
		}
	}
}

// IsArray reports whether the keys are exactly "0".."n-1" in order.
func (m *Map) IsArray() bool {
	for i, k := range m.keys {
		if k != strconv.Itoa(i) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy of m.
func (m *Map) Clone() *Map {
	c := &Map{keys: m.Keys(), vals: make(map[string]Value, len(m.vals))}
	for k, v := range m.vals {
		c.vals[k] = v
	}
	return c
}

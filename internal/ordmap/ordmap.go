// Package ordmap provides an insertion-ordered string-keyed mapping.
//
// Assembly state is full of small mappings whose key order carries meaning for
// display and diff-friendliness (parameter dictionaries, per-sample stat
// records, directory registries). Go maps do not preserve order, so this type
// keeps an explicit key slice alongside the value map.
package ordmap

// Map is an insertion-ordered mapping from string keys to arbitrary values.
// Setting an existing key keeps its original position.
type Map struct {
	keys []string
	vals map[string]any
}

// New returns an empty Map.
func New() *Map {
	return &Map{vals: make(map[string]any)}
}

// Pair is a key/value tuple used for literal construction.
type Pair struct {
	Key   string
	Value any
}

// FromPairs builds a Map with the given entries in order.
func FromPairs(pairs ...Pair) *Map {
	m := New()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Set inserts or updates key. A new key is appended; an existing key keeps
// its position.
func (m *Map) Set(key string, value any) {
	if m.vals == nil {
		m.vals = make(map[string]any)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (any, bool) {
	if m == nil || m.vals == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key if present and returns its value.
func (m *Map) Delete(key string) (any, bool) {
	v, ok := m.Get(key)
	if !ok {
		return nil, false
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, value any) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

// Clone returns a copy of the map. Nested *Map values are cloned recursively;
// slice values are copied shallowly.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	out := New()
	for _, k := range m.keys {
		out.Set(k, cloneValue(m.vals[k]))
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Map:
		return t.Clone()
	case []any:
		cp := make([]any, len(t))
		copy(cp, t)
		return cp
	case []string:
		cp := make([]string, len(t))
		copy(cp, t)
		return cp
	default:
		return v
	}
}

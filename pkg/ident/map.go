package ident

// Map is an insertion-ordered associative table keyed by an interned ID.
// It backs the class member name indexes (ClassDef.PropIdx/MethodIdx/
// StaticIdx), preserving insertion order while still supporting fast
// lookup. `Obj` values do not use it; they hold a []values.ObjEntry.
type Map[V any] struct {
	pool   *Pool
	index  map[ID]int
	keys   []ID
	values []V
}

// NewMap creates an empty ordered map backed by pool for name resolution.
func NewMap[V any](pool *Pool) *Map[V] {
	return &Map[V]{pool: pool, index: make(map[ID]int)}
}

// Set inserts or overwrites the value for id, preserving the original
// insertion position on overwrite.
func (m *Map[V]) Set(id ID, v V) {
	if i, ok := m.index[id]; ok {
		m.values[i] = v
		return
	}
	m.index[id] = len(m.keys)
	m.keys = append(m.keys, id)
	m.values = append(m.values, v)
}

// Get returns the value for id and whether it was present.
func (m *Map[V]) Get(id ID) (V, bool) {
	if i, ok := m.index[id]; ok {
		return m.values[i], true
	}
	var zero V
	return zero, false
}

// Has reports whether id is present.
func (m *Map[V]) Has(id ID) bool {
	_, ok := m.index[id]
	return ok
}

// Delete removes id if present, preserving the relative order of the
// remaining entries.
func (m *Map[V]) Delete(id ID) {
	i, ok := m.index[id]
	if !ok {
		return
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.values = append(m.values[:i], m.values[i+1:]...)
	delete(m.index, id)
	for k, key := range m.keys[i:] {
		m.index[key] = i + k
	}
}

// Len returns the number of entries.
func (m *Map[V]) Len() int { return len(m.keys) }

// Keys returns the interned keys in insertion order. The returned slice
// must not be mutated by callers.
func (m *Map[V]) Keys() []ID { return m.keys }

// Range calls f for every entry in insertion order, stopping early if f
// returns false.
func (m *Map[V]) Range(f func(id ID, v V) bool) {
	for i, k := range m.keys {
		if !f(k, m.values[i]) {
			return
		}
	}
}

// Clone returns a shallow copy with its own backing slices/map.
func (m *Map[V]) Clone() *Map[V] {
	out := &Map[V]{
		pool:   m.pool,
		index:  make(map[ID]int, len(m.index)),
		keys:   append([]ID(nil), m.keys...),
		values: append([]V(nil), m.values...),
	}
	for k, v := range m.index {
		out.index[k] = v
	}
	return out
}

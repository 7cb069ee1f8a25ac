// Package entity provides containers keyed by small dense integer
// handles. Each IR entity (value, instruction, block) is identified by
// such a handle, so a plain slice indexed by the handle is both the
// fastest and the most compact mapping. All containers grow on write
// and return the zero value for keys that were never written.
package entity

// Idx is the constraint for dense entity handles.
type Idx interface{ ~uint32 }

// Map is a mapping from a dense entity handle K to V, backed by a
// slice indexed by the handle.
type Map[K Idx, V any] struct {
	elems []V
}

// Get returns the value for k, or the zero value of V if k was never
// written. Get never grows the underlying storage.
func (m *Map[K, V]) Get(k K) V {
	if int(k) < len(m.elems) {
		return m.elems[k]
	}
	var zero V
	return zero
}

// GetPtr returns a pointer to the value for k, growing the storage as
// needed so that the pointer is always valid until the next growth.
func (m *Map[K, V]) GetPtr(k K) *V {
	m.grow(k)
	return &m.elems[k]
}

// Set stores v for k, growing the storage as needed.
func (m *Map[K, V]) Set(k K, v V) {
	m.grow(k)
	m.elems[k] = v
}

// Len returns the number of addressable entries, i.e. one past the
// largest key ever written.
func (m *Map[K, V]) Len() int {
	return len(m.elems)
}

// Clear removes all entries while keeping the allocated storage.
func (m *Map[K, V]) Clear() {
	var zero V
	for i := range m.elems {
		m.elems[i] = zero
	}
	m.elems = m.elems[:0]
}

func (m *Map[K, V]) grow(k K) {
	if l := len(m.elems); l <= int(k) {
		m.elems = append(m.elems, make([]V, int(k)+1-l)...)
	}
}

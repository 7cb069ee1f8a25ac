package entity

// ListPool is a shared backing store for List(s). All member lists of
// one function share a single pool, so an individual List is just a
// (start, length) pair and stays copyable. Storage is reclaimed only
// by Reset, which invalidates every List carved from the pool.
type ListPool[T any] struct {
	data []T
}

// Reset drops all lists allocated from the pool while keeping the
// allocated storage for reuse.
func (p *ListPool[T]) Reset() {
	p.data = p.data[:0]
}

// List is a slice of T stored in a ListPool. The zero value is an
// empty list.
type List[T any] struct {
	start, n uint32
}

// Len returns the number of elements in the list.
func (l List[T]) Len() int {
	return int(l.n)
}

// Slice returns the elements of the list as a slice into the pool.
// The slice is invalidated by the next Append on any list of the pool.
func (l List[T]) Slice(p *ListPool[T]) []T {
	return p.data[l.start : l.start+l.n]
}

// Append adds vs to the end of the list. If the list is not at the
// tail of the pool, its elements are relocated to the tail first.
func (l *List[T]) Append(p *ListPool[T], vs ...T) {
	if int(l.start)+int(l.n) != len(p.data) {
		start := uint32(len(p.data))
		p.data = append(p.data, p.data[l.start:l.start+l.n]...)
		l.start = start
	}
	p.data = append(p.data, vs...)
	l.n += uint32(len(vs))
}

// Clear empties the list. The pool storage it occupied is reclaimed by
// the next pool Reset.
func (l *List[T]) Clear() {
	l.n = 0
}

package entity

// Set is a set of dense entity handles, backed by a bit vector.
type Set[K Idx] struct {
	words []uint32
}

// Contains reports whether k is in the set.
func (s *Set[K]) Contains(k K) bool {
	w, bit := k/32, k%32
	return int(w) < len(s.words) && s.words[w]&(1<<bit) != 0
}

// Insert adds k to the set and reports whether it was not already
// present.
func (s *Set[K]) Insert(k K) bool {
	w, bit := k/32, k%32
	if l := len(s.words); l <= int(w) {
		s.words = append(s.words, make([]uint32, int(w)+1-l)...)
	}
	if s.words[w]&(1<<bit) != 0 {
		return false
	}
	s.words[w] |= 1 << bit
	return true
}

// Remove removes k from the set if present.
func (s *Set[K]) Remove(k K) {
	w, bit := k/32, k%32
	if int(w) < len(s.words) {
		s.words[w] &^= 1 << bit
	}
}

// Clear removes all members while keeping the allocated storage.
func (s *Set[K]) Clear() {
	for i := range s.words {
		s.words[i] = 0
	}
}

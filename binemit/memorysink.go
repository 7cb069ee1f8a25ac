package binemit

// MemorySink is a CodeSink collecting the byte stream into memory.
// Relocations and traps are kept in the order they were recorded.
//
// The zero value is ready to use; Reset allows reuse across functions
// without reallocating.
type MemorySink struct {
	// Code is the emitted byte stream.
	Code []byte
	// Relocs are the recorded relocations in emission order.
	Relocs []RelocEntry
	// Traps are the recorded trap sites in emission order.
	Traps []TrapEntry
}

// RelocEntry is one relocation recorded by a MemorySink. Block
// relocations have no name; Target holds the in-function offset and
// Addend is zero.
type RelocEntry struct {
	Offset CodeOffset
	Reloc  Reloc
	Name   ExternalName
	Target CodeOffset
	Addend int64
	// External distinguishes external-name relocations from
	// in-function block relocations.
	External bool
}

// TrapEntry is one trap site recorded by a MemorySink.
type TrapEntry struct {
	Offset CodeOffset
	Code   TrapCode
	Loc    SourceLoc
}

func (s *MemorySink) Offset() CodeOffset { return CodeOffset(len(s.Code)) }

func (s *MemorySink) Put1(b byte) { s.Code = append(s.Code, b) }

func (s *MemorySink) Put2(w uint16) {
	s.Code = append(s.Code, byte(w), byte(w>>8))
}

func (s *MemorySink) Put4(w uint32) {
	s.Code = append(s.Code, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
}

func (s *MemorySink) Put8(w uint64) {
	s.Code = append(s.Code,
		byte(w), byte(w>>8), byte(w>>16), byte(w>>24),
		byte(w>>32), byte(w>>40), byte(w>>48), byte(w>>56))
}

func (s *MemorySink) RelocExternal(r Reloc, name ExternalName, addend int64) {
	s.Relocs = append(s.Relocs, RelocEntry{
		Offset: s.Offset(), Reloc: r, Name: name, Addend: addend, External: true,
	})
}

func (s *MemorySink) RelocBlock(r Reloc, target CodeOffset) {
	s.Relocs = append(s.Relocs, RelocEntry{Offset: s.Offset(), Reloc: r, Target: target})
}

func (s *MemorySink) Trap(code TrapCode, loc SourceLoc) {
	s.Traps = append(s.Traps, TrapEntry{Offset: s.Offset(), Code: code, Loc: loc})
}

// Reset clears the sink for reuse, keeping the allocated buffers.
func (s *MemorySink) Reset() {
	s.Code = s.Code[:0]
	s.Relocs = s.Relocs[:0]
	s.Traps = s.Traps[:0]
}

var _ CodeSink = (*MemorySink)(nil)

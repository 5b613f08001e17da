// Package memory implements the universal machine's segmented address
// space: a dense, appendable table of word segments indexed by
// identifier, with a LIFO free-identifier pool for O(1) reuse.
//
// Identifier 0 is reserved for the program segment and is never
// mapped or unmapped through this package's Map/Unmap; it exists from
// construction and is only ever replaced wholesale via CloneIntoZero.
package memory

import (
	"errors"
	"fmt"
)

// The following sentinel errors are returned, never panicked, so
// callers (the execution loop) can wrap them with instruction context
// and map them to the documented trap taxonomy.
var (
	// ErrOutOfBounds indicates a read or write past the end of a live
	// segment, or any access to a segment that is not live.
	ErrOutOfBounds = errors.New("memory: segment access out of bounds")

	// ErrUnmapZero indicates an attempt to unmap the program segment.
	ErrUnmapZero = errors.New("memory: cannot unmap segment 0")
)

// Memory is a segmented address space. The zero value is not usable;
// construct one with New.
type Memory struct {
	segments [][]uint32 // segments[id] == nil means id is free
	free     []uint32   // LIFO pool of identifiers available for reuse
}

// New creates a Memory whose segment 0 (the program segment) holds a
// copy of initial.
func New(initial []uint32) *Memory {
	return NewWithCapacityHint(initial, 0)
}

// NewWithCapacityHint is New, but pre-sizes the segment table's
// backing slice to capacityHint entries so programs that map many
// segments don't pay repeated reallocation cost as the table grows.
// capacityHint <= 1 is treated as no hint.
func NewWithCapacityHint(initial []uint32, capacityHint int) *Memory {
	seg0 := make([]uint32, len(initial))
	copy(seg0, initial)
	if capacityHint < 1 {
		capacityHint = 1
	}
	segments := make([][]uint32, 1, capacityHint)
	segments[0] = seg0
	return &Memory{segments: segments}
}

// Len returns the length, in words, of segment id. id must be live.
func (m *Memory) Len(id uint32) (uint32, error) {
	seg, err := m.live(id)
	if err != nil {
		return 0, err
	}
	return uint32(len(seg)), nil
}

// Read returns the word at offset off of segment id. id must be live
// and off must be within bounds.
func (m *Memory) Read(id, off uint32) (uint32, error) {
	seg, err := m.live(id)
	if err != nil {
		return 0, err
	}
	if off >= uint32(len(seg)) {
		return 0, fmt.Errorf("%w: segment %d offset %d, length %d", ErrOutOfBounds, id, off, len(seg))
	}
	return seg[off], nil
}

// Write overwrites the word at offset off of segment id. id must be
// live and off must be within bounds.
func (m *Memory) Write(id, off, word uint32) error {
	seg, err := m.live(id)
	if err != nil {
		return err
	}
	if off >= uint32(len(seg)) {
		return fmt.Errorf("%w: segment %d offset %d, length %d", ErrOutOfBounds, id, off, len(seg))
	}
	seg[off] = word
	return nil
}

// Map allocates a zero-initialized segment of n words and returns its
// identifier. Identifiers from the free pool are reused LIFO before a
// fresh identifier is minted; Map never returns 0.
func (m *Memory) Map(n uint32) uint32 {
	seg := make([]uint32, n)
	if k := len(m.free); k > 0 {
		id := m.free[k-1]
		m.free = m.free[:k-1]
		m.segments[id] = seg
		return id
	}
	id := uint32(len(m.segments))
	m.segments = append(m.segments, seg)
	return id
}

// Unmap frees segment id, making its identifier available for reuse
// by a later Map. id must be live and must not be 0.
func (m *Memory) Unmap(id uint32) error {
	if id == 0 {
		return ErrUnmapZero
	}
	if _, err := m.live(id); err != nil {
		return err
	}
	m.segments[id] = nil
	m.free = append(m.free, id)
	return nil
}

// CloneIntoZero replaces the contents of segment 0 with a fresh,
// independent copy of segment id's current contents. id must be live
// and must not be 0. Segment id is left untouched.
func (m *Memory) CloneIntoZero(id uint32) error {
	if id == 0 {
		return ErrUnmapZero
	}
	seg, err := m.live(id)
	if err != nil {
		return err
	}
	clone := make([]uint32, len(seg))
	copy(clone, seg)
	m.segments[0] = clone
	return nil
}

// live returns the backing slice for id, or ErrOutOfBounds if id
// names a segment that is not currently live.
func (m *Memory) live(id uint32) ([]uint32, error) {
	if id >= uint32(len(m.segments)) || m.segments[id] == nil {
		return nil, fmt.Errorf("%w: segment %d is not live", ErrOutOfBounds, id)
	}
	return m.segments[id], nil
}

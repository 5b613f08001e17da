// Package bitfield extracts unsigned bit ranges out of 32-bit words.
//
// This is the leaf used by every decode path in the machine: the
// opcode nibble, the three register indices, and the 25-bit load
// immediate are all contiguous bit ranges pulled out with Extract.
package bitfield

// Extract returns the unsigned value of the width-bit range of word
// starting at bit lsb (bit 0 is the least significant bit). The
// result occupies the low width bits; all higher bits are zero.
//
// Extract(word, 0, lsb) is 0 for any lsb, and Extract(word, width, 32-width)
// never attempts a shift equal to the word size even when width==32,
// since the two shifts used below are each strictly less than 32 for
// width in [1,32) and the width==0 case is special-cased.
func Extract(word uint32, width, lsb uint) uint32 {
	if width == 0 {
		return 0
	}
	if width >= 32 {
		return word >> lsb
	}
	mask := uint32(1)<<width - 1
	return (word >> lsb) & mask
}

// Package isa decodes the universal machine's 32-bit instruction words.
//
// The instruction format has two shapes. Opcodes 0-12 carry three
// register indices (A, B, C); opcode 13 (LoadValue) carries a single
// register index and a 25-bit zero-extended immediate. Opcodes 14 and
// 15 are undefined: they decode to opcodes for which IsDefined reports
// false, so the dispatcher can trap on them uniformly.
package isa

import (
	"fmt"

	"github.com/dcrawley/um32/pkg/bitfield"
)

// Opcode identifies one of the fourteen machine operations, or the
// reserved-undefined tail of the opcode space.
type Opcode uint32

// The fourteen defined opcodes, plus the two reserved values that
// decode to Undefined. Values match the bit pattern in the high
// nibble of the instruction word exactly.
const (
	CMov Opcode = iota
	Load
	Store
	Add
	Mul
	Div
	Nand
	Halt
	MapSegment
	UnmapSegment
	Output
	Input
	LoadProgram
	LoadValue
	opcode14
	opcode15
)

var mnemonics = [16]string{
	CMov:         "cmov",
	Load:         "load",
	Store:        "store",
	Add:          "add",
	Mul:          "mul",
	Div:          "div",
	Nand:         "nand",
	Halt:         "halt",
	MapSegment:   "map",
	UnmapSegment: "unmap",
	Output:       "output",
	Input:        "input",
	LoadProgram:  "loadprogram",
	LoadValue:    "ldv",
	opcode14:     "undefined",
	opcode15:     "undefined",
}

// IsDefined reports whether op names one of the fourteen real
// operations, as opposed to the two reserved undefined slots.
func (op Opcode) IsDefined() bool {
	return op <= LoadValue
}

// String implements fmt.Stringer, returning the mnemonic used by the
// assembler and disassembler.
func (op Opcode) String() string {
	if int(op) >= len(mnemonics) {
		return "undefined"
	}
	return mnemonics[op]
}

// Instruction is a decoded instruction: an opcode plus, depending on
// the opcode's shape, either three register indices or one register
// index and a 25-bit immediate. A, B and C hold register indices 0-7,
// not register values.
type Instruction struct {
	Op   Opcode
	A, B, C uint32 // all valid for register-form opcodes (0-12); LoadValue uses A only
	V    uint32 // 25-bit zero-extended immediate, valid for LoadValue only
}

// Decode extracts an Instruction from a raw 32-bit instruction word.
// Decoding never fails: undefined opcodes produce an Instruction
// whose Op reports IsDefined() == false, which the execution
// loop must treat as a trap rather than attempt to dispatch.
func Decode(word uint32) Instruction {
	op := Opcode(bitfield.Extract(word, 4, 28))
	if op == LoadValue {
		return Instruction{
			Op: op,
			A:  bitfield.Extract(word, 3, 25),
			V:  bitfield.Extract(word, 25, 0),
		}
	}
	return Instruction{
		Op: op,
		A:  bitfield.Extract(word, 3, 6),
		B:  bitfield.Extract(word, 3, 3),
		C:  bitfield.Extract(word, 3, 0),
	}
}

// Encode packs an Instruction back into a 32-bit word. It is the
// inverse of Decode and is used by the assembler.
func Encode(ins Instruction) uint32 {
	word := uint32(ins.Op) << 28
	if ins.Op == LoadValue {
		word |= (ins.A & 0b111) << 25
		word |= ins.V & 0x01FFFFFF
		return word
	}
	word |= (ins.A & 0b111) << 6
	word |= (ins.B & 0b111) << 3
	word |= ins.C & 0b111
	return word
}

// Disassemble renders a single decoded instruction as assembly text,
// one line, no trailing newline.
func Disassemble(word uint32) string {
	ins := Decode(word)
	if !ins.Op.IsDefined() {
		return fmt.Sprintf("undefined %#08x", word)
	}
	if ins.Op == LoadValue {
		return fmt.Sprintf("ldv r%d, %d", ins.A, ins.V)
	}
	switch ins.Op {
	case Halt:
		return "halt"
	case MapSegment:
		return fmt.Sprintf("map r%d, r%d", ins.B, ins.C)
	case UnmapSegment:
		return fmt.Sprintf("unmap r%d", ins.C)
	case Output:
		return fmt.Sprintf("output r%d", ins.C)
	case Input:
		return fmt.Sprintf("input r%d", ins.C)
	case LoadProgram:
		return fmt.Sprintf("loadprogram r%d, r%d", ins.B, ins.C)
	default:
		return fmt.Sprintf("%s r%d, r%d, r%d", ins.Op, ins.A, ins.B, ins.C)
	}
}

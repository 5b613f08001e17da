package asmtext

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dcrawley/um32/pkg/isa"
)

func TestAssembleBasic(t *testing.T) {
	src := `
; load 'A' and print it, then halt
start:
	ldv r1, 65
	output r1
	halt
`
	words, err := Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3", len(words))
	}
	if ins := isa.Decode(words[0]); ins.Op != isa.LoadValue || ins.A != 1 || ins.V != 65 {
		t.Fatalf("word 0 decoded as %+v", ins)
	}
	if ins := isa.Decode(words[1]); ins.Op != isa.Output || ins.C != 1 {
		t.Fatalf("word 1 decoded as %+v", ins)
	}
	if ins := isa.Decode(words[2]); ins.Op != isa.Halt {
		t.Fatalf("word 2 decoded as %+v", ins)
	}
}

func TestAssembleLabelForwardReference(t *testing.T) {
	src := `
	ldv r1, loop
loop:
	add r2, r2, r1
	halt
`
	words, err := Assemble(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	ins := isa.Decode(words[0])
	if ins.V != 1 {
		t.Fatalf("forward label resolved to %d, want 1", ins.V)
	}
}

func TestAssembleDataWord(t *testing.T) {
	words, err := Assemble(strings.NewReader(".word 0x2a\n.word 7\n"))
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if words[0] != 0x2a || words[1] != 7 {
		t.Fatalf("got %#x, %#x; want 0x2a, 0x7", words[0], words[1])
	}
}

func TestAssembleUnknownMnemonic(t *testing.T) {
	if _, err := Assemble(strings.NewReader("frobnicate r1, r2, r3\n")); err == nil {
		t.Fatalf("expected error for unknown mnemonic")
	}
}

func TestAssembleWrongOperandCount(t *testing.T) {
	if _, err := Assemble(strings.NewReader("halt r1\n")); err == nil {
		t.Fatalf("expected error for halt with operands")
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	program := []uint32{
		isa.Encode(isa.Instruction{Op: isa.LoadValue, A: 1, V: 65}),
		isa.Encode(isa.Instruction{Op: isa.Output, C: 1}),
		isa.Encode(isa.Instruction{Op: isa.Halt}),
	}
	var buf bytes.Buffer
	if err := Disassemble(program, &buf); err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"ldv r1, 65", "output r1", "halt"} {
		if !strings.Contains(out, want) {
			t.Fatalf("disassembly %q missing %q", out, want)
		}
	}
}

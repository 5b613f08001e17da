// Package vm implements the universal machine's execution loop: an
// eight-register file, a segmented address space (pkg/memory), and a
// per-instruction fetch/decode/dispatch cycle driven by a 16-entry
// opcode table indexed directly by the decoded opcode.
package vm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dcrawley/um32/internal/logger"
	"github.com/dcrawley/um32/pkg/isa"
	"github.com/dcrawley/um32/pkg/memory"
)

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 8

// The following sentinel errors are the trap taxonomy from the
// specification. SegmentOutOfBounds and UnmapZero are not redeclared
// here: they surface as memory.ErrOutOfBounds and memory.ErrUnmapZero
// wrapped with instruction context, so callers can still use
// errors.Is against the memory package's sentinels.
var (
	// ErrHalted is returned by Step/Run when the Halt opcode executed.
	// It is the only way a program terminates with exit status 0.
	ErrHalted = errors.New("vm: halted")

	// ErrDecode indicates opcode bits 14 or 15 (DecodeError).
	ErrDecode = errors.New("vm: undefined opcode")

	// ErrFetchOutOfBounds indicates pc pointed past the end of
	// segment 0 at fetch time (FetchOutOfBounds).
	ErrFetchOutOfBounds = errors.New("vm: fetch out of bounds")

	// ErrDivideByZero indicates Div executed with R[C] == 0.
	ErrDivideByZero = errors.New("vm: division by zero")

	// ErrWatchdog indicates Run aborted after executing
	// Options.MaxCycles instructions without reaching Halt.
	ErrWatchdog = errors.New("vm: watchdog cycle limit exceeded")
)

// Options configures ambient, non-semantic tunables for a VM: a
// segment-table capacity hint and an optional watchdog cycle limit.
// The zero Options runs exactly as a machine with no tunables set —
// no capacity hint, unbounded run.
type Options struct {
	SegmentCapacityHint int
	MaxCycles           uint64
}

// VM holds all state owned exclusively by the execution loop: the
// register file, the segmented memory, the program counter, and the
// I/O adapter. A VM is not safe for concurrent use; see the
// specification's concurrency model (single-threaded, synchronous).
type VM struct {
	Registers [NumRegisters]uint32
	PC        uint32
	Mem       *memory.Memory
	IO        IO
	Logger    *slog.Logger
	MaxCycles uint64 // 0 means unbounded; see Options.MaxCycles
}

// New constructs a VM whose segment 0 holds a copy of initial and
// whose program counter starts at 0. io must not be nil. A nil logger
// defaults to slog.Default(). opts configures the ambient tunables
// described by Options; its zero value is a fully usable machine.
func New(initial []uint32, io IO, logger *slog.Logger, opts Options) *VM {
	if logger == nil {
		logger = slog.Default()
	}
	return &VM{
		Mem:       memory.NewWithCapacityHint(initial, opts.SegmentCapacityHint),
		IO:        io,
		Logger:    logger,
		MaxCycles: opts.MaxCycles,
	}
}

// opcodeTable dispatches a decoded instruction to its handler. It is
// built once at package init so Step never allocates on the hot path.
// Indices 14 and 15 (the reserved, undefined opcodes) both point at
// execUndefined.
var opcodeTable [16]func(*VM, isa.Instruction) error

func init() {
	opcodeTable[isa.CMov] = execCMov
	opcodeTable[isa.Load] = execLoad
	opcodeTable[isa.Store] = execStore
	opcodeTable[isa.Add] = execAdd
	opcodeTable[isa.Mul] = execMul
	opcodeTable[isa.Div] = execDiv
	opcodeTable[isa.Nand] = execNand
	opcodeTable[isa.Halt] = execHalt
	opcodeTable[isa.MapSegment] = execMapSegment
	opcodeTable[isa.UnmapSegment] = execUnmapSegment
	opcodeTable[isa.Output] = execOutput
	opcodeTable[isa.Input] = execInput
	opcodeTable[isa.LoadProgram] = execLoadProgram
	opcodeTable[isa.LoadValue] = execLoadValue
	opcodeTable[14] = execUndefined
	opcodeTable[15] = execUndefined
}

// Fetch reads the word at the current pc from segment 0 and advances
// pc by one. The increment happens before the caller dispatches the
// instruction, so LoadProgram's write to pc is never clobbered.
func (vm *VM) Fetch() (uint32, error) {
	word, err := vm.Mem.Read(0, vm.PC)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFetchOutOfBounds, err)
	}
	vm.PC++
	return word, nil
}

// Step fetches, decodes, and executes exactly one instruction. It
// returns ErrHalted when the Halt opcode ran, a trap error on any
// other failure, or nil to continue.
func (vm *VM) Step() error {
	word, err := vm.Fetch()
	if err != nil {
		return err
	}
	ins := isa.Decode(word)
	if vm.Logger.Enabled(context.Background(), logger.TraceLevel) {
		vm.Logger.Log(context.Background(), logger.TraceLevel, "exec", "pc", vm.PC-1, "ins", isa.Disassemble(word))
	}
	return opcodeTable[ins.Op](vm, ins)
}

// Run steps the VM until Halt or a trap. It returns nil only when
// Halt executed; any other non-nil error is the trap that terminated
// the run. If MaxCycles is nonzero, Run aborts with ErrWatchdog after
// executing that many instructions without reaching Halt.
func (vm *VM) Run() error {
	var cycles uint64
	for {
		if vm.MaxCycles != 0 && cycles >= vm.MaxCycles {
			vm.Logger.Error("vm watchdog aborted run", "cycles", cycles)
			return ErrWatchdog
		}
		cycles++
		err := vm.Step()
		if err == nil {
			continue
		}
		if errors.Is(err, ErrHalted) {
			vm.Logger.Info("vm halted")
			return nil
		}
		vm.Logger.Error("vm trapped", "error", err)
		return err
	}
}

func execCMov(vm *VM, ins isa.Instruction) error {
	if vm.Registers[ins.C] != 0 {
		vm.Registers[ins.A] = vm.Registers[ins.B]
	}
	return nil
}

func execLoad(vm *VM, ins isa.Instruction) error {
	word, err := vm.Mem.Read(vm.Registers[ins.B], vm.Registers[ins.C])
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	vm.Registers[ins.A] = word
	return nil
}

func execStore(vm *VM, ins isa.Instruction) error {
	if err := vm.Mem.Write(vm.Registers[ins.A], vm.Registers[ins.B], vm.Registers[ins.C]); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

func execAdd(vm *VM, ins isa.Instruction) error {
	vm.Registers[ins.A] = vm.Registers[ins.B] + vm.Registers[ins.C]
	return nil
}

func execMul(vm *VM, ins isa.Instruction) error {
	vm.Registers[ins.A] = vm.Registers[ins.B] * vm.Registers[ins.C]
	return nil
}

func execDiv(vm *VM, ins isa.Instruction) error {
	if vm.Registers[ins.C] == 0 {
		return ErrDivideByZero
	}
	vm.Registers[ins.A] = vm.Registers[ins.B] / vm.Registers[ins.C]
	return nil
}

func execNand(vm *VM, ins isa.Instruction) error {
	vm.Registers[ins.A] = ^(vm.Registers[ins.B] & vm.Registers[ins.C])
	return nil
}

func execHalt(vm *VM, ins isa.Instruction) error {
	return ErrHalted
}

func execMapSegment(vm *VM, ins isa.Instruction) error {
	id := vm.Mem.Map(vm.Registers[ins.C])
	vm.Registers[ins.B] = id
	vm.Logger.Debug("segment mapped", "id", id, "words", vm.Registers[ins.C])
	return nil
}

func execUnmapSegment(vm *VM, ins isa.Instruction) error {
	id := vm.Registers[ins.C]
	if err := vm.Mem.Unmap(id); err != nil {
		return fmt.Errorf("unmap: %w", err)
	}
	vm.Logger.Debug("segment unmapped", "id", id)
	return nil
}

func execOutput(vm *VM, ins isa.Instruction) error {
	value := vm.Registers[ins.C]
	if value > 255 {
		// Silent skip: matches the observed source behavior the
		// specification adopts over trapping. See DESIGN.md.
		return nil
	}
	if err := vm.IO.WriteByte(byte(value)); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}

func execInput(vm *VM, ins isa.Instruction) error {
	b, ok := vm.IO.ReadByte()
	if !ok {
		vm.Registers[ins.C] = 0xFFFFFFFF
		return nil
	}
	vm.Registers[ins.C] = uint32(b)
	return nil
}

func execLoadProgram(vm *VM, ins isa.Instruction) error {
	if vm.Registers[ins.B] != 0 {
		if err := vm.Mem.CloneIntoZero(vm.Registers[ins.B]); err != nil {
			return fmt.Errorf("loadprogram: %w", err)
		}
		vm.Logger.Debug("program loaded", "segment", vm.Registers[ins.B])
	}
	vm.PC = vm.Registers[ins.C]
	return nil
}

func execLoadValue(vm *VM, ins isa.Instruction) error {
	vm.Registers[ins.A] = ins.V
	return nil
}

func execUndefined(vm *VM, ins isa.Instruction) error {
	return fmt.Errorf("%w: opcode %d", ErrDecode, uint32(ins.Op))
}

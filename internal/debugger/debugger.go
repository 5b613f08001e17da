// Package debugger implements an interactive, single-stepping REPL
// over a *vm.VM, in the shape of the teacher pack's debug run loop:
// step one instruction at a time, set breakpoints on a program
// counter value, or run free until one is hit. Line editing and
// history are provided by github.com/peterh/liner.
package debugger

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/dcrawley/um32/pkg/isa"
	"github.com/dcrawley/um32/pkg/vm"
)

// Run drives machine interactively until it halts, traps, or the user
// quits. State and disassembly are written to out.
func Run(machine *vm.VM, out io.Writer) error {
	fmt.Fprintln(out, "commands: n(ext), r(un), b(reak) <pc>, q(uit)")
	printState(machine, out)

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	breakpoints := make(map[uint32]bool)
	free := false

	for {
		if free {
			if breakpoints[machine.PC] {
				fmt.Fprintln(out, "breakpoint")
				printState(machine, out)
				free = false
			}
		}

		if !free {
			cmd, err := line.Prompt("(um) ")
			if err != nil {
				if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
					return nil
				}
				return fmt.Errorf("debugger: %w", err)
			}
			line.AppendHistory(cmd)
			cmd = strings.TrimSpace(cmd)

			switch {
			case cmd == "n" || cmd == "next" || cmd == "":
				if err := step(machine, out); err != nil {
					return reportTerminal(out, err)
				}
				printState(machine, out)
				continue
			case cmd == "r" || cmd == "run":
				free = true
				continue
			case cmd == "q" || cmd == "quit":
				return nil
			case strings.HasPrefix(cmd, "b ") || strings.HasPrefix(cmd, "break "):
				pc, err := strconv.ParseUint(strings.TrimSpace(cmd[strings.IndexByte(cmd, ' '):]), 0, 32)
				if err != nil {
					fmt.Fprintln(out, "bad breakpoint address:", err)
					continue
				}
				breakpoints[uint32(pc)] = !breakpoints[uint32(pc)]
				continue
			default:
				fmt.Fprintln(out, "unknown command:", cmd)
				continue
			}
		}

		if err := step(machine, out); err != nil {
			return reportTerminal(out, err)
		}
	}
}

func step(machine *vm.VM, out io.Writer) error {
	word, err := machine.Mem.Read(0, machine.PC)
	if err == nil {
		fmt.Fprintf(out, "%04x: %s\n", machine.PC, isa.Disassemble(word))
	}
	return machine.Step()
}

func reportTerminal(out io.Writer, err error) error {
	if errors.Is(err, vm.ErrHalted) {
		fmt.Fprintln(out, "halted")
		return nil
	}
	fmt.Fprintln(out, "trap:", err)
	return err
}

func printState(machine *vm.VM, out io.Writer) {
	fmt.Fprintf(out, "pc=%04x regs=%v\n", machine.PC, machine.Registers)
}

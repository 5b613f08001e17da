// Command um runs, assembles, and disassembles universal machine
// programs.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dcrawley/um32/internal/config"
	"github.com/dcrawley/um32/internal/debugger"
	"github.com/dcrawley/um32/internal/loader"
	"github.com/dcrawley/um32/internal/logger"
	"github.com/dcrawley/um32/pkg/isa"
	"github.com/dcrawley/um32/pkg/memory"
	"github.com/dcrawley/um32/pkg/vm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "um",
		Short: "um runs, assembles, and disassembles universal machine programs",
	}
	root.AddCommand(newRunCmd(), newDisasmCmd(), newAsmCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var trace bool
	var step bool
	var level string
	var logFile string

	cmd := &cobra.Command{
		Use:   "run <image>",
		Short: "load a program image and execute it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			if trace {
				level = "trace"
			}

			var mirror io.Writer
			if logFile != "" {
				f, err := os.Create(logFile)
				if err != nil {
					return fmt.Errorf("run: %w", err)
				}
				defer f.Close()
				mirror = f
			}
			log := logger.NewLogger(os.Stderr, level, mirror)

			cfg := config.Load()
			stdio := vm.NewStdIO(bufio.NewReader(os.Stdin), bufio.NewWriter(os.Stdout))
			machine := vm.New(words, stdio, log, vm.Options{
				SegmentCapacityHint: cfg.SegmentCapacityHint,
				MaxCycles:           cfg.MaxCycles,
			})

			if step {
				return debugger.Run(machine, os.Stdout)
			}
			return machine.Run()
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "log every instruction executed")
	cmd.Flags().BoolVar(&step, "step", false, "run under the interactive step debugger")
	cmd.Flags().StringVar(&level, "level", "info", "log level: trace, debug, info, warn, error")
	cmd.Flags().StringVar(&logFile, "log", "", "mirror log output to this file, in addition to stderr")
	return cmd
}

func newDisasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <image>",
		Short: "disassemble a program image to assembly text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			for pc, word := range words {
				fmt.Printf("%04x: %s\n", pc, isa.Disassemble(word))
			}
			return nil
		},
	}
}

func newAsmCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "asm <source> -o <image>",
		Short: "assemble source text into a program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsm(args[0], out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "a.out", "output image path")
	return cmd
}

// exitCode maps a terminal error to a process exit status. Halt exits
// 0 through Execute's nil return and never reaches here. Each trap
// sentinel gets its own distinct non-zero status so scripts can tell
// traps apart without parsing stderr; anything else (usage errors,
// i/o failures) falls back to a generic 1.
func exitCode(err error) int {
	switch {
	case errors.Is(err, vm.ErrDecode):
		return 2
	case errors.Is(err, memory.ErrOutOfBounds):
		return 3
	case errors.Is(err, memory.ErrUnmapZero):
		return 4
	case errors.Is(err, vm.ErrDivideByZero):
		return 5
	case errors.Is(err, vm.ErrFetchOutOfBounds):
		return 6
	case errors.Is(err, vm.ErrWatchdog):
		return 7
	default:
		return 1
	}
}

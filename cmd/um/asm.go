package main

import (
	"fmt"
	"os"

	"github.com/dcrawley/um32/internal/asmtext"
	"github.com/dcrawley/um32/internal/loader"
)

func runAsm(srcPath, outPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("asm: %w", err)
	}
	defer src.Close()

	words, err := asmtext.Assemble(src)
	if err != nil {
		return fmt.Errorf("asm: %w", err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("asm: %w", err)
	}
	defer out.Close()

	return loader.Write(out, words)
}

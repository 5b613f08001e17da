// Package loader reads a universal machine program image from a file
// of big-endian 32-bit words into the initial word sequence for
// segment 0, the way the teacher's LoadBytecode reads a hex-per-line
// text image, adapted to the binary format this machine's programs
// are shipped in.
package loader

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Load reads every 4-byte big-endian word from r and returns them in
// order. A trailing partial word (1-3 leftover bytes) is an error.
func Load(r io.Reader) ([]uint32, error) {
	var words []uint32
	buf := make([]byte, 4)
	for {
		n, err := io.ReadFull(r, buf)
		switch {
		case err == io.EOF:
			return words, nil
		case err == io.ErrUnexpectedEOF:
			return nil, fmt.Errorf("loader: truncated word, got %d of 4 bytes", n)
		case err != nil:
			return nil, fmt.Errorf("loader: %w", err)
		}
		words = append(words, binary.BigEndian.Uint32(buf))
	}
}

// LoadFile opens path and loads its contents via Load.
func LoadFile(path string) ([]uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Write encodes words back to big-endian binary, the inverse of Load,
// used by um asm to produce a program image from assembled source.
func Write(w io.Writer, words []uint32) error {
	buf := make([]byte, 4)
	for _, word := range words {
		binary.BigEndian.PutUint32(buf, word)
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("loader: %w", err)
		}
	}
	return nil
}

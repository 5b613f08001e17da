package vm

import "bufio"

// IO is the byte-oriented standard input/output adapter the execution
// loop drives from the Input and Output operations.
type IO interface {
	// ReadByte reads one byte from standard input. ok is false on
	// end-of-stream; the caller must then load the all-ones word,
	// never treat end-of-stream as a trap.
	ReadByte() (b byte, ok bool)

	// WriteByte writes one byte to standard output. Output must be
	// observable in program order, so implementations must flush
	// before returning.
	WriteByte(b byte) error
}

// StdIO is the default IO adapter, wrapping buffered stdin/stdout the
// way the teacher's console plumbing wraps os.Stdin/os.Stdout.
type StdIO struct {
	in  *bufio.Reader
	out *bufio.Writer
}

// NewStdIO builds a StdIO over the given reader and writer.
func NewStdIO(in *bufio.Reader, out *bufio.Writer) *StdIO {
	return &StdIO{in: in, out: out}
}

// ReadByte implements IO.
func (s *StdIO) ReadByte() (byte, bool) {
	b, err := s.in.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}

// WriteByte implements IO.
func (s *StdIO) WriteByte(b byte) error {
	if err := s.out.WriteByte(b); err != nil {
		return err
	}
	return s.out.Flush()
}

var _ IO = &StdIO{}

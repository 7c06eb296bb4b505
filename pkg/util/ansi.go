package util

import (
	"io"
	"sync"

	"github.com/pborman/ansi"
)

// StripANSIWriter removes terminal escape sequences before passing output on,
// so colored console text stays readable in log files.
type StripANSIWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewStripANSIWriter(w io.Writer) *StripANSIWriter {
	return &StripANSIWriter{w: w}
}

// Write reports len(in) on success even though fewer bytes reach the underlying writer.
func (w *StripANSIWriter) Write(in []byte) (int, error) {
	out, err := ansi.Strip(in)
	if err != nil {
		// malformed sequences are written as is
		out = in
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.w.Write(out); err != nil {
		return 0, err
	}
	return len(in), nil
}

// StripANSI returns s without terminal escape sequences.
func StripANSI(s string) string {
	out, err := ansi.Strip([]byte(s))
	if err != nil {
		return s
	}
	return string(out)
}

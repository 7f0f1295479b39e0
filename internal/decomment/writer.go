package decomment

import (
	"fmt"
	"io"
)

// Stats describes one filtered stream.
type Stats struct {
	BytesIn  int64 `json:"bytes_in"`
	BytesOut int64 `json:"bytes_out"`
	// Lines is the number of '\n' bytes consumed.
	Lines int `json:"lines"`
	// Comments is the number of block comments opened, including an
	// unterminated one.
	Comments int `json:"comments"`
}

func (s Stats) String() string {
	return fmt.Sprintf("%d bytes in, %d bytes out, %d lines, %d comments removed", s.BytesIn, s.BytesOut, s.Lines, s.Comments)
}

// Writer is an io.WriteCloser that filters everything written to it into dst.
// Output for each Write reaches dst before Write returns. Close must be called
// once input is exhausted; it flushes a pending '/' and reports an
// unterminated comment.
type Writer struct {
	dst    io.Writer
	m      Machine
	buf    []byte
	stats  Stats
	err    error
	closed bool
}

// NewWriter returns a Writer that filters into dst.
func NewWriter(dst io.Writer) *Writer {
	return &Writer{dst: dst, m: Start()}
}

// Write filters p into dst. It consumes all of p unless dst fails.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}
	if w.err != nil {
		return 0, w.err
	}
	out := w.buf[:0]
	for _, c := range p {
		prev := w.m.State
		w.m, out = Step(w.m, c, out)
		if prev == SlashSeen && w.m.State == InComment {
			w.stats.Comments++
		}
		if c == '\n' {
			w.stats.Lines++
		}
	}
	w.buf = out
	w.stats.BytesIn += int64(len(p))
	if err := w.emit(out); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close finalizes the stream. It does not close dst.
func (w *Writer) Close() error {
	if w.closed {
		return ErrClosed
	}
	w.closed = true
	if w.err != nil {
		return w.err
	}
	out, ferr := Finish(w.m, w.buf[:0])
	if err := w.emit(out); err != nil {
		return err
	}
	return ferr
}

func (w *Writer) emit(out []byte) error {
	if len(out) == 0 {
		return nil
	}
	n, err := w.dst.Write(out)
	w.stats.BytesOut += int64(n)
	if err == nil && n < len(out) {
		err = io.ErrShortWrite
	}
	if err != nil {
		w.err = fmt.Errorf("decomment: write: %w", err)
		return w.err
	}
	return nil
}

// Machine returns the current machine state.
func (w *Writer) Machine() Machine { return w.m }

// Stats returns the counters collected so far.
func (w *Writer) Stats() Stats { return w.stats }

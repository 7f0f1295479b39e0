package decomment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Run filters src into dst until src is exhausted. Output produced before a
// failure is flushed to dst before Run returns. Read and write errors abort the
// run immediately.
func Run(dst io.Writer, src io.Reader) (Stats, error) {
	bw := bufio.NewWriter(dst)
	w := NewWriter(bw)
	br := bufio.NewReader(src)

	var chunk [4096]byte
	for {
		n, rerr := br.Read(chunk[:])
		if n > 0 {
			if _, err := w.Write(chunk[:n]); err != nil {
				return w.Stats(), err
			}
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			_ = bw.Flush()
			return w.Stats(), fmt.Errorf("decomment: read: %w", rerr)
		}
	}

	ferr := w.Close()
	var werr *UnterminatedCommentError
	if ferr != nil && !errors.As(ferr, &werr) {
		return w.Stats(), ferr
	}
	if err := bw.Flush(); err != nil {
		return w.Stats(), fmt.Errorf("decomment: write: %w", err)
	}
	return w.Stats(), ferr
}

// Bytes filters src in memory. On an unterminated comment the output emitted
// before end of input is returned along with the error.
func Bytes(src []byte) ([]byte, error) {
	m := Start()
	out := make([]byte, 0, len(src))
	for _, c := range src {
		m, out = Step(m, c, out)
	}
	return Finish(m, out)
}

func String(src string) (string, error) {
	out, err := Bytes([]byte(src))
	return string(out), err
}

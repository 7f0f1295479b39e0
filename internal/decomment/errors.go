package decomment

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Writer.Write after Close.
var ErrClosed = errors.New("decomment: write after close")

// UnterminatedCommentError is returned when input ends inside a block comment.
// Line is the line the opening "/*" started on.
type UnterminatedCommentError struct {
	Line int
}

func (e *UnterminatedCommentError) Error() string {
	return fmt.Sprintf("line %d: unterminated comment", e.Line)
}

// Diagnostic renders err as the single stderr line the CLI prints, without the
// trailing newline.
func Diagnostic(err error) string {
	var uce *UnterminatedCommentError
	if errors.As(err, &uce) {
		return "Error: " + uce.Error()
	}
	return fmt.Sprintf("Error: %v", err)
}

// IsUnterminated reports whether err is or wraps an *UnterminatedCommentError
// and returns its origin line.
func IsUnterminated(err error) (int, bool) {
	var uce *UnterminatedCommentError
	if errors.As(err, &uce) {
		return uce.Line, true
	}
	return 0, false
}

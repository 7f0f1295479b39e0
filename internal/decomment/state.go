// Package decomment removes C-style block comments from a byte stream while
// leaving string and character literals untouched.
//
// The recognizer is a byte-at-a-time DFA. A lone '/' or a '*' inside a
// comment is ambiguous until the next byte arrives, so both get an explicit
// state instead of peeking ahead. Newlines inside comments are kept so line
// numbers in the output still match the input.
package decomment

import "fmt"

// State is the recognizer's position relative to comments and literals.
type State uint8

const (
	Code State = iota
	SlashSeen
	InComment
	StarSeen
	InString
	InChar
	StringEscape
	CharEscape
)

var stateNames = [...]string{
	Code:         "code",
	SlashSeen:    "slash_seen",
	InComment:    "in_comment",
	StarSeen:     "star_seen",
	InString:     "in_string",
	InChar:       "in_char",
	StringEscape: "string_escape",
	CharEscape:   "char_escape",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// InsideComment reports whether s is one of the two states that make end of
// input a failure.
func (s State) InsideComment() bool {
	return s == InComment || s == StarSeen
}

// Machine is everything Step needs between bytes.
type Machine struct {
	State State
	// Line is the 1-based line of the next byte to be read.
	Line int
	// Origin is the line of the '/' that opened the current comment. Only
	// meaningful while State.InsideComment().
	Origin int
}

// Start returns the machine for the beginning of a stream: code, line 1.
func Start() Machine {
	return Machine{State: Code, Line: 1}
}

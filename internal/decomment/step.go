package decomment

// Step feeds one byte to the machine. Output bytes are appended to out and the
// extended slice is returned along with the next machine; m itself is not
// modified.
func Step(m Machine, c byte, out []byte) (Machine, []byte) {
	switch m.State {
	case Code:
		m.State, out = code(c, out)
	case SlashSeen:
		switch c {
		case '*':
			out = append(out, ' ')
			m.State = InComment
			m.Origin = m.Line
		case '/':
			out = append(out, '/')
		default:
			// Not a comment after all: flush the held slash and treat c as code.
			out = append(out, '/')
			m.State, out = code(c, out)
		}
	case InComment:
		m.State, out = comment(c, out)
	case StarSeen:
		switch c {
		case '/':
			m.State = Code
		default:
			m.State, out = comment(c, out)
		}
	case InString:
		out = append(out, c)
		switch c {
		case '"':
			m.State = Code
		case '\\':
			m.State = StringEscape
		}
	case InChar:
		out = append(out, c)
		switch c {
		case '\'':
			m.State = Code
		case '\\':
			m.State = CharEscape
		}
	case StringEscape:
		out = append(out, c)
		m.State = InString
	case CharEscape:
		out = append(out, c)
		m.State = InChar
	}

	if c == '\n' {
		m.Line++
	}
	return m, out
}

func code(c byte, out []byte) (State, []byte) {
	switch c {
	case '/':
		return SlashSeen, out
	case '"':
		return InString, append(out, c)
	case '\'':
		return InChar, append(out, c)
	default:
		return Code, append(out, c)
	}
}

func comment(c byte, out []byte) (State, []byte) {
	switch c {
	case '*':
		return StarSeen, out
	case '\n':
		return InComment, append(out, '\n')
	default:
		return InComment, out
	}
}

// Finish handles end of input. A pending '/' is flushed to out; an open
// comment yields *UnterminatedCommentError.
func Finish(m Machine, out []byte) ([]byte, error) {
	switch {
	case m.State == SlashSeen:
		return append(out, '/'), nil
	case m.State.InsideComment():
		return out, &UnterminatedCommentError{Line: m.Origin}
	default:
		return out, nil
	}
}

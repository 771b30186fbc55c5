package pipeline

import (
	"bytes"
	"strings"
)

// phase tracks where a scan sits inside its innermost open container, so a
// truncated fragment can be closed with a suffix that parses.
type phase uint8

const (
	phaseObjKey        phase = iota // expecting a key or '}'
	phaseObjAfterKey                // key read, expecting ':'
	phaseObjValue                   // ':' read, expecting a value
	phaseObjAfterValue              // value read, expecting ',' or '}'
	phaseArrValue                   // expecting an element or ']'
	phaseArrAfterValue
)

type container struct {
	closer byte
	phase  phase
}

// scanState captures where a balanced scan stopped: the still-open
// containers innermost-last, and the string-literal state at end-of-input.
type scanState struct {
	stack       []container
	inString    bool
	escaped     bool
	stringIsKey bool
}

func (st *scanState) innermost() *container {
	if len(st.stack) == 0 {
		return nil
	}
	return &st.stack[len(st.stack)-1]
}

func (st *scanState) markValueDone() {
	switch c := st.innermost(); {
	case c == nil:
	case c.phase == phaseObjValue:
		c.phase = phaseObjAfterValue
	case c.phase == phaseArrValue:
		c.phase = phaseArrAfterValue
	}
}

// extractBalanced locates the first top-level JSON object or array in s and
// walks it character by character, tracking container nesting and string
// literal state (a backslash arms a one-shot escape so `\"` does not close
// the string). It returns the complete value the moment the nesting stack
// empties. If the text ends first, truncated is true and the returned
// fragment runs from the opening delimiter to end-of-input, with the open
// state captured for closeTruncated.
//
// If no opening delimiter exists at all, the input is returned unchanged so
// the strict parse fails at a well-defined place.
func extractBalanced(s string) (fragment string, st scanState, truncated bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s, scanState{}, false
	}

	for i := start; i < len(s); i++ {
		c := s[i]

		if st.escaped {
			st.escaped = false
			continue
		}
		if st.inString {
			switch c {
			case '\\':
				st.escaped = true
			case '"':
				st.inString = false
				if st.stringIsKey {
					st.innermost().phase = phaseObjAfterKey
				} else {
					st.markValueDone()
				}
			}
			continue
		}

		switch c {
		case '"':
			st.inString = true
			in := st.innermost()
			st.stringIsKey = in != nil && in.phase == phaseObjKey
		case '{':
			st.stack = append(st.stack, container{closer: '}', phase: phaseObjKey})
		case '[':
			st.stack = append(st.stack, container{closer: ']', phase: phaseArrValue})
		case '}', ']':
			if in := st.innermost(); in != nil && in.closer == c {
				st.stack = st.stack[:len(st.stack)-1]
			}
			if len(st.stack) == 0 {
				return s[start : i+1], scanState{}, false
			}
			st.markValueDone()
		case ':':
			if in := st.innermost(); in != nil && in.phase == phaseObjAfterKey {
				in.phase = phaseObjValue
			}
		case ',':
			// A comma re-arms the container: the next string in an object
			// is a key again, the next token in an array an element.
			switch in := st.innermost(); {
			case in == nil:
			case in.phase == phaseObjAfterValue:
				in.phase = phaseObjKey
			case in.phase == phaseArrAfterValue:
				in.phase = phaseArrValue
			}
		case ' ', '\t', '\r', '\n':
		default:
			// First character of a primitive token. The token may still be
			// cut off; closeTruncated repairs the tail.
			st.markValueDone()
		}
	}

	return s[start:], st, true
}

// closeTruncated synthesizes the minimal suffix that turns a truncated
// fragment into parseable JSON: finish an open escape sequence, close the
// open string literal, finish or drop a cut-off primitive token, supply a
// null for a dangling key or colon, then emit the pending closers
// innermost-first. Content the model never emitted is not recovered; the
// normalizer defaults the missing tail fields downstream.
func closeTruncated(fragment string, st scanState) string {
	b := []byte(fragment)

	keyPending := false
	if st.inString {
		if st.escaped {
			b = append(b, '\\')
		} else if n, partial := partialUnicodeEscape(b); partial {
			for ; n < 4; n++ {
				b = append(b, '0')
			}
		}
		b = append(b, '"')
		keyPending = st.stringIsKey
	} else if in := st.innermost(); in != nil && in.phase == phaseObjAfterKey {
		keyPending = true
	}

	// A trailing separator or a cut-off number tail cannot start anything
	// valid; drop it.
	for !st.inString {
		b = bytes.TrimRight(b, " \t\r\n")
		if len(b) == 0 {
			break
		}
		switch b[len(b)-1] {
		case ',', '.', 'e', 'E', '+', '-':
			b = b[:len(b)-1]
			continue
		}
		break
	}
	b = completeKeyword(b)

	if keyPending {
		b = append(b, ':', 'n', 'u', 'l', 'l')
	} else if len(b) > 0 && b[len(b)-1] == ':' {
		b = append(b, 'n', 'u', 'l', 'l')
	}

	for i := len(st.stack) - 1; i >= 0; i-- {
		b = append(b, st.stack[i].closer)
	}
	return string(b)
}

// completeKeyword finishes a keyword the truncation cut mid-token, e.g.
// `tru` -> `true`.
func completeKeyword(b []byte) []byte {
	i := len(b)
	for i > 0 && b[i-1] >= 'a' && b[i-1] <= 'z' {
		i--
	}
	tok := string(b[i:])
	if tok == "" {
		return b
	}
	for _, kw := range []string{"true", "false", "null"} {
		if len(tok) < len(kw) && strings.HasPrefix(kw, tok) {
			return append(b, kw[len(tok):]...)
		}
	}
	return b
}

// partialUnicodeEscape reports whether the fragment ends inside a \uXXXX
// escape, returning how many hex digits are already present.
func partialUnicodeEscape(b []byte) (int, bool) {
	i := len(b)
	n := 0
	for i > 0 && n < 4 && isHexDigit(b[i-1]) {
		i--
		n++
	}
	if n == 4 || i == 0 || b[i-1] != 'u' {
		return 0, false
	}
	// The backslash before 'u' must itself be an active escape, not an
	// escaped backslash.
	slashes := 0
	for j := i - 2; j >= 0 && b[j] == '\\'; j-- {
		slashes++
	}
	if slashes%2 == 0 {
		return 0, false
	}
	return n, true
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// stripCodeFences removes a wrapping markdown code fence, with or without a
// language tag, from around the model reply.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

package lineedit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// visEncode renders s using the same visual encoding libedit uses for
// history-file entries, so history files stay interoperable with tools that
// read them: whitespace and backslashes become `\NNN` octal escapes, other
// control bytes become `\^X` caret notation.
func visEncode(s string) string {
	var buf strings.Builder
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		switch {
		case unicode.IsSpace(r) || r == '\\':
			fmt.Fprintf(&buf, "\\%03o", int(r))
		case unicode.IsControl(r):
			buf.WriteByte('\\')
			buf.WriteByte('^')
			buf.WriteRune(r + 0x40)
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}

// visDecode reverses visEncode. It does not handle the "%<hex>", "&<amp>",
// or "=<mime>" vis(3) escapes since history files never produce them.
func visDecode(s string) (string, error) {
	var buf strings.Builder

	for len(s) > 0 {
		meta := byte(0)
		t, ch := s, s[0]
		s = s[1:]

		switch ch {
		case '\\':
			if len(s) == 0 {
				return "", fmt.Errorf("lineedit: invalid vis escape")
			}
			ch, s = s[0], s[1:]
			switch ch {
			case '0', '1', '2', '3', '4', '5', '6', '7', 'x', '\\', 'a', 'b', 'f', 'n', 'r', 't', 'v':
				r, _, rem, err := strconv.UnquoteChar(t, 0)
				if err != nil {
					return "", err
				}
				buf.WriteRune(r)
				s = rem
			case 'M':
				if len(s) == 0 {
					return "", fmt.Errorf("lineedit: invalid vis meta escape")
				}
				meta = 0200
				ch, s = s[0], s[1:]
				switch ch {
				case '-':
					if len(s) == 0 {
						return "", fmt.Errorf("lineedit: invalid vis meta escape")
					}
					ch, s = s[0], s[1:]
					buf.WriteByte(ch | meta)
					continue
				case '^':
				default:
					return "", fmt.Errorf("lineedit: invalid vis meta escape")
				}
				fallthrough
			case '^':
				if len(s) == 0 {
					return "", fmt.Errorf("lineedit: invalid vis control escape")
				}
				ch, s = s[0], s[1:]
				if ch == '?' {
					buf.WriteByte(0177 | meta)
				} else {
					buf.WriteByte((ch & 037) | meta)
				}
			case 's':
				buf.WriteByte(' ')
			case 'E':
				buf.WriteByte('\x1b')
			case '\n', '$':
			default:
				return "", fmt.Errorf("lineedit: invalid vis escape %q", ch)
			}

		default:
			r, size := utf8.DecodeRuneInString(t)
			buf.WriteRune(r)
			s = t[size:]
		}
	}

	return buf.String(), nil
}

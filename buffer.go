package lineedit

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Buffer is the in-place edit buffer: UTF-8 bytes plus a byte-offset cursor.
// Every exported position is guaranteed to fall on a rune boundary; no
// method ever leaves the cursor or a returned offset mid-codepoint (spec.md
// §4.3's buffer invariant). The representation keeps the teacher's
// screen.go algorithm shapes (NextGraphemeEnd/PrevGraphemeStart/word
// navigation) but walks bytes through utf8.DecodeRune instead of indexing a
// []rune, since the spec mandates byte offsets rather than rune indices.
type Buffer struct {
	text   []byte
	cursor int
}

// bracePairs is consulted by MatchBrace for brace-jump and highlight.
var bracePairs = map[rune]rune{
	'(': ')',
	'[': ']',
	'{': '}',
}

var braceClosers = func() map[rune]rune {
	m := map[rune]rune{}
	for o, c := range bracePairs {
		m[c] = o
	}
	return m
}()

// insertionPairs is consulted by AutoCloser; it defaults to bracePairs but
// can be narrowed or widened independently (spec.md §6 "set_insertion_braces"
// vs "set_matching_braces" are two distinct option calls).
var insertionPairs = bracePairs

// SetMatchingBraces replaces the set MatchBrace and brace-highlighting jump
// to, pairs given as an even-length string of open/close runes alternating
// (spec.md §6 "set_matching_braces(pairs)"). A nil/empty pairs resets to the
// built-in `()[]{}` default.
func SetMatchingBraces(pairs []rune) {
	if len(pairs) == 0 {
		bracePairs = map[rune]rune{'(': ')', '[': ']', '{': '}'}
	} else {
		m := make(map[rune]rune, len(pairs)/2)
		for i := 0; i+1 < len(pairs); i += 2 {
			m[pairs[i]] = pairs[i+1]
		}
		bracePairs = m
	}
	m := make(map[rune]rune, len(bracePairs))
	for o, c := range bracePairs {
		m[c] = o
	}
	braceClosers = m
}

// SetInsertionBraces replaces the set AutoCloser auto-closes on insertion
// (spec.md §6 "set_insertion_braces(pairs)"). A nil/empty pairs resets to the
// built-in `()[]{}` default.
func SetInsertionBraces(pairs []rune) {
	if len(pairs) == 0 {
		insertionPairs = map[rune]rune{'(': ')', '[': ']', '{': '}'}
		return
	}
	m := make(map[rune]rune, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		m[pairs[i]] = pairs[i+1]
	}
	insertionPairs = m
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Text returns the buffer contents. The caller must not modify the returned
// slice.
func (b *Buffer) Text() []byte { return b.text }

// String returns the buffer contents as a string.
func (b *Buffer) String() string { return string(b.text) }

// Len returns the byte length of the buffer.
func (b *Buffer) Len() int { return len(b.text) }

// Cursor returns the current byte offset.
func (b *Buffer) Cursor() int { return b.cursor }

// SetText replaces the buffer contents and clamps the cursor to the end.
func (b *Buffer) SetText(s string) {
	b.text = []byte(s)
	b.cursor = len(b.text)
}

// MoveTo sets the cursor to pos, clamped to [0, Len()] and snapped backward
// to the nearest rune boundary.
func (b *Buffer) MoveTo(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(b.text) {
		pos = len(b.text)
	}
	for pos > 0 && !utf8.RuneStart(b.text[pos]) {
		pos--
	}
	b.cursor = pos
}

// Insert inserts s at the cursor, advancing the cursor past it.
func (b *Buffer) Insert(s string) {
	if s == "" {
		return
	}
	grown := make([]byte, 0, len(b.text)+len(s))
	grown = append(grown, b.text[:b.cursor]...)
	grown = append(grown, s...)
	grown = append(grown, b.text[b.cursor:]...)
	b.text = grown
	b.cursor += len(s)
}

// InsertRune inserts a single rune at the cursor, refusing non-printable and
// lone-surrogate code points the way the teacher's isPrintable does.
func (b *Buffer) InsertRune(r rune) bool {
	if !isPrintableRune(r) {
		return false
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	b.Insert(string(buf[:n]))
	return true
}

// DeleteRange removes text in [start,end) (clamped and boundary-snapped),
// returning the removed text and leaving the cursor at start.
func (b *Buffer) DeleteRange(start, end int) string {
	if start > end {
		start, end = end, start
	}
	if start < 0 {
		start = 0
	}
	if end > len(b.text) {
		end = len(b.text)
	}
	for start > 0 && !utf8.RuneStart(b.text[start]) {
		start--
	}
	for end < len(b.text) && !utf8.RuneStart(b.text[end]) {
		end++
	}
	if start >= end {
		b.MoveTo(start)
		return ""
	}
	removed := string(b.text[start:end])
	b.text = append(b.text[:start], b.text[end:]...)
	b.cursor = start
	return removed
}

// DeleteTo removes the text between the cursor and pos and moves the cursor
// to the lower of the two, mirroring the teacher's EraseTo.
func (b *Buffer) DeleteTo(pos int) string {
	if pos == b.cursor {
		return ""
	}
	if pos < b.cursor {
		return b.DeleteRange(pos, b.cursor)
	}
	start := b.cursor
	removed := b.DeleteRange(b.cursor, pos)
	b.cursor = start
	return removed
}

// NextGraphemeEnd returns the offset just past the grapheme starting at the
// cursor, skipping zero-width runes the way runewidth reports them.
func (b *Buffer) NextGraphemeEnd() int { return b.nextGraphemeEndFrom(b.cursor) }

func (b *Buffer) nextGraphemeEndFrom(pos int) int {
	if pos >= len(b.text) {
		return pos
	}
	r, size := utf8.DecodeRune(b.text[pos:])
	pos += size
	if r == '\n' {
		return pos
	}
	for pos < len(b.text) {
		r, size = utf8.DecodeRune(b.text[pos:])
		if r == '\n' || runewidth.RuneWidth(r) != 0 {
			break
		}
		pos += size
	}
	return pos
}

// PrevGraphemeStart returns the offset of the grapheme immediately before
// the cursor.
func (b *Buffer) PrevGraphemeStart() int { return b.prevGraphemeStartFrom(b.cursor) }

func (b *Buffer) prevGraphemeStartFrom(pos int) int {
	if pos <= 0 {
		return 0
	}
	r, size := utf8.DecodeLastRune(b.text[:pos])
	pos -= size
	if r == '\n' {
		return pos
	}
	for pos > 0 {
		r, size = utf8.DecodeLastRune(b.text[:pos])
		if r == '\n' || runewidth.RuneWidth(r) != 0 {
			break
		}
		pos -= size
	}
	return pos
}

// isSeparatorRune reports whether r is one of the word-boundary characters
// spec.md §4.3 defines: any of " \t\r\n,.;:/\\(){}[]" is a separator; every
// other rune — including '_', '-', quote characters, and any non-ASCII
// rune (UTF-8 encodes these with bytes >= 0x80) — counts as part of a word.
// Buffer word motion and the completion package's word transformer
// (isSeparatorByte in completion.go) share this same separator set so
// "word" means the same thing in both places.
func isSeparatorRune(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', ',', '.', ';', ':', '/', '\\', '(', ')', '{', '}', '[', ']':
		return true
	}
	return false
}

func isWordRune(r rune) bool { return !isSeparatorRune(r) }

// NextWordEnd returns the offset of the end of the next word at or after
// pos.
func (b *Buffer) NextWordEnd(pos int) int {
	for pos < len(b.text) {
		r, size := utf8.DecodeRune(b.text[pos:])
		if isWordRune(r) {
			break
		}
		pos += size
	}
	for pos < len(b.text) {
		r, size := utf8.DecodeRune(b.text[pos:])
		if !isWordRune(r) {
			break
		}
		pos += size
	}
	return pos
}

// PrevWordStart returns the offset of the start of the word immediately
// before pos.
func (b *Buffer) PrevWordStart(pos int) int {
	if pos > 0 {
		_, size := utf8.DecodeLastRune(b.text[:pos])
		pos -= size
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRune(b.text[:pos])
		if isWordRune(r) {
			break
		}
		pos -= size
	}
	for pos > 0 {
		r, size := utf8.DecodeLastRune(b.text[:pos])
		if !isWordRune(r) {
			break
		}
		pos -= size
	}
	if pos < 0 {
		return 0
	}
	return pos
}

// PrevWordStartWS treats any run of whitespace as the word boundary, used by delete-word-start-ws (Ctrl-W) which kills up to but not
// across whitespace-delimited tokens regardless of punctuation.
func (b *Buffer) PrevWordStartWS(pos int) int {
	for pos > 0 {
		r, size := utf8.DecodeLastRune(b.text[:pos])
		if unicode.IsSpace(r) {
			break
		}
		pos -= size
	}
	return pos
}

// LineStart returns the offset of the start of the display line containing
// pos (the nearest preceding '\n', or 0).
func (b *Buffer) LineStart(pos int) int {
	for pos > 0 {
		r, size := utf8.DecodeLastRune(b.text[:pos])
		if r == '\n' {
			break
		}
		pos -= size
	}
	return pos
}

// LineEnd returns the offset of the end of the display line containing pos
// (the next '\n', or Len()).
func (b *Buffer) LineEnd(pos int) int {
	for pos < len(b.text) {
		r, size := utf8.DecodeRune(b.text[pos:])
		if r == '\n' {
			break
		}
		pos += size
	}
	return pos
}

// DeleteHorizontalSpace removes the whitespace run around the cursor, if the
// cursor sits within or at the edge of one.
func (b *Buffer) DeleteHorizontalSpace() {
	start := b.cursor
	for start > 0 {
		r, size := utf8.DecodeLastRune(b.text[:start])
		if !unicode.IsSpace(r) || r == '\n' {
			break
		}
		start -= size
	}
	end := b.cursor
	for end < len(b.text) {
		r, size := utf8.DecodeRune(b.text[end:])
		if !unicode.IsSpace(r) || r == '\n' {
			break
		}
		end += size
	}
	if start < end {
		b.DeleteRange(start, end)
		b.cursor = start
	}
}

// MatchBrace returns the offset of the brace matching the one at or
// immediately before the cursor, and whether a match was found (spec.md
// §4.4 "brace matching").
func (b *Buffer) MatchBrace() (int, bool) {
	pos := b.cursor
	if pos < len(b.text) {
		if r, _ := utf8.DecodeRune(b.text[pos:]); r != 0 {
			if _, ok := bracePairs[r]; ok {
				return b.matchForward(pos, r)
			}
			if _, ok := braceClosers[r]; ok {
				return b.matchBackward(pos, r)
			}
		}
	}
	if pos > 0 {
		r, size := utf8.DecodeLastRune(b.text[:pos])
		if _, ok := bracePairs[r]; ok {
			return b.matchForward(pos-size, r)
		}
		if _, ok := braceClosers[r]; ok {
			return b.matchBackward(pos-size, r)
		}
	}
	return 0, false
}

func (b *Buffer) matchForward(pos int, open rune) (int, bool) {
	close := bracePairs[open]
	depth := 0
	p := pos
	for p < len(b.text) {
		r, size := utf8.DecodeRune(b.text[p:])
		switch r {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return p, true
			}
		}
		p += size
	}
	return 0, false
}

func (b *Buffer) matchBackward(pos int, close rune) (int, bool) {
	open := braceClosers[close]
	depth := 1
	p := pos
	for p > 0 {
		r, size := utf8.DecodeLastRune(b.text[:p])
		p -= size
		switch r {
		case close:
			depth++
		case open:
			depth--
			if depth == 0 {
				return p, true
			}
		}
	}
	return 0, false
}

// AutoCloser returns the closing rune to auto-insert for an opening brace
// rune r, and whether r is one.
func AutoCloser(r rune) (rune, bool) {
	c, ok := insertionPairs[r]
	return c, ok
}

const zeroWidthJoiner = '‍'

func isPrintableRune(r rune) bool {
	if r == zeroWidthJoiner {
		return false
	}
	isSurrogate := r >= 0xd800 && r <= 0xdfff
	return r == '\n' || (r >= 32 && !isSurrogate)
}

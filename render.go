package lineedit

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Style is a raw ANSI SGR escape sequence, as produced by the markup
// package's color resolver. The renderer treats it as an opaque string to
// emit and reset around a span; it does not interpret attributes itself.
type Style string

const styleReset Style = "\x1b[0m"

// hintStyle is applied to the transient hint suffix the renderer appends at
// the cursor (spec.md §4.5 "Hint overlay").
var hintStyle Style = "\x1b[2m"

// errorStyle highlights an unbalanced or mismatched brace (spec.md §4.3
// "Brace matching").
var errorStyle Style = "\x1b[31m"

// matchStyle highlights a matched brace pair.
var matchStyle Style = "\x1b[1m"

// AttrSpan applies a Style to buffer bytes [Start,End), parallel to the
// buffer the way the teacher's attrInfo spans are parallel to its rune
// slice (spec.md §4.5 "Attribute buffer").
type AttrSpan struct {
	Start, End int
	Style      Style
}

// glyph is one decoded rune from the composed render text (prompt + buffer
// + hint), carrying the buffer byte offset it originated from so the cursor
// and attribute lookups can map back to it. Buffer-originated glyphs carry
// their real offset; prompt/hint glyphs carry -1.
type glyph struct {
	r      rune
	bufOff int
}

type lineInfo struct {
	start, end int // indices into the glyph slice
	x, y       int
	// continued marks a row produced by an embedded '\n' in the buffer
	// (a new logical line), as opposed to a plain column-width wrap.
	continued bool
}

// Renderer computes the wrapped-row layout for (prompt + buffer + hint +
// extra) and diff-repaints the terminal, adapted from the teacher's
// screen.go to operate over a byte-offset Buffer with a separate attribute
// overlay and a completion-menu "extra" block.
type Renderer struct {
	out    io.Writer
	outbuf bytes.Buffer

	width, height int

	promptText   string
	promptMarker string
	contMarker   string
	multilineIndent bool

	rightText  string
	rightWidth int

	cursorX, cursorY int
	maxY             int
	lastRowCount     int
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{out: w, width: 80, height: 40}
}

// SetOutput redirects subsequent writes, used when an Option swaps the
// Editor's output writer after the Renderer was already constructed.
func (r *Renderer) SetOutput(w io.Writer) { r.out = w }

func (r *Renderer) SetSize(width, height int) {
	if width <= 0 {
		width = 1
	}
	r.width, r.height = width, height
}

func (r *Renderer) SetPrompt(text, marker, continuation string, multilineIndent bool) {
	r.promptText, r.promptMarker, r.contMarker = text, marker, continuation
	r.multilineIndent = multilineIndent
}

// SetRightText sets the optional inline right-aligned annotation and its
// precomputed visual width (spec.md §4.5 "Inline right text"; the open
// question about the width-0 fallback is resolved in DESIGN.md).
func (r *Renderer) SetRightText(s string, width int) {
	r.rightText, r.rightWidth = s, width
}

func visualWidth(s string) int {
	w := 0
	for _, r := range s {
		switch runewidth.RuneWidth(r) {
		case 2:
			w += 2
		case 1:
			w++
		}
	}
	return w
}

func (r *Renderer) promptIndentWidth() int {
	return visualWidth(r.promptText) + visualWidth(r.promptMarker)
}

func (r *Renderer) continuationIndentWidth() int {
	c := visualWidth(r.contMarker)
	if r.multilineIndent {
		p := r.promptIndentWidth()
		if p > c {
			return p
		}
	}
	return c
}

// composeGlyphs builds the full glyph stream for one render pass: buffer
// bytes with the hint appended at the cursor. Attribute/brace overlays are
// matched against bufOff as the stream is emitted.
func composeGlyphs(buf *Buffer, hint string) []glyph {
	text := buf.String()
	cursor := buf.Cursor()
	out := make([]glyph, 0, len(text)+len(hint))
	for i, w := 0, 0; i < len(text); i += w {
		rr, size := utf8.DecodeRuneInString(text[i:])
		w = size
		out = append(out, glyph{r: rr, bufOff: i})
	}
	if hint == "" {
		return out
	}
	// Insert hint glyphs right after the glyph ending at cursor.
	insertAt := len(out)
	for idx, g := range out {
		if g.bufOff >= cursor {
			insertAt = idx
			break
		}
	}
	hintGlyphs := make([]glyph, 0, len(hint))
	for _, hr := range hint {
		hintGlyphs = append(hintGlyphs, glyph{r: hr, bufOff: -1})
	}
	merged := make([]glyph, 0, len(out)+len(hintGlyphs))
	merged = append(merged, out[:insertAt]...)
	merged = append(merged, hintGlyphs...)
	merged = append(merged, out[insertAt:]...)
	return merged
}

// fitGlyphs mirrors the teacher's fitGraphemes: how many glyphs from s fit
// in avail columns before a forced wrap or embedded newline, honoring
// zero-width and wide runes.
func fitGlyphs(s []glyph, avail int) (consumed, width int, newline bool) {
	for i, g := range s {
		if g.r == '\n' {
			return i, width, true
		}
		switch runewidth.RuneWidth(g.r) {
		case 0:
		case 1:
			if width >= avail {
				return i, width, false
			}
			width++
		case 2:
			if width+2 > avail {
				return i, width, false
			}
			width += 2
		}
	}
	return len(s), width, false
}

func (r *Renderer) layout(glyphs []glyph) []lineInfo {
	var lines []lineInfo
	var pos, y int
	x := r.promptIndentWidth()
	contIndent := r.continuationIndentWidth()
	continued := false

	for {
		lines = append(lines, lineInfo{start: pos, end: pos, x: x, y: y, continued: continued})
		if pos >= len(glyphs) {
			break
		}
		avail := r.width - x
		if avail < 1 {
			avail = 1
		}
		consumed, width, newline := fitGlyphs(glyphs[pos:], avail)
		x += width
		y += x / r.width
		x = x % r.width

		l := &lines[len(lines)-1]
		l.end = pos + consumed
		pos += consumed
		continued = newline

		if newline {
			x = contIndent
			y++
			pos++
		} else if consumed == 0 {
			x = 0
			y++
		}
	}
	if r.maxY < y {
		r.maxY = y
	}
	return lines
}

// findRowCol locates the (x,y) screen position of the glyph at bufOff
// (matched by value equality against the original cursor offset), used
// after a repaint to place the cursor.
func findRowCol(glyphs []glyph, lines []lineInfo, bufOff int) (x, y int) {
	idx := len(glyphs)
	for i, g := range glyphs {
		if g.bufOff == bufOff {
			idx = i
			break
		}
	}
	for _, l := range lines {
		if idx <= l.end {
			_, w, _ := fitGlyphs(glyphs[l.start:idx], 1<<30)
			return l.x + w, l.y
		}
	}
	return 0, 0
}

func attrAt(attrs []AttrSpan, bufOff int) (Style, bool) {
	if bufOff < 0 {
		return "", false
	}
	for _, a := range attrs {
		if bufOff >= a.Start && bufOff < a.End {
			return a.Style, true
		}
	}
	return "", false
}

// Render performs one full diff-repaint: prompt, buffer (styled per attrs,
// with hint appended and styled separately), optional extra block (e.g. the
// completion menu) beneath, and inline right text on the last row. The
// previously-recorded row count is used to blank residual rows from a
// shorter repaint.
func (r *Renderer) Render(buf *Buffer, hint string, attrs []AttrSpan, extra string) {
	glyphs := composeGlyphs(buf, hint)
	lines := r.layout(glyphs)

	r.outbuf.Reset()
	r.moveCursorTo(0, 0)
	r.cursorX, r.cursorY = 0, 0

	r.writeIndent(true)
	var active Style
	for gi, row := range lines {
		for i := row.start; i < row.end; i++ {
			g := glyphs[i]
			var style Style
			if g.bufOff < 0 {
				style = hintStyle
			} else if s, ok := attrAt(attrs, g.bufOff); ok {
				style = s
			}
			if style != active {
				if active != "" {
					r.outbuf.WriteString(string(styleReset))
				}
				if style != "" {
					r.outbuf.WriteString(string(style))
				}
				active = style
			}
			r.outbuf.WriteRune(g.r)
		}
		if active != "" {
			r.outbuf.WriteString(string(styleReset))
			active = ""
		}

		isLast := gi == len(lines)-1
		if isLast && r.rightText != "" {
			r.writeRightText(row)
		} else {
			r.outbuf.WriteString("\x1b[K")
		}
		if !isLast {
			r.outbuf.WriteString("\r\n")
			if lines[gi+1].continued {
				r.writeIndent(false)
			}
		}
	}

	lastRow := lines[len(lines)-1]
	_, lastWidth, _ := fitGlyphs(glyphs[lastRow.start:lastRow.end], 1<<30)
	r.cursorX, r.cursorY = lastWidth, len(lines)-1

	extraLines := 0
	if extra != "" {
		parts := strings.Split(extra, "\n")
		extraLines = len(parts)
		for i, p := range parts {
			r.outbuf.WriteString("\r\n\x1b[K")
			r.outbuf.WriteString(p)
			if i == len(parts)-1 {
				r.cursorX = visualWidth(p)
			}
		}
		r.cursorY += extraLines
	}

	totalRows := len(lines) + extraLines
	for y := totalRows; y < r.lastRowCount; y++ {
		r.outbuf.WriteString("\r\n\x1b[K")
		r.cursorY++
	}
	r.lastRowCount = totalRows

	cx, cy := findRowCol(glyphs, lines, buf.Cursor())
	r.moveCursorTo(cx, cy)

	_, _ = io.Copy(r.out, &r.outbuf)
	r.outbuf.Reset()
}

func (r *Renderer) writeIndent(first bool) {
	if first {
		r.outbuf.WriteString(r.promptText)
		r.outbuf.WriteString(r.promptMarker)
	} else {
		r.outbuf.WriteString(r.contMarker)
	}
}

func (r *Renderer) writeRightText(row lineInfo) {
	rowWidth := row.x
	if r.width > rowWidth+r.rightWidth+1 {
		pad := r.width - rowWidth - r.rightWidth
		for i := 0; i < pad; i++ {
			r.outbuf.WriteByte(' ')
		}
		r.outbuf.WriteString(r.rightText)
	} else {
		r.outbuf.WriteString("\x1b[K")
	}
}

func (r *Renderer) moveCursorTo(x, y int) {
	if y < r.cursorY {
		up := r.cursorY - y
		r.csiMove(up, "A")
	}
	if y > r.cursorY {
		down := y - r.cursorY
		r.csiMove(down, "B")
	}
	if x < r.cursorX {
		r.csiMove(r.cursorX-x, "D")
	}
	if x > r.cursorX {
		r.csiMove(x-r.cursorX, "C")
	}
	r.cursorX, r.cursorY = x, y
}

func (r *Renderer) csiMove(n int, suffix string) {
	if n <= 0 {
		return
	}
	r.outbuf.WriteString("\x1b[")
	if n > 1 {
		r.outbuf.WriteString(strconv.Itoa(n))
	}
	r.outbuf.WriteString(suffix)
}

// PrintAbove drops a block of plain text below the currently rendered
// region without ending the edit session: the next Render starts fresh
// below it rather than trying to blank rows that now hold the printed
// lines. Used by the help action to dump the active key bindings.
func (r *Renderer) PrintAbove(lines []string) {
	r.moveCursorTo(0, r.lastRowCount)
	r.outbuf.WriteString("\r\n")
	for _, l := range lines {
		r.outbuf.WriteString(l)
		r.outbuf.WriteString("\r\n")
	}
	r.lastRowCount = 0
	r.cursorX, r.cursorY = 0, 0
	_, _ = io.Copy(r.out, &r.outbuf)
	r.outbuf.Reset()
}

// EraseScreen clears the terminal and homes the cursor, used by the
// clear-screen action.
func (r *Renderer) EraseScreen() {
	r.outbuf.WriteString("\x1b[H\x1b[2J")
	r.cursorX, r.cursorY = 0, 0
	r.lastRowCount = 0
	io.Copy(r.out, &r.outbuf)
	r.outbuf.Reset()
}

// Cleanup implements prompt cleanup: move up past the rendered region,
// clear it, and re-emit the prompt followed by the accepted value on a
// single line (spec.md §4.5 "Prompt cleanup").
func (r *Renderer) Cleanup(value string, blankLine bool) {
	r.moveCursorTo(0, 0)
	for y := 0; y <= r.lastRowCount; y++ {
		r.outbuf.WriteString("\x1b[K")
		if y < r.lastRowCount {
			r.outbuf.WriteString("\r\n")
		}
	}
	r.moveCursorTo(0, 0)
	r.outbuf.WriteString(r.promptText)
	r.outbuf.WriteString(r.promptMarker)
	r.outbuf.WriteString(value)
	r.outbuf.WriteString("\r\n")
	if blankLine {
		r.outbuf.WriteString("\r\n")
	}
	r.cursorX, r.cursorY, r.lastRowCount = 0, 0, 0
	io.Copy(r.out, &r.outbuf)
	r.outbuf.Reset()
}

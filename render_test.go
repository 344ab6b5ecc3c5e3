package lineedit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComposeGlyphsNoHint(t *testing.T) {
	buf := NewBuffer()
	buf.Insert("ab")

	glyphs := composeGlyphs(buf, "")
	require.Equal(t, []glyph{{r: 'a', bufOff: 0}, {r: 'b', bufOff: 1}}, glyphs)
}

func TestComposeGlyphsHintAtEnd(t *testing.T) {
	buf := NewBuffer()
	buf.Insert("ab")

	glyphs := composeGlyphs(buf, "c")
	require.Equal(t, []glyph{
		{r: 'a', bufOff: 0},
		{r: 'b', bufOff: 1},
		{r: 'c', bufOff: -1},
	}, glyphs)
}

func TestComposeGlyphsHintAtStart(t *testing.T) {
	buf := NewBuffer()
	buf.Insert("ab")
	buf.MoveTo(0)

	glyphs := composeGlyphs(buf, "X")
	require.Equal(t, []glyph{
		{r: 'X', bufOff: -1},
		{r: 'a', bufOff: 0},
		{r: 'b', bufOff: 1},
	}, glyphs)
}

func TestFitGlyphsStopsAtAvailWidth(t *testing.T) {
	s := []glyph{{r: 'a'}, {r: 'b'}, {r: 'c'}}
	consumed, width, newline := fitGlyphs(s, 2)
	require.Equal(t, 2, consumed)
	require.Equal(t, 2, width)
	require.False(t, newline)
}

func TestFitGlyphsStopsAtNewline(t *testing.T) {
	s := []glyph{{r: 'a'}, {r: '\n'}, {r: 'b'}}
	consumed, width, newline := fitGlyphs(s, 10)
	require.Equal(t, 1, consumed)
	require.Equal(t, 1, width)
	require.True(t, newline)
}

func TestFitGlyphsWideRuneNeedsTwoColumns(t *testing.T) {
	s := []glyph{{r: '中'}} // CJK, width 2
	consumed, width, newline := fitGlyphs(s, 1)
	require.Equal(t, 0, consumed)
	require.Equal(t, 0, width)
	require.False(t, newline)
}

func TestAttrAtFindsContainingSpan(t *testing.T) {
	attrs := []AttrSpan{{Start: 0, End: 2, Style: "X"}}

	style, ok := attrAt(attrs, 1)
	require.True(t, ok)
	require.Equal(t, Style("X"), style)

	_, ok = attrAt(attrs, 2)
	require.False(t, ok)

	_, ok = attrAt(attrs, -1)
	require.False(t, ok)
}

func TestRendererLayoutWrapsAtWidth(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	r.SetSize(5, 40)
	r.SetPrompt("> ", "", "", false)

	buf := NewBuffer()
	buf.Insert("abcd")
	glyphs := composeGlyphs(buf, "")

	lines := r.layout(glyphs)
	require.Len(t, lines, 3)
	require.Equal(t, lineInfo{start: 0, end: 3, x: 2, y: 0, continued: false}, lines[0])
	require.Equal(t, lineInfo{start: 3, end: 4, x: 0, y: 1, continued: false}, lines[1])
	require.Equal(t, lineInfo{start: 4, end: 4, x: 1, y: 1, continued: false}, lines[2])
}

func TestRendererContinuationIndentFollowsPromptWhenWider(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	r.SetPrompt("> ", "", "", true)
	require.Equal(t, 2, r.continuationIndentWidth())
}

func TestRendererContinuationIndentIgnoresPromptWhenNotMultiline(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	r.SetPrompt("> ", "", "... ", false)
	require.Equal(t, 4, r.continuationIndentWidth())
}

func TestFindRowColLocatesCursorGlyph(t *testing.T) {
	glyphs := []glyph{{r: 'a', bufOff: 0}, {r: 'b', bufOff: 1}, {r: 'c', bufOff: 2}}
	lines := []lineInfo{{start: 0, end: 3, x: 2, y: 0}}

	x, y := findRowCol(glyphs, lines, 1)
	require.Equal(t, 3, x)
	require.Equal(t, 0, y)
}

func TestFindRowColCursorAtBufferEnd(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{})
	r.SetSize(5, 40)
	r.SetPrompt("> ", "", "", false)

	buf := NewBuffer()
	buf.Insert("abcd")
	glyphs := composeGlyphs(buf, "")
	lines := r.layout(glyphs)

	x, y := findRowCol(glyphs, lines, buf.Cursor())
	require.Equal(t, 1, x)
	require.Equal(t, 1, y)
}

package lineedit

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/augustwind/lineedit/markup"
)

func newTestEditor() *Editor {
	return NewEditor(WithInput(&bytes.Buffer{}), WithOutput(&bytes.Buffer{}))
}

func TestTrailingBackslashesCountsFromEnd(t *testing.T) {
	require.Equal(t, 0, trailingBackslashes("abc"))
	require.Equal(t, 1, trailingBackslashes(`abc\`))
	require.Equal(t, 2, trailingBackslashes(`abc\\`))
	require.Equal(t, 3, trailingBackslashes(`abc\\\`))
}

func TestDispatchEnterOddTrailingBackslashContinuesLine(t *testing.T) {
	e := newTestEditor()
	e.Multiline = true
	e.mu.buf.Insert(`echo hi\`)

	text, done, err := e.dispatchEnter()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "", text)
	require.Equal(t, "echo hi\n", e.mu.buf.String())
}

func TestDispatchEnterEvenTrailingBackslashFinishes(t *testing.T) {
	e := newTestEditor()
	e.Multiline = true
	e.mu.buf.Insert(`echo hi\\`)

	text, done, err := e.dispatchEnter()
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, `echo hi\\`, text)
}

func TestDispatchEnterInputFinishedFalseContinuesLine(t *testing.T) {
	e := newTestEditor()
	e.InputFinished = func(text string) bool { return false }
	e.mu.buf.Insert("select 1")

	text, done, err := e.dispatchEnter()
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "", text)
	require.Equal(t, "select 1\n", e.mu.buf.String())
}

func TestDispatchEnterInputFinishedTrueAccepts(t *testing.T) {
	e := newTestEditor()
	e.InputFinished = func(text string) bool { return true }
	e.mu.buf.Insert("select 1;")

	text, done, err := e.dispatchEnter()
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, "select 1;", text)
}

func TestDispatchCtrlDOnEmptyBufferReturnsEOF(t *testing.T) {
	e := newTestEditor()
	_, done, err := e.dispatch(KeyCtrlD)
	require.True(t, done)
	require.Equal(t, io.EOF, err)
}

func TestDispatchCtrlDOnNonEmptyBufferDeletesForward(t *testing.T) {
	e := newTestEditor()
	e.mu.buf.Insert("ab")
	e.mu.buf.MoveTo(0)

	_, done, err := e.dispatch(KeyCtrlD)
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "b", e.mu.buf.String())
}

func TestDispatchUnboundPrintableInsertsChar(t *testing.T) {
	e := newTestEditor()
	_, done, err := e.dispatch(Keycode('x'))
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "x", e.mu.buf.String())
}

func TestDispatchUnboundControlCharIsIgnored(t *testing.T) {
	e := newTestEditor()
	// Ctrl-O (15) is not bound by the default emacs profile and is below
	// 32, so it falls through to the "ignore" branch rather than inserting.
	before := e.mu.buf.String()
	_, done, err := e.dispatch(Keycode(15))
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, before, e.mu.buf.String())
}

func TestDispatchUnboundVirtualKeyIsIgnored(t *testing.T) {
	e := newTestEditor()
	_, done, err := e.dispatch(virtBase + 0xFFF)
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "", e.mu.buf.String())
}

func TestIsBraceRecognizesOpenAndClose(t *testing.T) {
	require.True(t, isBrace('('))
	require.True(t, isBrace(')'))
	require.True(t, isBrace('{'))
	require.False(t, isBrace('a'))
}

func TestBraceMatchAttrsMatchedPair(t *testing.T) {
	e := newTestEditor()
	e.mu.buf.Insert("(x)")
	e.mu.buf.MoveTo(3) // cursor right after the closing paren

	attrs := braceMatchAttrs(e.mu.buf)
	require.Len(t, attrs, 2)
	require.Equal(t, matchStyle, attrs[0].Style)
	require.Equal(t, matchStyle, attrs[1].Style)
}

func TestBraceMatchAttrsUnmatchedIsError(t *testing.T) {
	e := newTestEditor()
	e.mu.buf.Insert("(x")
	e.mu.buf.MoveTo(0)

	attrs := braceMatchAttrs(e.mu.buf)
	require.Len(t, attrs, 1)
	require.Equal(t, errorStyle, attrs[0].Style)
}

func TestBraceMatchAttrsNoBraceNearCursorReturnsNil(t *testing.T) {
	e := newTestEditor()
	e.mu.buf.Insert("abc")
	e.mu.buf.MoveTo(1)

	require.Nil(t, braceMatchAttrs(e.mu.buf))
}

func TestDispatchMenuEnterAcceptsAndClosesMenu(t *testing.T) {
	e := newTestEditor()
	e.Completion.Completer = wordListCompleter([]string{"select", "set"})
	e.mu.buf.SetText("se")
	e.Completion.OpenMenu(e.mu.buf)
	require.True(t, e.Completion.MenuOpen())

	_, done, err := e.dispatchMenu(KeyEnter)
	require.NoError(t, err)
	require.False(t, done)
	require.False(t, e.Completion.MenuOpen())
	require.Equal(t, "select", e.mu.buf.String())
}

func TestDispatchMenuEscCancels(t *testing.T) {
	e := newTestEditor()
	e.Completion.Completer = wordListCompleter([]string{"select", "set"})
	e.mu.buf.SetText("se")
	e.Completion.OpenMenu(e.mu.buf)
	require.True(t, e.Completion.MenuOpen())

	_, done, err := e.dispatchMenu(KeyEsc)
	require.NoError(t, err)
	require.False(t, done)
	require.False(t, e.Completion.MenuOpen())
	require.Equal(t, "se", e.mu.buf.String())
}

func TestDispatchSearchAppendsCharAndCtrlRAdvances(t *testing.T) {
	e := newTestEditor()
	e.History.Add("select one")
	e.History.Add("select two")
	e.History.BeginSearch(-1, e.mu.buf)

	_, done, err := e.dispatchSearch(Keycode('s'))
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "select two", e.mu.buf.String())

	_, done, err = e.dispatchSearch(KeyCtrlR)
	require.NoError(t, err)
	require.False(t, done)
	require.True(t, e.History.InSearch())
	require.Equal(t, "select one", e.mu.buf.String())
}

func TestDispatchSearchEnterAccepts(t *testing.T) {
	e := newTestEditor()
	e.History.Add("select one")
	e.History.BeginSearch(-1, e.mu.buf)
	e.History.AppendSearchChar('s', e.mu.buf)

	_, done, err := e.dispatchSearch(KeyEnter)
	require.NoError(t, err)
	require.False(t, done)
	require.False(t, e.History.InSearch())
	require.Equal(t, "select one", e.mu.buf.String())
}

func TestHintAcceptOnCursorRightExtendsBuffer(t *testing.T) {
	e := newTestEditor()
	e.HintEnabled = true
	e.Completion.Completer = wordListCompleter([]string{"bar"})
	e.mu.buf.Insert("b")

	// Simulate the idle timeout that would normally follow a pause longer
	// than HintDelay: onIdle probes the completer and finds the hint.
	e.onIdle()
	require.True(t, e.mu.hint.shown)
	require.Equal(t, "ar", e.mu.hint.text)

	_, done, err := e.dispatch(KeyRight)
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "bar", e.mu.buf.String())
	require.Equal(t, 3, e.mu.buf.Cursor())
	require.False(t, e.mu.hint.shown)
}

func TestHintClearedOnUnrelatedKeystroke(t *testing.T) {
	e := newTestEditor()
	e.HintEnabled = true
	e.Completion.Completer = wordListCompleter([]string{"bar"})
	e.mu.buf.Insert("b")

	e.onIdle()
	require.True(t, e.mu.hint.shown)

	_, done, err := e.dispatch(Keycode('x'))
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "bx", e.mu.buf.String())
	require.False(t, e.mu.hint.shown)
}

func TestHintNotAcceptedWhenCursorNotAtBufferEnd(t *testing.T) {
	e := newTestEditor()
	e.HintEnabled = true
	e.Completion.Completer = wordListCompleter([]string{"bar"})
	e.mu.buf.Insert("b")
	e.onIdle()
	require.True(t, e.mu.hint.shown)

	e.mu.buf.MoveTo(0)
	_, done, err := e.dispatch(KeyRight)
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "b", e.mu.buf.String())
	require.Equal(t, 1, e.mu.buf.Cursor())
}

func TestHistorySearchCoalescesUndoIntoOneEntry(t *testing.T) {
	e := newTestEditor()
	e.History.Add("select one")
	e.History.Add("select two")
	e.mu.buf.Insert("unsaved work")

	_, done, err := e.dispatch(KeyCtrlR)
	require.NoError(t, err)
	require.False(t, done)
	require.True(t, e.History.InSearch())

	_, done, err = e.dispatchSearch(Keycode('s'))
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "select two", e.mu.buf.String())

	_, done, err = e.dispatchSearch(KeyEnter)
	require.NoError(t, err)
	require.False(t, done)
	require.False(t, e.History.InSearch())
	require.Equal(t, "select two", e.mu.buf.String())

	// The whole search — entry plus every incremental match — must undo as
	// one coalesced step straight back to the buffer before Ctrl-R, not one
	// step per search keystroke.
	snap, ok := e.mu.undo.Undo(e.mu.buf.String(), e.mu.buf.Cursor())
	require.True(t, ok)
	require.Equal(t, "unsaved work", snap.text)

	_, ok = e.mu.undo.Undo("unsaved work", len("unsaved work"))
	require.False(t, ok)
}

func TestPrintPrintlnPrintfExpandMarkup(t *testing.T) {
	out := &bytes.Buffer{}
	e := NewEditor(WithOutput(out))
	e.Markup.SetColorDepth(markup.Monochrome)

	e.Println("[b]hi[/b]")
	require.Contains(t, out.String(), "hi")
	require.Contains(t, out.String(), "\r\n")
}

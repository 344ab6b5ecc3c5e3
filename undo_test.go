package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUndoStackCaptureAndUndo(t *testing.T) {
	var u undoStack
	u.Capture("a", 1)
	u.Capture("ab", 2)

	snap, ok := u.Undo("abc", 3)
	require.True(t, ok)
	require.Equal(t, "ab", snap.text)
	require.Equal(t, 2, snap.cursor)

	snap, ok = u.Undo("ab", 2)
	require.True(t, ok)
	require.Equal(t, "a", snap.text)
	require.Equal(t, 1, snap.cursor)

	_, ok = u.Undo("a", 1)
	require.False(t, ok)
}

func TestUndoStackRedoAfterUndo(t *testing.T) {
	var u undoStack
	u.Capture("a", 1)

	snap, ok := u.Undo("ab", 2)
	require.True(t, ok)
	require.Equal(t, "a", snap.text)

	redone, ok := u.Redo("a", 1)
	require.True(t, ok)
	require.Equal(t, "ab", redone.text)
	require.Equal(t, 2, redone.cursor)
}

func TestUndoStackCaptureClearsRedo(t *testing.T) {
	var u undoStack
	u.Capture("a", 1)
	_, ok := u.Undo("ab", 2)
	require.True(t, ok)

	u.Capture("ac", 2)
	_, ok = u.Redo("ac", 2)
	require.False(t, ok)
}

func TestUndoStackSuppressSkipsCapture(t *testing.T) {
	var u undoStack
	restore := u.Suppress()
	u.Capture("a", 1)
	restore()

	_, ok := u.Undo("a", 1)
	require.False(t, ok)

	u.Capture("b", 1)
	_, ok = u.Undo("ab", 2)
	require.True(t, ok)
}

func TestUndoStackReset(t *testing.T) {
	var u undoStack
	u.Capture("a", 1)
	u.Reset()

	_, ok := u.Undo("a", 1)
	require.False(t, ok)
	require.False(t, u.disabled)
}

func TestUndoStackCapsEntries(t *testing.T) {
	var u undoStack
	for i := 0; i < undoStackLimit+10; i++ {
		u.Capture(string(rune('a'+i%26)), i)
	}
	require.Len(t, u.undo, undoStackLimit)
	require.Equal(t, 10, u.undo[0].cursor)
}

package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKillRingRecordAndYank(t *testing.T) {
	var r killRing
	r.Record(ActionDeleteWordEnd, "hello")
	require.Equal(t, "hello", r.Yank())
}

func TestKillRingConsecutiveKillsCoalesce(t *testing.T) {
	var r killRing
	r.Record(ActionDeleteWordEnd, "foo")
	r.Record(ActionDeleteWordEnd, "bar")
	require.Equal(t, "foobar", r.Yank())
}

func TestKillRingBackwardKillPrepends(t *testing.T) {
	var r killRing
	r.Record(ActionDeleteWordStart, "foo")
	r.Record(ActionDeleteWordStart, "bar")
	require.Equal(t, "barfoo", r.Yank())
}

func TestKillRingNonKillActionStartsNewEntry(t *testing.T) {
	var r killRing
	r.Record(ActionDeleteWordEnd, "foo")
	r.EndAction(ActionCursorLeft)
	r.Record(ActionDeleteWordEnd, "bar")
	require.Equal(t, "bar", r.Yank())
}

func TestKillRingRotate(t *testing.T) {
	var r killRing
	r.Record(ActionDeleteWordEnd, "foo")
	r.EndAction(ActionCursorLeft)
	r.Record(ActionDeleteWordEnd, "bar")
	require.Equal(t, "bar", r.Yank())
	r.Rotate()
	require.Equal(t, "foo", r.Yank())
}

func TestKillRingYankingResetsOnOtherAction(t *testing.T) {
	var r killRing
	r.Record(ActionDeleteWordEnd, "foo")
	r.Yank()
	require.True(t, r.Yanking())
	r.EndAction(ActionInsertChar)
	require.False(t, r.Yanking())
}

func TestKillRingEmptyYankReturnsEmptyString(t *testing.T) {
	var r killRing
	require.Equal(t, "", r.Yank())
}

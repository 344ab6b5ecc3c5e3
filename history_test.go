package lineedit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryAddAndLen(t *testing.T) {
	h := NewHistory(0, false)
	h.Add("a")
	h.Add("b")
	require.Equal(t, 2, h.Len())
}

func TestHistoryNoDuplicatesElidesRepeat(t *testing.T) {
	h := NewHistory(0, true)
	h.Add("a")
	h.Add("a")
	require.Equal(t, 1, h.Len())
}

func TestHistoryAllowsDuplicatesWhenDisabled(t *testing.T) {
	h := NewHistory(0, false)
	h.Add("a")
	h.Add("a")
	require.Equal(t, 2, h.Len())
}

func TestHistoryPrevNextRoundtrip(t *testing.T) {
	h := NewHistory(0, false)
	h.Add("a")
	h.Add("b")
	h.Add("c")

	buf := NewBuffer()
	require.True(t, h.Prev(buf, ""))
	require.Equal(t, "c", buf.String())

	require.True(t, h.Prev(buf, ""))
	require.Equal(t, "b", buf.String())

	require.True(t, h.Prev(buf, ""))
	require.Equal(t, "a", buf.String())

	require.False(t, h.Prev(buf, ""))
	require.Equal(t, "a", buf.String())

	require.True(t, h.Next(buf, ""))
	require.Equal(t, "b", buf.String())

	require.True(t, h.Next(buf, ""))
	require.Equal(t, "c", buf.String())

	require.True(t, h.Next(buf, ""))
	require.Equal(t, "", buf.String())

	require.False(t, h.Next(buf, ""))
}

func TestHistoryPrevWithPrefixSkipsNonMatching(t *testing.T) {
	h := NewHistory(0, false)
	h.Add("select 1")
	h.Add("show tables")
	h.Add("select 2")

	buf := NewBuffer()
	require.True(t, h.Prev(buf, "select"))
	require.Equal(t, "select 2", buf.String())

	require.True(t, h.Prev(buf, "select"))
	require.Equal(t, "select 1", buf.String())

	require.False(t, h.Prev(buf, "select"))
}

func TestHistoryRemoveLast(t *testing.T) {
	h := NewHistory(0, false)
	h.Add("a")
	h.Add("b")
	h.RemoveLast()
	require.Equal(t, 1, h.Len())
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(0, false)
	h.Add("a")
	h.Clear()
	require.Equal(t, 0, h.Len())
}

func TestHistoryMaxEntriesCapsRing(t *testing.T) {
	h := NewHistory(2, false)
	h.Add("a")
	h.Add("b")
	h.Add("c")
	require.Equal(t, 2, h.Len())

	buf := NewBuffer()
	require.True(t, h.Prev(buf, ""))
	require.Equal(t, "c", buf.String())
	require.True(t, h.Prev(buf, ""))
	require.Equal(t, "b", buf.String())
	require.False(t, h.Prev(buf, ""))
}

func TestHistoryLoadSaveRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.txt")

	h := NewHistory(0, false)
	require.NoError(t, h.Load(path))
	h.Add("select 1")
	h.Add("show tables")
	require.NoError(t, h.Close())

	h2 := NewHistory(0, false)
	require.NoError(t, h2.Load(path))
	require.Equal(t, 2, h2.Len())

	buf := NewBuffer()
	require.True(t, h2.Prev(buf, ""))
	require.Equal(t, "show tables", buf.String())
}

func TestHistorySaveAtomicRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.txt")

	h := NewHistory(0, false)
	h.path = path
	h.Add("a")
	h.Add("b")
	require.NoError(t, h.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), historyCookie)
	require.Contains(t, string(data), "a")
	require.Contains(t, string(data), "b")
}

func TestHistoryBeginSearchFindsMatch(t *testing.T) {
	h := NewHistory(0, false)
	h.Add("select one")
	h.Add("select two")
	h.Add("show tables")

	buf := NewBuffer()
	h.BeginSearch(-1, buf)
	// Reverse search walks newest-to-oldest, extending the pattern one rune
	// at a time and continuing from the last match position rather than
	// restarting from the newest entry.
	h.AppendSearchChar('s', buf)
	require.Equal(t, "show tables", buf.String())

	h.AppendSearchChar('e', buf)
	require.Equal(t, "select two", buf.String())

	h.AppendSearchChar('l', buf)
	require.True(t, h.InSearch())
	require.Equal(t, "select one", buf.String())
}

func TestHistoryCancelSearchRestoresBuffer(t *testing.T) {
	h := NewHistory(0, false)
	h.Add("select one")

	buf := NewBuffer()
	buf.Insert("unsaved work")
	h.BeginSearch(-1, buf)
	h.AppendSearchChar('s', buf)
	require.NotEqual(t, "unsaved work", buf.String())

	h.CancelSearch(buf)
	require.False(t, h.InSearch())
	require.Equal(t, "unsaved work", buf.String())
}

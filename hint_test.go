package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbeHintSingleCandidateYieldsRemainder(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select"})

	buf := NewBuffer()
	buf.SetText("se")

	text, _, ok := probeHint(e, buf)
	require.True(t, ok)
	require.Equal(t, "lect", text)
}

func TestProbeHintNoCandidatesReturnsFalse(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select"})

	buf := NewBuffer()
	buf.SetText("zz")

	_, _, ok := probeHint(e, buf)
	require.False(t, ok)
}

func TestProbeHintAmbiguousCandidatesReturnsFalse(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select", "set"})

	buf := NewBuffer()
	buf.SetText("se")

	_, _, ok := probeHint(e, buf)
	require.False(t, ok)
}

func TestProbeHintNilEngineReturnsFalse(t *testing.T) {
	_, _, ok := probeHint(nil, NewBuffer())
	require.False(t, ok)
}

func TestProbeHintExactMatchAlreadyCompleteReturnsFalse(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select"})

	buf := NewBuffer()
	buf.SetText("select")

	_, _, ok := probeHint(e, buf)
	require.False(t, ok)
}

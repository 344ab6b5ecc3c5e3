package lineedit

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func wordListCompleter(words []string) Completer {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	return WordTransformer(func(ctx *CompletionContext) {
		for _, w := range sorted {
			if len(w) >= len(ctx.Prefix) && w[:len(ctx.Prefix)] == ctx.Prefix {
				if !ctx.Add(w) {
					return
				}
			}
		}
	})
}

func TestCompletionEngineCollectPrefixMatch(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select", "set", "show"})

	buf := NewBuffer()
	buf.SetText("se")
	cands := e.Collect(buf, 0)
	require.Len(t, cands, 2)
	require.Equal(t, "select", cands[0].Replacement)
	require.Equal(t, "set", cands[1].Replacement)
}

func TestCompletionEngineAcceptReplacesWord(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select"})

	buf := NewBuffer()
	buf.SetText("se")
	cands := e.Collect(buf, 0)
	require.Len(t, cands, 1)

	e.Accept(buf, cands[0])
	require.Equal(t, "select", buf.String())
}

func TestCompletionEngineOpenMenuSingleCandidateAutoAccepts(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select"})
	buf := NewBuffer()
	buf.SetText("se")

	c, accepted := e.OpenMenu(buf)
	require.True(t, accepted)
	require.Equal(t, "select", c.Replacement)
	require.False(t, e.MenuOpen())
}

func TestCompletionEngineOpenMenuMultipleCandidatesOpensMenu(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select", "set"})
	buf := NewBuffer()
	buf.SetText("se")

	_, accepted := e.OpenMenu(buf)
	require.False(t, accepted)
	require.True(t, e.MenuOpen())

	cands, selected := e.MenuCandidates()
	require.Len(t, cands, 2)
	require.Equal(t, 0, selected)
}

func TestCompletionEngineMenuNextPrevWraps(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select", "set", "show"})
	buf := NewBuffer()
	buf.SetText("s")
	e.OpenMenu(buf)

	e.MenuNext()
	_, sel := e.MenuCandidates()
	require.Equal(t, 1, sel)

	e.MenuPrev()
	e.MenuPrev()
	_, sel = e.MenuCandidates()
	require.Equal(t, 2, sel)
}

func TestCompletionEngineOpenMenuNoCandidatesCloses(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select"})
	buf := NewBuffer()
	buf.SetText("zz")

	_, accepted := e.OpenMenu(buf)
	require.False(t, accepted)
	require.False(t, e.MenuOpen())
}

func TestCompletionEngineMenuSelectDigit(t *testing.T) {
	e := NewCompletionEngine()
	e.Completer = wordListCompleter([]string{"select", "set", "show"})
	buf := NewBuffer()
	buf.SetText("s")
	e.OpenMenu(buf)

	require.True(t, e.MenuSelectDigit(3))
	_, sel := e.MenuCandidates()
	require.Equal(t, 2, sel)

	require.False(t, e.MenuSelectDigit(99))
}

func TestQuotedWordTransformerStripsLeadingQuoteFromPrefixOnly(t *testing.T) {
	qt := QuotedWordTransformer(`"'`, `\`, func(ctx *CompletionContext) {
		if ctx.Prefix == "fo" {
			ctx.Add("foo bar")
		}
	})

	ctx := newCompletionContext(`"fo`, 3, "", 10)
	qt(ctx)
	cands := ctx.candidates()
	require.Len(t, cands, 1)
	require.Equal(t, "foo bar", cands[0].Replacement)
	// Only "fo" (2 bytes) is deleted; the opening quote itself is left in
	// the buffer untouched.
	require.Equal(t, 2, cands[0].DeleteBefore)
}

func TestQuotedWordTransformerRequotesEmbeddedQuoteChar(t *testing.T) {
	qt := QuotedWordTransformer(`"'`, `\`, func(ctx *CompletionContext) {
		ctx.Add(`say "hi"`)
	})

	ctx := newCompletionContext(`"x`, 2, "", 10)
	qt(ctx)
	cands := ctx.candidates()
	require.Len(t, cands, 1)
	require.Equal(t, `say \"hi\"`, cands[0].Replacement)
}

func TestWordTransformerFindsWordBoundary(t *testing.T) {
	var gotPrefix string
	wt := WordTransformer(func(ctx *CompletionContext) {
		gotPrefix = ctx.Prefix
	})
	ctx := newCompletionContext("select fo", 9, "", 10)
	wt(ctx)
	require.Equal(t, "fo", gotPrefix)
}

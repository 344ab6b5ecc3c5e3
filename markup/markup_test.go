package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{"plain", "plain"},
		{"[b]bold[/b]", "bold"},
		{"[color=red]hi[/]", "hi"},
		{"no closing [b]tag", "no closing tag"},
		{"[a][b][c]nested", "nested"},
	}
	for _, c := range testCases {
		t.Run("", func(t *testing.T) {
			require.Equal(t, c.expected, Strip(c.in))
		})
	}
}

func TestWidth(t *testing.T) {
	require.Equal(t, 5, Width("hello"))
	require.Equal(t, 5, Width("[b]hello[/b]"))
	require.Equal(t, 0, Width(""))
}

func TestSprintResetsOnClose(t *testing.T) {
	r := NewResolver(TrueColor)
	out := r.Sprint("[bold]hi[/bold]there")
	require.True(t, strings.Contains(out, "\x1b[1m"))
	require.True(t, strings.Contains(out, "hi"))
	require.True(t, strings.Contains(out, "there"))
	require.True(t, strings.HasSuffix(out, "there"))
}

func TestSprintAutoClosesUnclosedTags(t *testing.T) {
	r := NewResolver(Color16)
	out := r.Sprint("[bold]unterminated")
	require.True(t, strings.HasSuffix(out, "\x1b[0m"))
}

func TestSprintMonochromeEmitsNoColor(t *testing.T) {
	r := NewResolver(Monochrome)
	out := r.Sprint("[color=red]text[/]")
	require.True(t, strings.Contains(out, "text"))
	require.False(t, strings.Contains(out, "38;2"))
	require.False(t, strings.Contains(out, "38;5"))
}

func TestStyleDefCustomStyle(t *testing.T) {
	r := NewResolver(TrueColor)
	r.StyleDef("warn", "color=red bold")
	out := r.Sprint("[warn]oops[/]")
	require.True(t, strings.Contains(out, "\x1b[1m"))
}

func TestStyleDefReferencesAnotherStyle(t *testing.T) {
	r := NewResolver(TrueColor)
	r.StyleDef("loud", "bold underline")
	r.StyleDef("important", "loud color=red")
	out := r.Sprint("[important]x[/]")
	require.True(t, strings.Contains(out, "\x1b[1m"))
	require.True(t, strings.Contains(out, "\x1b[4m"))
}

func TestParseColorHex(t *testing.T) {
	c, ok := parseColor("#ff0000")
	require.True(t, ok)
	require.Equal(t, color{255, 0, 0, true}, c)

	c, ok = parseColor("#f00")
	require.True(t, ok)
	require.Equal(t, color{255, 0, 0, true}, c)

	_, ok = parseColor("#zz0000")
	require.False(t, ok)
}

func TestParseColorNames(t *testing.T) {
	_, ok := parseColor("red")
	require.True(t, ok)

	_, ok = parseColor("ansi-blue")
	require.True(t, ok)

	_, ok = parseColor("not-a-color")
	require.False(t, ok)
}

func TestDetectColorDepth(t *testing.T) {
	require.Equal(t, TrueColor, DetectColorDepth("truecolor", ""))
	require.Equal(t, Monochrome, DetectColorDepth("monochrome", ""))
	require.Equal(t, Monochrome, DetectColorDepth("", "dumb"))
	require.Equal(t, Color256, DetectColorDepth("", "xterm-256color"))
	require.Equal(t, Color16, DetectColorDepth("", "xterm"))
}

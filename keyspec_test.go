package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKeySpecPlainLetter(t *testing.T) {
	k, err := ParseKeySpec("a")
	require.NoError(t, err)
	require.Equal(t, Keycode('a'), k)
}

func TestParseKeySpecCtrlLetterCompresses(t *testing.T) {
	k, err := ParseKeySpec("ctrl+w")
	require.NoError(t, err)
	require.Equal(t, Keycode(23), k) // 'w'-'a'+1
	require.Equal(t, Keycode(0), k.Mods())
}

func TestParseKeySpecAltAndShift(t *testing.T) {
	k, err := ParseKeySpec("alt+shift+left")
	require.NoError(t, err)
	require.Equal(t, KeyLeft, k.Base())
	require.Equal(t, ModAlt|ModShift, k.Mods())
}

func TestParseKeySpecNamedBase(t *testing.T) {
	k, err := ParseKeySpec("Control-left")
	require.NoError(t, err)
	require.Equal(t, KeyLeft, k.Base())
	require.Equal(t, ModCtrl, k.Mods())
}

func TestParseKeySpecFunctionKey(t *testing.T) {
	k, err := ParseKeySpec("f5")
	require.NoError(t, err)
	require.Equal(t, KeyF(5), k)
}

func TestParseKeySpecCtrlUnderscore(t *testing.T) {
	k, err := ParseKeySpec("ctrl+_")
	require.NoError(t, err)
	require.Equal(t, Keycode(0x1f), k.Base())
}

func TestParseKeySpecErrors(t *testing.T) {
	testCases := []string{
		"",
		"ctrl+",
		"ctrl+alt",
		"foo+bar+baz",
	}
	for _, c := range testCases {
		t.Run(c, func(t *testing.T) {
			_, err := ParseKeySpec(c)
			require.Error(t, err)
		})
	}
}

func TestParseKeySpecListSplitsOnPipe(t *testing.T) {
	keys, err := ParseKeySpecList("ctrl+p | up")
	require.NoError(t, err)
	require.Len(t, keys, 2)
	require.Equal(t, KeyUp, keys[1].Base())
}

func TestFormatKeySpecRoundtrip(t *testing.T) {
	testCases := []string{"ctrl+w", "alt+shift+left", "f5", "a"}
	for _, spec := range testCases {
		t.Run(spec, func(t *testing.T) {
			k, err := ParseKeySpec(spec)
			require.NoError(t, err)
			require.Equal(t, spec, FormatKeySpec(k))
		})
	}
}

func TestFormatKeySpecNone(t *testing.T) {
	require.Equal(t, "none", FormatKeySpec(0))
}

package lineedit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisRoundtrip(t *testing.T) {
	testCases := []string{
		`\foo`,
		" \a\b\f\n\t\vfoo",
		"\x18foo\x19",
	}
	for _, c := range testCases {
		t.Run("", func(t *testing.T) {
			e := visEncode(c)
			d, err := visDecode(e)
			require.NoError(t, err)
			require.Equal(t, d, c)
		})
	}
}

func TestVisDecode(t *testing.T) {
	testCases := []struct {
		encoded  string
		expected string
	}{
		{`\\`, `\`},
		{`\a`, "\a"},
		{`\b`, "\b"},
		{`\f`, "\f"},
		{`\n`, "\n"},
		{`\s`, " "},
		{`\t`, "\t"},
		{`\v`, "\v"},
		{`\E`, "\x1b"},
		{"\\\n", ""},
		{`\$`, ""},
		{`\x18`, "\x18"},
		{`\040`, " "},
		{`\^X`, "\x18"},
		{`\^Y`, "\x19"},
		{`\M-x`, "\xf8"},
		{`\M^x`, "\x98"},
	}
	for _, c := range testCases {
		t.Run("", func(t *testing.T) {
			d, err := visDecode(c.encoded)
			require.NoError(t, err)
			require.Equalf(t, c.expected, d, "%q", d)
		})
	}
}

func TestVisDecodeError(t *testing.T) {
	testCases := []string{
		`\`,
		`\1`,
		`\12`,
		`\^`,
		`\M`,
		`\M-`,
		`\M^`,
		`\z`,
	}
	for _, c := range testCases {
		t.Run("", func(t *testing.T) {
			_, err := visDecode(c)
			require.Error(t, err)
		})
	}
}

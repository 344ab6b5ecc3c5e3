package lineedit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileReturnsZeroValue(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, &Config{}, cfg)
}

func TestLoadConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
profile: vim
multiline: true
hint: true
hint_delay_ms: 250
brace_matching: true
prompt_marker: "> "
history:
  path: /tmp/does-not-matter
  max_entries: 50
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "vim", cfg.Profile)
	require.True(t, cfg.Multiline)
	require.True(t, cfg.Hint)
	require.Equal(t, 250, cfg.HintDelayMS)
	require.True(t, cfg.BraceMatching)
	require.Equal(t, "> ", cfg.PromptMarker)
	require.Equal(t, 50, cfg.History.MaxEntries)
}

func TestLoadConfigRegistersProfiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
profiles:
  - name: my-emacs
    parent: emacs
    bindings:
      "ctrl+x": undo
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := LoadConfig(path)
	require.NoError(t, err)

	_, ok := LookupProfile("my-emacs")
	require.True(t, ok)
}

func TestLoadConfigRejectsUnknownParentProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
profiles:
  - name: orphan
    parent: does-not-exist
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownAction(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := `
profiles:
  - name: bad-binding
    bindings:
      "ctrl+q": not-a-real-action
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestConfigOptionsSelectsProfile(t *testing.T) {
	cfg := &Config{Profile: "vim"}
	opts := cfg.Options()
	require.Len(t, opts, 1)

	e := NewEditor(opts...)
	require.Equal(t, "vim", e.bindings.ProfileName())
}

func TestConfigApplyAssignsFieldsOntoEditor(t *testing.T) {
	cfg := &Config{
		Multiline:       true,
		Hint:            true,
		HintDelayMS:     250,
		BraceMatching:   false,
		BraceInsertion:  false,
		MultilineIndent: true,
		PromptCleanup:   false,
		PromptMarker:    ">>",
	}

	e := NewEditor()
	cfg.Apply(e)

	require.True(t, e.Multiline)
	require.True(t, e.HintEnabled)
	require.Equal(t, 250*1e6, float64(e.HintDelay))
	require.False(t, e.BraceMatching)
	require.False(t, e.BraceInsertion)
	require.True(t, e.MultilineIndent)
	require.False(t, e.PromptCleanup)
	require.Equal(t, ">>", e.PromptMarker)
}

func TestConfigApplyLoadsHistoryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.txt")

	cfg := &Config{}
	cfg.History.Path = path
	cfg.History.MaxEntries = 10

	e := NewEditor()
	cfg.Apply(e)

	require.NotNil(t, e.History)
	e.History.Add("select 1")
	require.Equal(t, 1, e.History.Len())
}

package lineedit

import (
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// Config is the on-disk counterpart of spec.md §6's option surface: every
// toggle and tunable an embedder would otherwise set one-by-one through
// Options, collected into a single YAML document so a host application can
// ship (and a user can edit) one config file instead of wiring each Option
// by hand. Loading a Config is additive; an Editor built with no Config at
// all behaves exactly as before (SPEC_FULL.md §2 "Configuration").
//
// Apply assigns the toggles it handles verbatim, including those that
// default on in a bare NewEditor (BraceMatching, BraceInsertion,
// PromptCleanup): for those, a config file is a complete restatement, not a
// sparse overlay. Apply does not read Profile (see Options), Color,
// HistoryDuplicates, CompletionPreview, InlineHelp, Highlight or
// PromptCleanupExtraLines.
type Config struct {
	Profile string `yaml:"profile"`

	Multiline         bool `yaml:"multiline"`
	Beep              bool `yaml:"beep"`
	Color             bool `yaml:"color"`
	HistoryDuplicates bool `yaml:"history_duplicates"`
	AutoTab           bool `yaml:"auto_tab"`
	CompletionPreview bool `yaml:"completion_preview"`
	MultilineIndent   bool `yaml:"multiline_indent"`
	InlineHelp        bool `yaml:"inline_help"`

	Hint        bool `yaml:"hint"`
	HintDelayMS int  `yaml:"hint_delay_ms"`

	SpellCorrect   bool `yaml:"spell_correct"`
	Highlight      bool `yaml:"highlight"`
	BraceMatching  bool `yaml:"brace_matching"`
	BraceInsertion bool `yaml:"brace_insertion"`

	PromptCleanup          bool `yaml:"prompt_cleanup"`
	PromptCleanupExtraLines int  `yaml:"extra_lines"`
	PromptCleanupEmptyLine bool `yaml:"prompt_cleanup_empty_line"`

	// MatchingBraces and InsertionBraces are even-length strings of
	// alternating open/close runes (spec.md §6 "set_matching_braces",
	// "set_insertion_braces"). Empty means "leave the built-in default".
	MatchingBraces  string `yaml:"matching_braces"`
	InsertionBraces string `yaml:"insertion_braces"`

	PromptMarker       string `yaml:"prompt_marker"`
	ContinuationMarker string `yaml:"continuation_marker"`

	EscDelayInitialMS  int `yaml:"esc_delay_initial_ms"`
	EscDelayFollowupMS int `yaml:"esc_delay_followup_ms"`

	History struct {
		Path         string `yaml:"path"`
		MaxEntries   int    `yaml:"max_entries"`
		NoDuplicates bool   `yaml:"no_duplicates"`
	} `yaml:"history"`

	// Profiles registers additional named key-binding profiles beyond the
	// built-in emacs/vim/emacs-apple ones (spec.md §3 "Key binding
	// profile"). Each entry's Parent, if non-empty, must already be
	// registered (built-in or an earlier entry in this same list).
	Profiles []ConfigProfile `yaml:"profiles"`
}

// ConfigProfile is one [[profiles]] entry: a name, an optional parent to
// inherit from, and a set of "spec: action" bindings applied on top of the
// parent (spec.md §3 "apply parent first, then override").
type ConfigProfile struct {
	Name     string            `yaml:"name"`
	Parent   string            `yaml:"parent"`
	Bindings map[string]string `yaml:"bindings"`
}

// LoadConfig reads and parses a YAML config file. A missing file is not an
// error: it returns a zero Config, so callers can unconditionally LoadConfig
// an optional, user-provided path. Applying that zero Config is not a no-op:
// Apply sets every boolean toggle it handles to false.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "lineedit: read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "lineedit: parse config %s", path)
	}
	for _, p := range cfg.Profiles {
		if err := registerConfigProfile(p); err != nil {
			return nil, errors.Wrapf(err, "lineedit: config profile %q", p.Name)
		}
	}
	return cfg, nil
}

// registerConfigProfile builds a Profile from a ConfigProfile and registers
// it under RegisterProfile, resolving Parent against whatever is already
// registered (built-ins first, then earlier entries in the same file).
func registerConfigProfile(p ConfigProfile) error {
	if p.Name == "" {
		return errors.New("profile entry missing name")
	}
	prof := &Profile{name: p.Name}
	if p.Parent != "" {
		parent, ok := LookupProfile(p.Parent)
		if !ok {
			return errors.Errorf("unknown parent profile %q", p.Parent)
		}
		prof.parent = parent
	}
	entries := make([]bindingEntry, 0, len(p.Bindings))
	for spec, actionName := range p.Bindings {
		action := Action(actionName)
		if !IsValidAction(action) {
			return errors.Errorf("unknown action %q for binding %q", actionName, spec)
		}
		entries = append(entries, bindingEntry{action: action, specs: spec})
	}
	prof.bindings = entries
	RegisterProfile(prof)
	return nil
}

// Options returns the Editor Options a Config's settings translate to, for
// use as NewEditor(cfg.Options()...). Only Profile has an Option form; see
// Apply for the fields that are set directly on an existing Editor.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Profile != "" {
		opts = append(opts, WithKeyBindingProfile(c.Profile))
	}
	return opts
}

// Apply assigns Config fields onto an already-constructed Editor; the Config
// type's comment lists the fields it leaves alone. Call it after NewEditor (so c.Options() has already selected the profile) to
// fill in the remaining toggles and tunables that have no Option form.
func (c *Config) Apply(e *Editor) {
	e.Multiline = c.Multiline
	if c.Beep {
		e.Beep = defaultBeep
	}
	e.HintEnabled = c.Hint
	if c.HintDelayMS > 0 {
		e.HintDelay = time.Duration(c.HintDelayMS) * time.Millisecond
	}
	e.Completion.AutoTab = c.AutoTab
	e.Completion.SpellCorrect = c.SpellCorrect
	e.BraceMatching = c.BraceMatching
	e.BraceInsertion = c.BraceInsertion
	e.MultilineIndent = c.MultilineIndent
	e.PromptCleanup = c.PromptCleanup
	e.PromptCleanupEmptyLine = c.PromptCleanupEmptyLine

	if c.PromptMarker != "" {
		e.PromptMarker = c.PromptMarker
	}
	if c.ContinuationMarker != "" {
		e.ContinuationMarker = c.ContinuationMarker
	}

	if c.MatchingBraces != "" {
		SetMatchingBraces([]rune(c.MatchingBraces))
	}
	if c.InsertionBraces != "" {
		SetInsertionBraces([]rune(c.InsertionBraces))
	}

	if c.EscDelayInitialMS > 0 || c.EscDelayFollowupMS > 0 {
		initial := time.Duration(c.EscDelayInitialMS) * time.Millisecond
		followup := time.Duration(c.EscDelayFollowupMS) * time.Millisecond
		e.lexer.SetEscDelay(initial, followup)
	}

	if c.History.Path != "" {
		h := NewHistory(c.History.MaxEntries, c.History.NoDuplicates)
		if err := h.Load(c.History.Path); err == nil {
			e.History = h
		}
	}
}

func defaultBeep() {
	os.Stdout.WriteString("\a")
}

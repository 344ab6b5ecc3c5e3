package lineedit

import (
	"fmt"
	"sort"
)

// bindingEntry pairs an action with its `|`-separated default spec string,
// the same shape the teacher's bind.go uses for its `bind <spec> <command>`
// table, generalized to spec.md §3's profile tuple.
type bindingEntry struct {
	action Action
	specs  string
}

// Profile is a named key-binding table that optionally inherits from a
// parent profile (spec.md §3 "Key binding profile", §4.6 "Profiles").
type Profile struct {
	name      string
	parent    *Profile
	bindings  []bindingEntry
	overrides []bindingEntry
}

// emacsBindings holds the non-Apple default specs. The Apple-variant specs
// for word navigation and insert-newline live in appleEmacsBindings, per
// spec.md §4.6's explicit per-platform carve-out; callers targeting macOS can
// swap in AppleEmacsProfile.
var emacsBindings = []bindingEntry{
	{ActionCursorLeft, "left|ctrl+b"},
	{ActionCursorRight, "right|ctrl+f"},
	{ActionCursorUp, "up"},
	{ActionCursorDown, "down"},
	{ActionWordPrev, "ctrl+left|shift+left|alt+b"},
	{ActionWordNext, "ctrl+right|shift+right|alt+f"},
	{ActionLineStart, "home|ctrl+a"},
	{ActionLineEnd, "end|ctrl+e"},
	{ActionInputStart, "ctrl+home|shift+home|pageup|alt+<"},
	{ActionInputEnd, "ctrl+end|shift+end|pagedown|alt+>"},
	{ActionMatchBrace, "alt+m"},
	{ActionHistoryPrev, "ctrl+p"},
	{ActionHistoryNext, "ctrl+n"},
	{ActionHistorySearch, "ctrl+r|ctrl+s"},
	{ActionDeleteForward, "delete|ctrl+d"},
	{ActionDeleteBackward, "backspace|ctrl+h"},
	{ActionDeleteWordEnd, "alt+d"},
	{ActionDeleteWordStartWS, "ctrl+w"},
	{ActionDeleteWordStart, "alt+backspace|alt+delete"},
	{ActionDeleteLineStart, "ctrl+u"},
	{ActionDeleteLineEnd, "ctrl+k"},
	{ActionTransposeChars, "ctrl+t"},
	{ActionTransposeWords, "alt+t"},
	{ActionClearScreen, "ctrl+l"},
	{ActionUndo, "ctrl+z|ctrl+_"},
	{ActionRedo, "ctrl+y"},
	{ActionComplete, "tab|alt+?"},
	{ActionInsertNewline, "ctrl+enter|ctrl+j"},
	{ActionYank, "alt+y"},
	{ActionYankPop, "alt+shift+y"},
	{ActionCancel, "ctrl+c"},
	{ActionHelp, "alt+shift+/"},
}

var appleEmacsBindings = []bindingEntry{
	{ActionWordPrev, "shift+left|alt+b"},
	{ActionWordNext, "shift+right|alt+f"},
	{ActionInsertNewline, "shift+tab|ctrl+j"},
}

// EmacsProfile is the built-in default profile (spec.md §6). It has no
// parent; every other built-in profile descends from it.
var EmacsProfile = &Profile{name: "emacs", bindings: emacsBindings}

// AppleEmacsProfile overrides the three bindings spec.md §4.6 calls out as
// Apple-specific (Ctrl-Left/Right collide with macOS Mission Control).
var AppleEmacsProfile = &Profile{name: "emacs-apple", parent: EmacsProfile, overrides: appleEmacsBindings}

// VimProfile adds vim-style `h/j/k/l` cursor movement and `w` word-forward
// under Alt, layered on top of the emacs defaults (spec.md §4.6 "vim (adds
// alt+h/j/k/l, alt+w)").
var VimProfile = &Profile{
	name:   "vim",
	parent: EmacsProfile,
	bindings: []bindingEntry{
		{ActionCursorLeft, "alt+h"},
		{ActionCursorDown, "alt+j"},
		{ActionCursorUp, "alt+k"},
		{ActionCursorRight, "alt+l"},
		{ActionWordNext, "alt+w"},
	},
}

var builtinProfiles = map[string]*Profile{
	EmacsProfile.name:      EmacsProfile,
	AppleEmacsProfile.name: AppleEmacsProfile,
	VimProfile.name:        VimProfile,
}

// RegisterProfile makes a custom profile available by name to SetProfile.
func RegisterProfile(p *Profile) { builtinProfiles[p.name] = p }

// LookupProfile returns a registered profile by name.
func LookupProfile(name string) (*Profile, bool) {
	p, ok := builtinProfiles[name]
	return p, ok
}

// chain returns the profile lineage root-first.
func (p *Profile) chain() []*Profile {
	var chain []*Profile
	for cur := p; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// BindingTable maps keycodes to actions. It is built by applying a profile
// chain parent-first, and can carry an ad hoc runtime overlay on top of
// whatever profile is active (spec.md §3, §4.6).
type BindingTable struct {
	profile  *Profile
	bindings map[Keycode]Action
}

// NewBindingTable builds a binding table for the named profile, applying its
// full parent chain (spec.md §4.6 "apply parent first, then override").
func NewBindingTable(profileName string) (*BindingTable, error) {
	t := &BindingTable{bindings: map[Keycode]Action{}}
	if err := t.SetProfile(profileName); err != nil {
		return nil, err
	}
	return t, nil
}

// SetProfile switches to the named profile, clearing any runtime overlay and
// re-applying from the root of the new profile's chain.
func (t *BindingTable) SetProfile(name string) error {
	p, ok := builtinProfiles[name]
	if !ok {
		return fmt.Errorf("lineedit: unknown key binding profile %q", name)
	}
	t.profile = p
	return t.ResetBindings()
}

// ResetBindings re-applies the current profile's chain from the root,
// discarding any bindings added or cleared since the profile was selected.
func (t *BindingTable) ResetBindings() error {
	t.bindings = map[Keycode]Action{}
	for _, p := range t.profile.chain() {
		if err := t.applyEntries(p.bindings); err != nil {
			return err
		}
		if err := t.applyEntries(p.overrides); err != nil {
			return err
		}
	}
	return nil
}

func (t *BindingTable) applyEntries(entries []bindingEntry) error {
	for _, e := range entries {
		keys, err := ParseKeySpecList(e.specs)
		if err != nil {
			return fmt.Errorf("lineedit: profile %q: %w", t.profile.name, err)
		}
		for _, k := range keys {
			t.bindings[k] = e.action
		}
	}
	return nil
}

// Bind binds a single parsed key spec string to action, overriding whatever
// the active profile set. The spec string may itself be a `|`-separated
// list, each member bound identically.
func (t *BindingTable) Bind(spec string, action Action) error {
	keys, err := ParseKeySpecList(spec)
	if err != nil {
		return err
	}
	for _, k := range keys {
		t.bindings[k] = action
	}
	return nil
}

// BindNamed is Bind, but validates that actionName is a known Action before
// binding (spec.md §3 "named variants bind_key_named(spec, action_name)").
func (t *BindingTable) BindNamed(spec string, actionName string) error {
	a := Action(actionName)
	if !IsValidAction(a) {
		return fmt.Errorf("lineedit: unknown action %q", actionName)
	}
	return t.Bind(spec, a)
}

// Clear removes any binding for k.
func (t *BindingTable) Clear(k Keycode) { delete(t.bindings, k) }

// Query returns the action bound to k, if any.
func (t *BindingTable) Query(k Keycode) (Action, bool) {
	a, ok := t.bindings[k]
	return a, ok
}

// BindingEntry is one row of ListBindings' output.
type BindingEntry struct {
	Key    Keycode
	Spec   string
	Action Action
}

// ListBindings returns every active binding, sorted by action name and then
// by canonical spec text, for stable, diffable help-screen output.
func (t *BindingTable) ListBindings() []BindingEntry {
	out := make([]BindingEntry, 0, len(t.bindings))
	for k, a := range t.bindings {
		out = append(out, BindingEntry{Key: k, Spec: FormatKeySpec(k), Action: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Action != out[j].Action {
			return out[i].Action < out[j].Action
		}
		return out[i].Spec < out[j].Spec
	})
	return out
}

// ListProfiles returns the names of every registered profile, sorted.
func ListProfiles() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProfileName reports the name of the table's active profile.
func (t *BindingTable) ProfileName() string { return t.profile.name }
